package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{name: "four letters one digit", password: "abc1d", want: true},
		{name: "three letters one digit", password: "abc1", want: false},
		{name: "no digit", password: "abcd", want: false},
		{name: "too few letters", password: "a1", want: false},
		{name: "empty", password: "", want: false},
		{name: "separators ignored", password: "a-b-c-d-1", want: true},
		{name: "mixed case", password: "AbCd9", want: true},
		{name: "digits first", password: "2024Wxyz", want: true},
		{name: "non ascii letters do not count", password: "äöüß1", want: false},
		{name: "only digits", password: "123456", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPassword(tt.password))
		})
	}
}
