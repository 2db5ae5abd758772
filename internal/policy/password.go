package policy

// Minimum character classes a password must contain.
const (
	MinLetters = 4
	MinDigits  = 1
)

// PasswordMessage is returned to clients whose password fails ValidPassword.
const PasswordMessage = "The password should contains at least 4 characters and 1 digit"

// ValidPassword reports whether s holds at least MinLetters ASCII letters
// and MinDigits ASCII digits, wherever they appear.
func ValidPassword(s string) bool {
	var letters, digits int
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			letters++
		case c >= '0' && c <= '9':
			digits++
		}
	}
	return letters >= MinLetters && digits >= MinDigits
}
