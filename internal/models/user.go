package models

import (
	"bytes"
	"encoding/json"
	"maps"
)

// Field names with meaning to the service. Every other field is opaque.
const (
	FieldID       = "id"
	FieldName     = "name"
	FieldPassword = "password"
)

// User is a stored user document: a store-assigned ID plus whatever
// fields the caller supplied.
type User struct {
	ID     string
	Fields map[string]any
}

// NewUser builds an unsaved user from decoded request fields. A
// caller-supplied id is dropped; the store assigns one on insert.
func NewUser(fields map[string]any) User {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == FieldID {
			continue
		}
		out[k] = v
	}
	return User{Fields: out}
}

// Password returns the password field, or "" when it is absent or not a string.
func (u User) Password() string {
	s, _ := u.Fields[FieldPassword].(string)
	return s
}

// WithPassword returns a copy of u with the password field replaced.
func (u User) WithPassword(password string) User {
	fields := maps.Clone(u.Fields)
	if fields == nil {
		fields = make(map[string]any, 1)
	}
	fields[FieldPassword] = password
	return User{ID: u.ID, Fields: fields}
}

// MarshalJSON flattens the document into one object. The password never
// leaves the service.
func (u User) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Fields)+1)
	for k, v := range u.Fields {
		if k == FieldPassword {
			continue
		}
		out[k] = v
	}
	out[FieldID] = u.ID
	return json.Marshal(out)
}

// UnmarshalJSON reads the flat object form written by MarshalJSON.
// Numbers are kept as json.Number so large integers survive.
func (u *User) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return err
	}
	id, _ := fields[FieldID].(string)
	delete(fields, FieldID)
	u.ID = id
	u.Fields = fields
	return nil
}

// String renders the compact JSON form.
func (u User) String() string {
	b, err := u.MarshalJSON()
	if err != nil {
		return "{}"
	}
	return string(b)
}
