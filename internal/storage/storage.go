package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongminglow/user-records/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ValidationError reports a document the store refused to persist.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("user validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("user validation failed: %s: %s", e.Field, e.Reason)
}

// UserStore captures persistence operations needed by handlers.
type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	Insert(ctx context.Context, user models.User) (models.User, error)
	Ping(ctx context.Context) error
}

// Validate applies the user schema shared by every store implementation.
func Validate(user models.User) error {
	name, ok := user.Fields[models.FieldName].(string)
	if !ok {
		return &ValidationError{Field: models.FieldName, Reason: "Path `name` is required."}
	}
	if name == "" {
		return &ValidationError{Field: models.FieldName, Reason: "must not be empty"}
	}
	if _, ok := user.Fields[models.FieldPassword].(string); !ok {
		return &ValidationError{Field: models.FieldPassword, Reason: "Path `password` is required."}
	}
	return nil
}
