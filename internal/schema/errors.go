package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedType is returned when a native column type has no canonical kind.
	ErrUnsupportedType = errors.New("unsupported native type")
	// ErrUnsupportedKind is returned when an adapter has no native type for a kind.
	ErrUnsupportedKind = errors.New("unsupported scalar kind")
	// ErrMalformedForeignKey is returned when a reference cannot be parsed or resolved.
	ErrMalformedForeignKey = errors.New("malformed foreign key")
	// ErrInvalidDefault is returned when a default literal does not match its kind.
	ErrInvalidDefault = errors.New("invalid default")
	// ErrUnsupportedDefault is returned when a destination cannot express a default.
	ErrUnsupportedDefault = errors.New("unsupported default")
	// ErrUnsupportedParam is returned when a destination cannot express a column parameter.
	ErrUnsupportedParam = errors.New("unsupported column parameter")
	// ErrInvalidModel is returned when a model violates an IR invariant.
	ErrInvalidModel = errors.New("invalid model")
)

// FieldError attaches model and field context to an error.
type FieldError struct {
	Model string
	Field string
	Err   error
}

// NewFieldError wraps err with model and field context.
func NewFieldError(model, field string, err error) *FieldError {
	return &FieldError{Model: model, Field: field, Err: err}
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Model, e.Err)
	}

	return fmt.Sprintf("%s.%s: %v", e.Model, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
