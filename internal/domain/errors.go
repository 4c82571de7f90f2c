package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks an unknown order/table/menu-item lookup.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a state-incompatible request: paying an unserved
	// order, cancelling a completed one, regressing a status, underpayment,
	// or a duplicate unique field.
	ErrConflict = errors.New("conflict")
)

// ValidationError carries field-level detail for malformed input.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Invalid(field, message string) error {
	return ValidationError{Field: field, Message: message}
}
