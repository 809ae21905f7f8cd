package booking

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("booking not found")
	ErrForbidden      = errors.New("not allowed to modify this booking")
	ErrSignInRequired = errors.New("sign in required to book")
)

// ValidationError reports a rejected field of a booking payload.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
