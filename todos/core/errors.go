package core

import (
	"errors"
	"fmt"
)

// Todos errors
var (
	ErrTodoNotFound    = errors.New("todo not found")
	ErrTodoInvalidArgs = errors.New("todo invalid args")
)

// Users errors
var (
	ErrUserNotFound = errors.New("user not found")
)

// ErrConstraint is a storage constraint violation the service did not expect.
var ErrConstraint = errors.New("constraint violation")

// ValidationError names the offending input field.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrTodoInvalidArgs
}
