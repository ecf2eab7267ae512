package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is deliberately shared by the user-not-found and
	// password-mismatch paths so login failures do not leak account existence.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrTokenInvalid       = errors.New("token is invalid or expired")

	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError reports a user-correctable problem with a single input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RoleMismatchError is returned when credentials are valid but the account's
// stored role differs from the role declared at login.
type RoleMismatchError struct {
	Declared Role
}

func (e *RoleMismatchError) Error() string {
	return fmt.Sprintf("user is not registered as %s", e.Declared)
}
