package domain

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var emailValidate = validator.New()

// Email is a validated, normalized email address. Construct via NewEmail.
type Email struct {
	value string
}

// NewEmail validates raw as a syntactically well-formed address, then
// normalizes it to lowercase with surrounding whitespace trimmed.
func NewEmail(raw string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if err := emailValidate.Var(normalized, "required,email"); err != nil {
		return Email{}, &ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	return Email{value: normalized}, nil
}

func (e Email) String() string { return e.value }

// Password is a policy-checked plaintext password. The raw value is preserved
// unchanged: case and symbols matter for hashing.
type Password struct {
	value string
}

// NewPassword enforces the password policy: at least 8 characters, at least
// one letter, and at least one digit.
func NewPassword(raw string) (Password, error) {
	if len(raw) < 8 {
		return Password{}, &ValidationError{Field: "password", Message: "must be at least 8 characters"}
	}
	var hasLetter, hasDigit bool
	for _, r := range raw {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasDigit {
		return Password{}, &ValidationError{Field: "password", Message: "must contain at least one digit"}
	}
	if !hasLetter {
		return Password{}, &ValidationError{Field: "password", Message: "must contain at least one letter"}
	}
	return Password{value: raw}, nil
}

func (p Password) String() string { return p.value }
