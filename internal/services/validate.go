package services

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex = regexp.MustCompile(`^\d{10}$`)
)

const passwordSymbols = "!@#$%^&*"

// RegisterInput is the raw registration payload before validation.
type RegisterInput struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Phone    string `json:"phone" form:"phone"`
}

// validateRegistration checks the registration input in a fixed order;
// the first failing rule wins. It performs no I/O.
func validateRegistration(in RegisterInput) error {
	if in.Username == "" || in.Email == "" || in.Password == "" || in.Phone == "" {
		return ErrMissingFields
	}
	if n := utf8.RuneCountInString(in.Username); n < 3 || n > 30 {
		return ErrInvalidUsername
	}
	if !emailRegex.MatchString(in.Email) {
		return ErrInvalidEmail
	}
	if !strongPassword(in.Password) {
		return ErrWeakPassword
	}
	if !phoneRegex.MatchString(in.Phone) {
		return ErrInvalidPhone
	}
	return nil
}

// strongPassword requires length >= 8 with at least one digit, one
// lowercase letter, one uppercase letter, and one symbol from the fixed
// set. RE2 has no lookaheads, so the classes are checked individually.
// Lengths count characters, not bytes.
func strongPassword(password string) bool {
	if utf8.RuneCountInString(password) < 8 {
		return false
	}
	var hasDigit, hasLower, hasUpper, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}
	return hasDigit && hasLower && hasUpper && hasSymbol
}
