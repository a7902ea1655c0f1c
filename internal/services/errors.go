package services

import "errors"

// Sentinel errors for the credential and session flow. Handlers match
// these with errors.Is and map them to HTTP statuses; the message text
// returned to clients is fixed there, never taken from wrapped detail.
var (
	ErrMissingFields      = errors.New("please enter all fields")
	ErrInvalidUsername    = errors.New("username must be between 3 and 30 characters long")
	ErrInvalidEmail       = errors.New("please enter a valid email address")
	ErrWeakPassword       = errors.New("password must be at least 8 characters long and contain at least one uppercase letter, one lowercase letter, one number, and one special character")
	ErrInvalidPhone       = errors.New("please provide a valid 10-digit phone number")
	ErrDuplicateAccount   = errors.New("user already exists, please login to continue")
	ErrImageUploadFailed  = errors.New("failed to upload profile image")
	ErrPersistenceFailed  = errors.New("failed to save user")
	ErrNotFound           = errors.New("no user found, please register first")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrStoreUnavailable   = errors.New("store unavailable")
)
