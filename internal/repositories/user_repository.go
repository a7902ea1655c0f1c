package repositories

import (
	"errors"

	"pasarku/internal/models"
)

// ErrNotFound is returned by lookups when no record matches. Callers
// distinguish it from infrastructure failures with errors.Is.
var ErrNotFound = errors.New("record not found")

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
