package repositories

import (
	"fmt"
	"sync"

	"pasarku/internal/models"

	"github.com/google/uuid"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	carts map[string]models.Cart // keyed by user ID
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[string]models.Cart),
	}
}

// GetByUserID returns the cart for a user.
func (r *MockCartRepository) GetByUserID(userID string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[userID]
	if !ok {
		return nil, fmt.Errorf("cart for user %s: %w", userID, ErrNotFound)
	}
	return &cart, nil
}

// Save creates or replaces a user's cart.
func (r *MockCartRepository) Save(cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	r.carts[cart.UserID] = *cart
	return nil
}

// Delete removes a user's cart.
func (r *MockCartRepository) Delete(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[userID]; !ok {
		return fmt.Errorf("cart for user %s: %w", userID, ErrNotFound)
	}
	delete(r.carts, userID)
	return nil
}
