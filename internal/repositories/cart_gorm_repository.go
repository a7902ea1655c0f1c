package repositories

import (
	"errors"
	"fmt"

	"pasarku/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetByUserID retrieves a user's cart with its items preloaded.
func (r *GORMCartRepository) GetByUserID(userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.Preload("Items").First(&cart, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart for user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}
	return &cart, nil
}

// Save creates or updates a cart and replaces its items.
func (r *GORMCartRepository) Save(cart *models.Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Items are replaced explicitly below; keep Save away from the
		// association.
		if err := tx.Omit("Items").Save(cart).Error; err != nil {
			return err
		}
		// Replace items wholesale: the cart struct is the source of truth.
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		for i := range cart.Items {
			cart.Items[i].ID = 0
			cart.Items[i].CartID = cart.ID
		}
		if len(cart.Items) == 0 {
			return nil
		}
		return tx.Create(&cart.Items).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save cart %s: %w", cart.ID, err)
	}
	return nil
}

// Delete removes a user's cart and its items.
func (r *GORMCartRepository) Delete(userID string) error {
	cart, err := r.GetByUserID(userID)
	if err != nil {
		return err
	}
	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(cart).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete cart for user %s: %w", userID, err)
	}
	return nil
}
