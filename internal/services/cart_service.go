package services

import (
	"errors"
	"fmt"

	"pasarku/internal/models"
	"pasarku/internal/repositories"
)

// CartService handles business logic for user carts.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the user's cart, or an empty cart if none exists yet.
func (s *CartService) GetCart(userID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
		}
		return nil, err
	}
	return cart, nil
}

// AddItem puts a product into the user's cart, creating the cart on
// first use. Adding an already-present product increments its quantity.
func (s *CartService) AddItem(userID, productID string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, fmt.Errorf("product %s not found: %w", productID, err)
	}
	if product.Stock < quantity {
		return nil, fmt.Errorf("insufficient stock for product %s (requested: %d, available: %d)", product.Name, quantity, product.Stock)
	}

	cart, err := s.GetCart(userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.CartItem{
			ProductID: productID,
			Quantity:  quantity,
		})
	}

	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem drops a product from the user's cart.
func (s *CartService) RemoveItem(userID, productID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	items := cart.Items[:0]
	removed := false
	for _, item := range cart.Items {
		if item.ProductID == productID {
			removed = true
			continue
		}
		items = append(items, item)
	}
	if !removed {
		return nil, fmt.Errorf("product %s not in cart: %w", productID, repositories.ErrNotFound)
	}
	cart.Items = items

	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// ClearCart removes the user's cart entirely.
func (s *CartService) ClearCart(userID string) error {
	err := s.cartRepo.Delete(userID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	return nil
}
