package handlers

import (
	"errors"
	"fmt"
	"log"

	"pasarku/internal/middleware"
	"pasarku/internal/repositories"
	"pasarku/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the authenticated user's cart.
type CartHandler struct {
	cartService *services.CartService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewCartHandler creates a new CartHandler. The auth service resolves
// the token subject into a user record.
func NewCartHandler(cartService *services.CartService, authService *services.AuthService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Delete("/items/:productID", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)
}

// callerID resolves the authenticated caller's user ID.
func (h *CartHandler) callerID(c *fiber.Ctx) (string, error) {
	user, err := h.authService.GetByEmail(middleware.Identity(c))
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// HandleGetCart returns the caller's cart.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	userID, err := h.callerID(c)
	if err != nil {
		log.Printf("Error resolving cart owner: %v", err)
		return respondError(c, err)
	}

	cart, err := h.cartService.GetCart(userID)
	if err != nil {
		log.Printf("Error getting cart for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve cart",
		})
	}
	return c.JSON(cart)
}

// AddItemRequest represents the request body for adding a cart item.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// HandleAddItem adds a product to the caller's cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	userID, err := h.callerID(c)
	if err != nil {
		log.Printf("Error resolving cart owner: %v", err)
		return respondError(c, err)
	}

	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add-item request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	cart, err := h.cartService.AddItem(userID, req.ProductID, req.Quantity)
	if err != nil {
		log.Printf("Error adding item to cart for user %s: %v", userID, err)
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with ID %s not found", req.ProductID),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not add item to cart",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(cart)
}

// HandleRemoveItem removes a product from the caller's cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	userID, err := h.callerID(c)
	if err != nil {
		log.Printf("Error resolving cart owner: %v", err)
		return respondError(c, err)
	}

	productID := c.Params("productID")
	cart, err := h.cartService.RemoveItem(userID, productID)
	if err != nil {
		log.Printf("Error removing item %s from cart for user %s: %v", productID, userID, err)
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with ID %s not in cart", productID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not remove item from cart",
		})
	}
	return c.JSON(cart)
}

// HandleClearCart removes the caller's cart entirely.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	userID, err := h.callerID(c)
	if err != nil {
		log.Printf("Error resolving cart owner: %v", err)
		return respondError(c, err)
	}

	if err := h.cartService.ClearCart(userID); err != nil {
		log.Printf("Error clearing cart for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not clear cart",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Cart cleared successfully",
	})
}
