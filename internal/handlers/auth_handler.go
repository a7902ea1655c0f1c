package handlers

import (
	"log"
	"os"
	"path/filepath"

	"pasarku/internal/middleware"
	"pasarku/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// profileImageField is the multipart form field carrying the optional
// profile image on registration.
const profileImageField = "profile"

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	tmpDir      string
}

// NewAuthHandler creates a new AuthHandler. tmpDir is where uploaded
// files are spooled before the asset-store upload; empty means the
// system temp directory.
func NewAuthHandler(authService *services.AuthService, tmpDir string) *AuthHandler {
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	return &AuthHandler{
		authService: authService,
		tmpDir:      tmpDir,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

// RegisterProfileRoutes registers the protected profile routes.
func (h *AuthHandler) RegisterProfileRoutes(router fiber.Router) {
	userRoutes := router.Group("/user")
	userRoutes.Get("/profile", h.HandleProfile)
}

// HandleRegister handles new user registration, with an optional
// multipart profile image.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body.",
		})
	}

	image, err := h.spoolProfileImage(c)
	if err != nil {
		log.Printf("Error spooling profile image: %v", err)
		return respondError(c, services.ErrImageUploadFailed)
	}

	token, user, err := h.authService.Register(c.Context(), input, image)
	if err != nil {
		log.Printf("Error registering user: %v", err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Successfully Registered.",
		"token":   "Bearer " + token,
		"user":    user.Public(),
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// HandleLogin handles user login and issues a session token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body.",
		})
	}

	token, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		log.Printf("Error during login for %s: %v", req.Email, err)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   "Bearer " + token,
		"message": "Successfully Logged In",
		"user":    user.Public(),
	})
}

// HandleProfile returns the record of the authenticated caller.
func (h *AuthHandler) HandleProfile(c *fiber.Ctx) error {
	email := middleware.Identity(c)
	user, err := h.authService.GetByEmail(email)
	if err != nil {
		log.Printf("Error resolving profile for %s: %v", email, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user.Public(),
	})
}

// spoolProfileImage saves the optional multipart image to a local temp
// file and returns its description, or nil when no image was sent.
// Ownership of the temp file passes to the auth service, which removes
// it on every exit path.
func (h *AuthHandler) spoolProfileImage(c *fiber.Ctx) (*services.UploadedImage, error) {
	fileHeader, err := c.FormFile(profileImageField)
	if err != nil {
		// No file in the form; the image is optional.
		return nil, nil
	}

	localPath := filepath.Join(h.tmpDir, uuid.New().String()+filepath.Ext(fileHeader.Filename))
	if err := c.SaveFile(fileHeader, localPath); err != nil {
		return nil, err
	}

	return &services.UploadedImage{
		LocalPath: localPath,
		Filename:  fileHeader.Filename,
	}, nil
}
