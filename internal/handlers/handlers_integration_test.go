package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"pasarku/internal/handlers"
	"pasarku/internal/middleware"
	"pasarku/internal/models"
	"pasarku/internal/repositories"
	"pasarku/internal/services"
	"pasarku/pkg/assetstore"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "test_jwt_secret"

// setupApp builds a Fiber app over a named in-memory SQLite database
// with all handlers and services wired. Each test uses its own dbName
// so state does not leak between tests.
func setupApp(dbName string) (*fiber.App, *services.TokenService, *assetstore.MemoryStore, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Cart{}, &models.CartItem{}); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)

	assets := assetstore.NewMemoryStore()
	tokenService := services.NewTokenService(testJWTSecret, time.Hour)
	authService := services.NewAuthService(userRepo, tokenService, assets, nil)
	productService := services.NewProductService(productRepo)
	cartService := services.NewCartService(cartRepo, productRepo)

	authHandler := handlers.NewAuthHandler(authService, "")
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService, authService)

	app := fiber.New()

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(tokenService))
	authHandler.RegisterProfileRoutes(protected)
	productHandler.RegisterRoutes(protected)
	cartHandler.RegisterRoutes(protected)

	return app, tokenService, assets, nil
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func postJSON(app *fiber.App, path string, body interface{}) (*http.Response, error) {
	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	return app.Test(req, -1)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()
	return out
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app, tokenService, _, err := setupApp("register_login")
	assert.NoError(t, err)

	registration := map[string]string{
		"username": "bob",
		"email":    "bob@x.com",
		"password": "Abcdef1!",
		"phone":    "9876543210",
	}
	resp, err := postJSON(app, "/api/v1/auth/register", registration)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	registerResp := decodeBody(t, resp)
	assert.Equal(t, true, registerResp["success"])
	assert.Equal(t, "Successfully Registered.", registerResp["message"])
	assert.Contains(t, registerResp["token"], "Bearer ")

	// The returned user excludes the password hash.
	user := registerResp["user"].(map[string]interface{})
	assert.Equal(t, "bob@x.com", user["email"])
	_, hasPassword := user["password"]
	assert.False(t, hasPassword)
	_, hasHash := user["Password"]
	assert.False(t, hasHash)

	// Duplicate registration is rejected with a conflict.
	resp, err = postJSON(app, "/api/v1/auth/register", registration)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Login with the registered credentials.
	resp, err = postJSON(app, "/api/v1/auth/login", map[string]string{
		"email":    "bob@x.com",
		"password": "Abcdef1!",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	loginResp := decodeBody(t, resp)
	token, _ := loginResp["token"].(string)
	assert.Contains(t, token, "Bearer ")

	// The token's verified subject is the registered email.
	subject, err := tokenService.VerifyToken(token[len("Bearer "):])
	assert.NoError(t, err)
	assert.Equal(t, "bob@x.com", subject)

	// Wrong password is rejected without a token.
	resp, err = postJSON(app, "/api/v1/auth/login", map[string]string{
		"email":    "bob@x.com",
		"password": "WrongPass1!",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	badLogin := decodeBody(t, resp)
	assert.NotContains(t, badLogin, "token")

	// Unknown email is rejected.
	resp, err = postJSON(app, "/api/v1/auth/login", map[string]string{
		"email":    "ghost@x.com",
		"password": "Abcdef1!",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestRegisterValidationErrors(t *testing.T) {
	app, _, _, err := setupApp("register_validation")
	assert.NoError(t, err)

	tests := []struct {
		name        string
		body        map[string]string
		wantMessage string
	}{
		{
			"missing fields",
			map[string]string{"username": "bob", "email": "bob@x.com"},
			"Please enter all fields.",
		},
		{
			"short username",
			map[string]string{"username": "ab", "email": "bob@x.com", "password": "Abcdef1!", "phone": "9876543210"},
			"Username must be in between 3 and 30 characters long.",
		},
		{
			"bad email",
			map[string]string{"username": "bob", "email": "nope", "password": "Abcdef1!", "phone": "9876543210"},
			"Please enter a valid email address.",
		},
		{
			"weak password",
			map[string]string{"username": "bob", "email": "bob@x.com", "password": "weak", "phone": "9876543210"},
			"Password must be at least 8 characters long and contain at least one uppercase letter, one lowercase letter, one number, and one special character.",
		},
		{
			"bad phone",
			map[string]string{"username": "bob", "email": "bob@x.com", "password": "Abcdef1!", "phone": "123"},
			"Please provide a valid 10-digit phone number.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := postJSON(app, "/api/v1/auth/register", tt.body)
			assert.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decodeBody(t, resp)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMessage, body["message"])
		})
	}
}

func TestRegisterWithProfileImage(t *testing.T) {
	app, _, assets, err := setupApp("register_image")
	assert.NoError(t, err)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("username", "alice")
	_ = w.WriteField("email", "alice@example.com")
	_ = w.WriteField("password", "Abcdef1!")
	_ = w.WriteField("phone", "0123456789")
	fw, err := w.CreateFormFile("profile", "avatar.png")
	assert.NoError(t, err)
	_, err = fw.Write([]byte("fake-png-bytes"))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	user := body["user"].(map[string]interface{})
	assert.Contains(t, user["profile"], "memory://user-images/")
	assert.Equal(t, 1, assets.Len())

	// The stored object carries the bytes that were uploaded.
	stored, ok := assets.Get("user-images/avatar.png")
	assert.True(t, ok)
	assert.Equal(t, []byte("fake-png-bytes"), stored)
}

func registerUser(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp, err := postJSON(app, "/api/v1/auth/register", map[string]string{
		"username": "cartuser",
		"email":    email,
		"password": "Abcdef1!",
		"phone":    "9876543210",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	assert.NotEmpty(t, token)
	return token // already carries the Bearer prefix
}

func TestProfileEndpoint(t *testing.T) {
	app, _, _, err := setupApp("profile")
	assert.NoError(t, err)

	token := registerUser(t, app, "profile@x.com")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/profile", nil)
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "profile@x.com", user["email"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, _, _, err := setupApp("token_gate")
	assert.NoError(t, err)

	// No token at all.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Garbage token.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Expired token signed with the right secret.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "bob@x.com",
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	expiredString, err := expired.SignedString([]byte(testJWTSecret))
	assert.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+expiredString)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestTokenFromCookie(t *testing.T) {
	app, tokenService, _, err := setupApp("cookie_carrier")
	assert.NoError(t, err)

	registerUser(t, app, "cookie@x.com")
	raw, err := tokenService.GenerateToken("cookie@x.com")
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/profile", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: raw})
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestCartAndProductFlow(t *testing.T) {
	app, _, _, err := setupApp("cart_flow")
	assert.NoError(t, err)

	token := registerUser(t, app, "cart@x.com")
	authed := func(method, path string, body interface{}) *http.Request {
		var reader io.Reader
		if body != nil {
			jsonBody, _ := json.Marshal(body)
			reader = bytes.NewReader(jsonBody)
		}
		req := httptest.NewRequest(method, path, reader)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Authorization", token)
		return req
	}

	// Create a product.
	resp, err := app.Test(authed(http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":        "Mechanical Keyboard",
		"description": "Clicky",
		"price":       75.0,
		"stock":       25,
	}), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var product models.Product
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&product))
	assert.NotEmpty(t, product.ID)
	resp.Body.Close()

	// Add it to the cart.
	resp, err = app.Test(authed(http.MethodPost, "/api/v1/cart/items", map[string]interface{}{
		"product_id": product.ID,
		"quantity":   2,
	}), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// The cart round-trips.
	resp, err = app.Test(authed(http.MethodGet, "/api/v1/cart", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var cart models.Cart
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&cart))
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, product.ID, cart.Items[0].ProductID)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	resp.Body.Close()

	// Remove the item again.
	resp, err = app.Test(authed(http.MethodDelete, "/api/v1/cart/items/"+product.ID, nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = app.Test(authed(http.MethodGet, "/api/v1/cart", nil), -1)
	assert.NoError(t, err)
	var emptied models.Cart
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&emptied))
	assert.Empty(t, emptied.Items)
	resp.Body.Close()
}
