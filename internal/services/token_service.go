package services

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// TokenService issues and verifies the signed session tokens that gate
// access to protected routes. It holds no state beyond the signing
// secret and the configured lifetime; verification is a pure function
// of (token, wall clock, secret).
type TokenService struct {
	secret   []byte
	tokenTTL time.Duration
}

// NewTokenService creates a new TokenService.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{
		secret:   []byte(secret),
		tokenTTL: ttl,
	}
}

// GenerateToken signs a session token whose subject is the given email.
func (s *TokenService) GenerateToken(email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": email,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// VerifyToken parses and validates a session token, returning the
// subject email. Any failure (bad signature, expiry, malformed input)
// collapses to ErrInvalidToken.
func (s *TokenService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", ErrInvalidToken
	}
	return subject, nil
}
