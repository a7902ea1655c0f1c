package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pasarku/internal/models"
	"pasarku/internal/repositories"
	"pasarku/pkg/assetstore"

	"golang.org/x/crypto/bcrypt"
)

// profileImageFolder is the logical folder profile images are scoped to
// in the asset store.
const profileImageFolder = "user-images"

// UploadedImage describes a temporary local file received with a
// registration request. The file is removed on every exit path once
// Register has taken ownership of it.
type UploadedImage struct {
	LocalPath string
	Filename  string
}

// EventPublisher publishes account lifecycle events to a broker.
type EventPublisher interface {
	PublishUserRegistered(event map[string]interface{}) error
}

// AuthService turns raw registration and login input into either a
// persisted account plus session token, or a precise rejection.
type AuthService struct {
	userRepo repositories.UserRepository
	tokens   *TokenService
	assets   assetstore.Store
	events   EventPublisher
}

// NewAuthService creates a new AuthService. The asset store and event
// publisher are optional; a nil asset store skips image uploads and a
// nil publisher skips event publication.
func NewAuthService(userRepo repositories.UserRepository, tokens *TokenService, assets assetstore.Store, events EventPublisher) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		assets:   assets,
		events:   events,
	}
}

// Register validates the input, rejects duplicate accounts, uploads the
// optional profile image, hashes the password, persists the user, and
// issues a session token. No store or asset-store call happens before
// validation passes; an upload failure creates no user.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, image *UploadedImage) (string, *models.User, error) {
	if image != nil {
		// Ownership of the temp file transfers here; it is gone when
		// Register returns, whichever way it returns.
		defer os.Remove(image.LocalPath)
	}

	if err := validateRegistration(in); err != nil {
		return "", nil, err
	}

	// Duplicate pre-check. Not transactional with the create below;
	// the store's unique index on email backstops the race.
	existing, err := s.userRepo.GetByEmail(in.Email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return "", nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if existing != nil {
		return "", nil, ErrDuplicateAccount
	}

	var profileURL string
	if image != nil {
		if s.assets != nil {
			name := strings.TrimSuffix(image.Filename, filepath.Ext(image.Filename))
			profileURL, err = s.assets.Upload(ctx, image.LocalPath, assetstore.UploadParams{
				PublicID: name,
				Folder:   profileImageFolder,
				Kind:     "image",
			})
			if err != nil {
				return "", nil, fmt.Errorf("%w: %v", ErrImageUploadFailed, err)
			}
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashedPassword),
		Phone:    in.Phone,
		Profile:  profileURL,
	}
	if err := s.userRepo.Create(user); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	token, err := s.tokens.GenerateToken(user.Email)
	if err != nil {
		return "", nil, err
	}

	s.publishRegistered(user)

	return token, user, nil
}

// Login authenticates a user by email and password and issues a fresh
// session token.
func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	if email == "" || password == "" {
		return "", nil, ErrMissingFields
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", nil, ErrNotFound
		}
		return "", nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.Email)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// GetByEmail resolves a user record for an authenticated identity.
func (s *AuthService) GetByEmail(email string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return user, nil
}

// publishRegistered emits a user.registered event. Publication is
// best-effort: the account already exists, so a broker failure is
// logged and never fails the request.
func (s *AuthService) publishRegistered(user *models.User) {
	if s.events == nil {
		return
	}
	event := map[string]interface{}{
		"event":     "user.registered",
		"userID":    user.ID,
		"email":     user.Email,
		"username":  user.Username,
		"timestamp": time.Now().Unix(),
	}
	if err := s.events.PublishUserRegistered(event); err != nil {
		log.Printf("Warning: Failed to publish user.registered event for %s: %v", user.ID, err)
	}
}
