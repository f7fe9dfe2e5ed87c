// Package services provides business logic services
package services

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/devdesk/backend/auth"
	"github.com/devdesk/backend/models"
)

// AuthService registers users and authenticates login attempts.
type AuthService struct {
	db     *gorm.DB
	tokens *auth.TokenService
}

// NewAuthService creates an AuthService over the given store and token
// service.
func NewAuthService(db *gorm.DB, tokens *auth.TokenService) *AuthService {
	return &AuthService{db: db, tokens: tokens}
}

// Register creates a new user with a bcrypt-hashed password. The plaintext is
// never stored or logged. Returns ErrUsernameTaken when the unique constraint
// on username fires.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hashed),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	log.Printf("👤 Registered user %q (id=%d)", user.Username, user.ID)
	return &user, nil
}

// Login checks the credentials against the stored hash and issues a signed
// token. Unknown usernames and wrong passwords are indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	if username == "" || password == "" {
		return nil, "", ErrMissingCredentials
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Sign(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}
