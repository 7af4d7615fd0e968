package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sifan077/FoodGram/internal/app/model"
	"github.com/sifan077/FoodGram/internal/app/repository"
	"golang.org/x/crypto/bcrypt"
)

// AuthService checks credentials and tracks revoked tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*model.User, error)
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type authService struct {
	users   repository.UserRepository
	revoked RevocationStore
	now     func() time.Time
}

// NewAuthService returns an AuthService. revoked must not be nil.
func NewAuthService(users repository.UserRepository, revoked RevocationStore) AuthService {
	return &authService{users: users, revoked: revoked, now: time.Now}
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revoked.Revoke(ctx, tokenID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *authService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	revoked, err := s.revoked.IsRevoked(ctx, tokenID)
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return revoked, nil
}
