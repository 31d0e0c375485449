package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fefrre/ferweb/internal/auth"
	"github.com/fefrre/ferweb/internal/models"
	"github.com/fefrre/ferweb/internal/store"
)

// UserStore is satisfied by the OxiDB and SQL user repositories.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (string, error)
}

// AuthService is the store.Authenticator for self-hosted backends.
type AuthService struct {
	users     UserStore
	jwtSecret string
	now       func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time // jti -> token expiry
}

func NewAuthService(users UserStore, jwtSecret string) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: jwtSecret,
		now:       time.Now,
		revoked:   make(map[string]time.Time),
	}
}

// canonicalEmail is the form admin emails are stored and looked up in.
func canonicalEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	user, err := s.users.FindByEmail(ctx, canonicalEmail(email))
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if user == nil || !auth.CheckPassword(password, user.PasswordHash) {
		return nil, store.ErrInvalidCredentials
	}
	token, claims, err := auth.GenerateToken(s.jwtSecret, user.ID, user.Email, s.now())
	if err != nil {
		return nil, err
	}
	return &models.Session{
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        user.ToResponse(),
	}, nil
}

func (s *AuthService) User(ctx context.Context, token string) (*models.UserResponse, error) {
	claims, err := auth.ValidateToken(s.jwtSecret, token, s.now())
	if err != nil {
		return nil, store.ErrNoSession
	}
	s.mu.Lock()
	_, revoked := s.revoked[claims.ID]
	s.mu.Unlock()
	if revoked {
		return nil, store.ErrNoSession
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if user == nil {
		return nil, store.ErrNoSession
	}
	resp := user.ToResponse()
	return &resp, nil
}

// SignOut revokes the token until it would have expired anyway. Invalid
// tokens are already signed out.
func (s *AuthService) SignOut(_ context.Context, token string) error {
	now := s.now()
	claims, err := auth.ValidateToken(s.jwtSecret, token, now)
	if err != nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for jti, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, jti)
		}
	}
	s.revoked[claims.ID] = claims.ExpiresAt.Time
	return nil
}

// SeedAdmin creates the admin account unless the email is already taken.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) (bool, error) {
	email = canonicalEmail(email)
	if email == "" || password == "" {
		return false, errors.New("admin email and password are required")
	}
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Admin",
		CreatedAt:    s.now().UTC().Format(time.RFC3339),
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return false, err
	}
	return true, nil
}
