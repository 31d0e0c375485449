// Package store declares the contracts every persistence backend satisfies.
package store

import (
	"context"
	"errors"

	"github.com/fefrre/ferweb/internal/models"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoSession          = errors.New("no active session")
)

// Submissions is the remote "solicitudes" table. There is intentionally no
// delete.
type Submissions interface {
	// Insert stores one row and returns it as persisted, including its id.
	Insert(ctx context.Context, sub *models.Submission) (*models.Submission, error)
	// List returns every row, newest first.
	List(ctx context.Context) ([]models.Submission, error)
	Get(ctx context.Context, id string) (*models.Submission, error)
	UpdateStatus(ctx context.Context, id string, status models.Status) error
}

// Authenticator is the identity service behind the admin login.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	// User resolves a session token. Expired, revoked or unknown tokens
	// return ErrNoSession.
	User(ctx context.Context, token string) (*models.UserResponse, error)
	SignOut(ctx context.Context, token string) error
}

type accessTokenKey struct{}

// WithAccessToken attaches the signed-in admin's token so backends with
// row-level security query as that user.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

func AccessToken(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(accessTokenKey{}).(string)
	return t, ok && t != ""
}
