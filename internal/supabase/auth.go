package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fefrre/ferweb/internal/models"
	"github.com/fefrre/ferweb/internal/store"
)

// Auth implements store.Authenticator over GoTrue.
type Auth struct {
	c   *Client
	now func() time.Time
}

func (c *Client) Auth() *Auth {
	return &Auth{c: c, now: time.Now}
}

type gotrueUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type tokenResponse struct {
	AccessToken string     `json:"access_token"`
	ExpiresIn   int64      `json:"expires_in"`
	ExpiresAt   int64      `json:"expires_at"`
	User        gotrueUser `json:"user"`
}

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (a *Auth) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	var resp tokenResponse
	err := a.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"password"}},
		body:   map[string]string{"email": email, "password": password},
	}, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status < 500 {
			return nil, fmt.Errorf("%w: %s", store.ErrInvalidCredentials, apiErr.Message)
		}
		return nil, err
	}

	expires := a.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	if resp.ExpiresAt > 0 {
		expires = time.Unix(resp.ExpiresAt, 0)
	}
	return &models.Session{
		AccessToken: resp.AccessToken,
		ExpiresAt:   expires,
		User:        models.UserResponse{ID: resp.User.ID, Email: resp.User.Email},
	}, nil
}

func (a *Auth) User(ctx context.Context, token string) (*models.UserResponse, error) {
	if token == "" {
		return nil, store.ErrNoSession
	}
	if a.c.jwtSecret != nil {
		return a.verifyLocally(token)
	}

	var claims accessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrNoSession, err)
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(a.now()) {
		return nil, store.ErrNoSession
	}

	var u gotrueUser
	err := a.c.do(ctx, request{method: http.MethodGet, path: "/auth/v1/user", token: token}, &u)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden) {
			return nil, store.ErrNoSession
		}
		return nil, err
	}
	return &models.UserResponse{ID: u.ID, Email: u.Email}, nil
}

func (a *Auth) verifyLocally(token string) (*models.UserResponse, error) {
	var claims accessClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return a.c.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrNoSession, err)
	}
	return &models.UserResponse{ID: claims.Subject, Email: claims.Email}, nil
}

// SignOut revokes the session server-side. A token the server no longer
// recognises counts as signed out.
func (a *Auth) SignOut(ctx context.Context, token string) error {
	err := a.c.do(ctx, request{method: http.MethodPost, path: "/auth/v1/logout", token: token}, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusNotFound) {
		return nil
	}
	return err
}
