package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/fefrre/ferweb/internal/models"
	"github.com/fefrre/ferweb/internal/store"
)

// SessionCookie holds the admin access token for HTML routes.
const SessionCookie = "ferweb_session"

type contextKey string

const UserContextKey contextKey = "user"

// Gate admits requests that carry a token the Authenticator accepts and
// hands everything else to deny. The token is attached to the request
// context for row-level security.
func Gate(authn store.Authenticator, deny http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				deny(w, r)
				return
			}
			user, err := authn.User(r.Context(), token)
			if err != nil || user == nil {
				deny(w, r)
				return
			}
			ctx := store.WithAccessToken(r.Context(), token)
			ctx = context.WithValue(ctx, UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromRequest prefers a bearer header over the session cookie.
func TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func Unauthorized(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized"}`))
}

func GetUser(ctx context.Context) *models.UserResponse {
	user, _ := ctx.Value(UserContextKey).(*models.UserResponse)
	return user
}
