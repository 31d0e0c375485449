package handler

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/fefrre/ferweb/internal/auth"
	"github.com/fefrre/ferweb/internal/store"
	"github.com/fefrre/ferweb/internal/view"
)

const (
	LoginFailedMessage  = "Credenciales incorrectas o error de conexión"
	LogoutFailedMessage = "Error al cerrar sesión"
)

type AuthHandler struct {
	authn   store.Authenticator
	views   *view.Renderer
	cookies Cookies
	logger  *zap.Logger
}

func NewAuthHandler(authn store.Authenticator, views *view.Renderer, cookies Cookies, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authn: authn, views: views, cookies: cookies, logger: logger}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, view.LoginPage{})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("email"))
	password := r.PostForm.Get("password")

	sess, err := h.authn.SignIn(r.Context(), email, password)
	if err != nil {
		h.logger.Info("login failed", zap.String("email", email), zap.Error(err))
		h.render(w, http.StatusUnauthorized, view.LoginPage{Email: email, Error: LoginFailedMessage})
		return
	}
	h.cookies.set(w, auth.SessionCookie, sess.AccessToken, sess.ExpiresAt)
	h.logger.Info("admin signed in", zap.String("email", sess.User.Email))
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Logout ends the session. On failure the admin stays signed in and sees
// the error on the list page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromRequest(r)
	if token != "" {
		if err := h.authn.SignOut(r.Context(), token); err != nil {
			h.logger.Error("logout failed", zap.Error(err))
			http.Redirect(w, r, "/admin?error=logout", http.StatusSeeOther)
			return
		}
	}
	h.cookies.clear(w, auth.SessionCookie)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// APILogin is the JSON form of Login for API clients.
func (h *AuthHandler) APILogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	sess, err := h.authn.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, LoginFailedMessage)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *AuthHandler) render(w http.ResponseWriter, status int, data view.LoginPage) {
	if err := h.views.Render(w, status, "login", data); err != nil {
		h.logger.Error("render failed", zap.String("page", "login"), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
