package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fefrre/ferweb/internal/auth"
	"github.com/fefrre/ferweb/internal/handler"
	mw "github.com/fefrre/ferweb/internal/middleware"
	"github.com/fefrre/ferweb/internal/store"
)

type Handlers struct {
	Site   *handler.SiteHandler
	Auth   *handler.AuthHandler
	Admin  *handler.AdminHandler
	Health http.HandlerFunc
}

func New(authn store.Authenticator, h Handlers, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestIDs)
	r.Use(mw.Logger(logger))
	r.Use(mw.Recovery(logger))

	r.Get("/healthz", h.Health)

	// Public pages
	r.Get("/", h.Site.Landing)
	r.Get("/solicitud", h.Site.Intake)
	r.Post("/solicitud", h.Site.IntakePost)
	r.Post("/solicitud/reset", h.Site.Reset)
	r.Get("/login", h.Auth.LoginPage)
	r.Post("/login", h.Auth.Login)
	r.Post("/logout", h.Auth.Logout)

	// Admin pages
	r.Group(func(r chi.Router) {
		r.Use(auth.Gate(authn, auth.RedirectToLogin))

		r.Get("/admin", h.Admin.List)
		r.Get("/admin/solicitudes/{id}", h.Admin.Detail)
		r.Post("/admin/solicitudes/{id}/status", h.Admin.UpdateStatus)
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/solicitudes", h.Site.APISubmit)
		r.Post("/progress", h.Site.APIProgress)
		r.Post("/auth/login", h.Auth.APILogin)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Gate(authn, auth.Unauthorized))

			r.Get("/admin/solicitudes", h.Admin.APIList)
			r.Get("/admin/solicitudes/{id}", h.Admin.APIGet)
			r.Patch("/admin/solicitudes/{id}", h.Admin.APIUpdateStatus)
		})
	})

	return r
}
