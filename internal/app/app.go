// Package app assembles the configured backend, services and HTTP routes.
package app

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fefrre/ferweb/internal/config"
	"github.com/fefrre/ferweb/internal/handler"
	"github.com/fefrre/ferweb/internal/intake"
	"github.com/fefrre/ferweb/internal/router"
	"github.com/fefrre/ferweb/internal/service"
	"github.com/fefrre/ferweb/internal/view"
)

type App struct {
	Handler http.Handler

	backend *Backend
	drafts  *intake.DraftStore
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// New wires the application. Self-hosted backends are migrated and the admin
// seeded; OxiDB does this in the background since index builds can be slow.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	backend, err := OpenBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	views, err := view.New()
	if err != nil {
		backend.Close()
		return nil, err
	}

	a := &App{
		backend: backend,
		drafts:  intake.NewDraftStore(cfg.DraftTTL),
		logger:  logger,
	}

	if cfg.Backend == config.BackendOxiDB {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			a.initialize(context.Background(), cfg)
		}()
	} else if err := a.initialize(ctx, cfg); err != nil {
		a.Close()
		return nil, err
	}

	subSvc := service.NewSubmissionService(backend.Submissions, logger)
	cookies := handler.Cookies{Secure: cfg.CookieSecure, DraftTTL: cfg.DraftTTL}
	a.Handler = router.New(backend.Authn, router.Handlers{
		Site:   handler.NewSiteHandler(views, a.drafts, subSvc, cookies, logger),
		Auth:   handler.NewAuthHandler(backend.Authn, views, cookies, logger),
		Admin:  handler.NewAdminHandler(subSvc, views, logger),
		Health: handler.Health(backend.Ping),
	}, logger)
	return a, nil
}

func (a *App) initialize(ctx context.Context, cfg *config.Config) error {
	if a.backend.Migrate != nil {
		start := time.Now()
		if err := a.backend.Migrate(ctx); err != nil {
			a.logger.Error("migration failed", zap.Error(err))
			return err
		}
		a.logger.Info("schema ready", zap.Duration("took", time.Since(start).Round(time.Millisecond)))
	}
	if a.backend.SeedAdmin != nil && cfg.AdminEmail != "" && cfg.AdminPass != "" {
		created, err := a.backend.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPass)
		if err != nil {
			a.logger.Warn("failed to seed admin", zap.Error(err))
			return nil
		}
		if created {
			a.logger.Info("admin seeded", zap.String("email", cfg.AdminEmail))
		}
	}
	return nil
}

func (a *App) Backend() *Backend { return a.backend }

// Close stops the draft sweeper and releases the backend.
func (a *App) Close() {
	a.wg.Wait()
	a.drafts.Close()
	a.backend.Close()
}
