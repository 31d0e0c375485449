package app

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/fefrre/ferweb/internal/config"
	"github.com/fefrre/ferweb/internal/db"
	"github.com/fefrre/ferweb/internal/repository"
	"github.com/fefrre/ferweb/internal/service"
	"github.com/fefrre/ferweb/internal/sqlstore"
	"github.com/fefrre/ferweb/internal/store"
	"github.com/fefrre/ferweb/internal/supabase"
)

// Backend is one persistence choice behind the store contracts.
type Backend struct {
	Submissions store.Submissions
	Authn       store.Authenticator

	// Ping, Migrate and SeedAdmin are nil when the backend does not
	// support them.
	Ping      func(ctx context.Context) error
	Migrate   func(ctx context.Context) error
	SeedAdmin func(ctx context.Context, email, password string) (bool, error)
	Close     func()
}

func OpenBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	switch cfg.Backend {
	case config.BackendSupabase:
		return openSupabase(cfg), nil
	case config.BackendOxiDB:
		return openOxiDB(cfg, logger)
	case config.BackendSQLite:
		return openSQL(ctx, cfg, sqlstore.DialectSQLite)
	case config.BackendPostgres:
		return openSQL(ctx, cfg, sqlstore.DialectPostgres)
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

func openSupabase(cfg *config.Config) *Backend {
	opts := []supabase.Option{supabase.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout})}
	if cfg.SupabaseJWTSecret != "" {
		opts = append(opts, supabase.WithJWTSecret(cfg.SupabaseJWTSecret))
	}
	c := supabase.New(cfg.SupabaseURL, cfg.SupabaseAnonKey, opts...)
	return &Backend{
		Submissions: c.Submissions(cfg.Table),
		Authn:       c.Auth(),
		Close:       func() {},
	}
}

func openOxiDB(cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	pool, err := db.NewPool(cfg.OxiDBHost, cfg.OxiDBPort, cfg.PoolSize, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to OxiDB: %w", err)
	}
	logger.Info("connected to OxiDB",
		zap.String("host", cfg.OxiDBHost), zap.Int("port", cfg.OxiDBPort), zap.Int("pool_size", cfg.PoolSize))

	subs := repository.NewSubmissionRepo(pool, cfg.Table)
	users := repository.NewUserRepo(pool)
	authSvc := service.NewAuthService(users, cfg.JWTSecret)
	return &Backend{
		Submissions: subs,
		Authn:       authSvc,
		Ping:        pool.Ping,
		Migrate: func(ctx context.Context) error {
			if err := users.EnsureIndexes(ctx); err != nil {
				return fmt.Errorf("user indexes: %w", err)
			}
			if err := subs.EnsureIndexes(ctx); err != nil {
				return fmt.Errorf("submission indexes: %w", err)
			}
			return nil
		},
		SeedAdmin: authSvc.SeedAdmin,
		Close:     pool.Close,
	}, nil
}

func openSQL(ctx context.Context, cfg *config.Config, dialect string) (*Backend, error) {
	s, err := sqlstore.Open(ctx, dialect, cfg.DatabaseURL, cfg.Table)
	if err != nil {
		return nil, err
	}
	authSvc := service.NewAuthService(s.Users(), cfg.JWTSecret)
	return &Backend{
		Submissions: s.Submissions(),
		Authn:       authSvc,
		Ping:        s.Ping,
		Migrate:     s.Migrate,
		SeedAdmin:   authSvc.SeedAdmin,
		Close:       func() { s.Close() },
	}, nil
}
