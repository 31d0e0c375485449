package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fefrre/ferweb/internal/app"
	"github.com/fefrre/ferweb/internal/config"
	"github.com/fefrre/ferweb/internal/logging"
)

var (
	configPath string

	cfg         *config.Config
	logger      *zap.Logger
	closeLogger func()
)

var rootCmd = &cobra.Command{
	Use:   "ferweb",
	Short: "ferweb - agency site, lead intake and admin panel",
	Long: `ferweb serves the agency landing page, the multi-step project request
form and the admin panel for reviewing requests.

Run without a subcommand to start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			os.Setenv("FERWEB_CONFIG", configPath)
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration:\n%w", err)
		}
		logger, closeLogger, err = logging.New(logging.Options{
			Level:    cfg.LogLevel,
			Format:   cfg.LogFormat,
			GelfAddr: cfg.GelfAddr,
			Service:  "ferweb",
		})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeLogger != nil {
			closeLogger()
		}
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables or indexes on a self-hosted backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := app.OpenBackend(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer b.Close()
		if b.Migrate == nil {
			return fmt.Errorf("backend %q manages its own schema", cfg.Backend)
		}
		if err := b.Migrate(cmd.Context()); err != nil {
			return err
		}
		logger.Info("migration complete", zap.String("backend", cfg.Backend))
		return nil
	},
}

var (
	seedEmail    string
	seedPassword string
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the admin account on a self-hosted backend",
	Long: `Creates the admin user unless one with the same email exists.
Defaults come from FERWEB_ADMIN_EMAIL and FERWEB_ADMIN_PASS.

Example:
  ferweb seed-admin --email admin@example.com --password 'change-me'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, password := cfg.AdminEmail, cfg.AdminPass
		if seedEmail != "" {
			email = seedEmail
		}
		if seedPassword != "" {
			password = seedPassword
		}
		b, err := app.OpenBackend(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer b.Close()
		if b.SeedAdmin == nil {
			return fmt.Errorf("backend %q manages its own users", cfg.Backend)
		}
		if b.Migrate != nil {
			if err := b.Migrate(cmd.Context()); err != nil {
				return err
			}
		}
		created, err := b.SeedAdmin(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		if created {
			logger.Info("admin created", zap.String("email", email))
		} else {
			logger.Info("admin already exists", zap.String("email", email))
		}
		return nil
	},
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("ferweb server starting", zap.String("addr", cfg.Addr), zap.String("backend", cfg.Backend))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (overrides FERWEB_CONFIG)")
	seedAdminCmd.Flags().StringVar(&seedEmail, "email", "", "admin email")
	seedAdminCmd.Flags().StringVar(&seedPassword, "password", "", "admin password")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedAdminCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
