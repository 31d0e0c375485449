package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	BackendSupabase = "supabase"
	BackendOxiDB    = "oxidb"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type Config struct {
	Addr    string `yaml:"addr"`
	Backend string `yaml:"backend"`

	SupabaseURL       string `yaml:"supabase_url"`
	SupabaseAnonKey   string `yaml:"supabase_anon_key"`
	SupabaseJWTSecret string `yaml:"supabase_jwt_secret"`
	Table             string `yaml:"table"`

	OxiDBHost string `yaml:"oxidb_host"`
	OxiDBPort int    `yaml:"oxidb_port"`
	PoolSize  int    `yaml:"pool_size"`

	DatabaseURL string `yaml:"database_url"`

	JWTSecret  string `yaml:"jwt_secret"`
	AdminEmail string `yaml:"admin_email"`
	AdminPass  string `yaml:"admin_pass"`

	GelfAddr  string `yaml:"gelf_addr"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	DraftTTL       time.Duration `yaml:"draft_ttl"`
	CookieSecure   bool          `yaml:"cookie_secure"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

func Default() *Config {
	return &Config{
		Addr:           ":8080",
		Backend:        BackendSupabase,
		Table:          "solicitudes",
		OxiDBHost:      "127.0.0.1",
		OxiDBPort:      4444,
		PoolSize:       3,
		LogLevel:       "info",
		LogFormat:      "json",
		DraftTTL:       2 * time.Hour,
		RequestTimeout: 15 * time.Second,
	}
}

// Load reads .env.local and .env (existing variables win), then the YAML file
// named by FERWEB_CONFIG if any, then environment overrides.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	cfg := Default()
	if path := os.Getenv("FERWEB_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Addr = getEnv("FERWEB_ADDR", c.Addr)
	c.Backend = strings.ToLower(getEnv("FERWEB_BACKEND", c.Backend))

	c.SupabaseURL = getEnv("SUPABASE_URL", getEnv("NEXT_PUBLIC_SUPABASE_URL", c.SupabaseURL))
	c.SupabaseAnonKey = getEnv("SUPABASE_ANON_KEY", getEnv("NEXT_PUBLIC_SUPABASE_ANON_KEY", c.SupabaseAnonKey))
	c.SupabaseJWTSecret = getEnv("SUPABASE_JWT_SECRET", c.SupabaseJWTSecret)
	c.Table = getEnv("FERWEB_TABLE", c.Table)

	c.OxiDBHost = getEnv("OXIDB_HOST", c.OxiDBHost)
	c.OxiDBPort = getEnvInt("OXIDB_PORT", c.OxiDBPort)
	c.PoolSize = getEnvInt("FERWEB_POOL_SIZE", c.PoolSize)

	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)

	c.JWTSecret = getEnv("FERWEB_JWT_SECRET", c.JWTSecret)
	c.AdminEmail = getEnv("FERWEB_ADMIN_EMAIL", c.AdminEmail)
	c.AdminPass = getEnv("FERWEB_ADMIN_PASS", c.AdminPass)

	c.GelfAddr = getEnv("GELF_ADDR", c.GelfAddr)
	c.LogLevel = getEnv("FERWEB_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("FERWEB_LOG_FORMAT", c.LogFormat)

	c.DraftTTL = getEnvDuration("FERWEB_DRAFT_TTL", c.DraftTTL)
	c.CookieSecure = getEnvBool("FERWEB_COOKIE_SECURE", c.CookieSecure)
	c.RequestTimeout = getEnvDuration("FERWEB_REQUEST_TIMEOUT", c.RequestTimeout)
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	switch c.Backend {
	case BackendSupabase:
		if c.SupabaseURL == "" {
			errs = append(errs, errors.New("SUPABASE_URL is required"))
		}
		if c.SupabaseAnonKey == "" {
			errs = append(errs, errors.New("SUPABASE_ANON_KEY is required"))
		}
	case BackendOxiDB:
		if c.OxiDBHost == "" || c.OxiDBPort <= 0 {
			errs = append(errs, errors.New("OXIDB_HOST and OXIDB_PORT are required"))
		}
		if c.PoolSize < 1 {
			errs = append(errs, fmt.Errorf("pool size must be at least 1, got %d", c.PoolSize))
		}
	case BackendSQLite, BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, fmt.Errorf("DATABASE_URL is required for the %s backend", c.Backend))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	if c.SelfHosted() && c.JWTSecret == "" {
		errs = append(errs, errors.New("FERWEB_JWT_SECRET is required for self-hosted backends"))
	}
	if c.Table == "" {
		errs = append(errs, errors.New("table name is empty"))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		errs = append(errs, fmt.Errorf("log format must be json or console, got %q", c.LogFormat))
	}
	if c.DraftTTL <= 0 {
		errs = append(errs, errors.New("draft ttl must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	return errors.Join(errs...)
}

// SelfHosted reports whether ferweb issues its own session tokens.
func (c *Config) SelfHosted() bool {
	return c.Backend != BackendSupabase
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return d
}
