package app

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/fefrre/ferweb/internal/config"
)

func sqliteConfig() *config.Config {
	cfg := config.Default()
	cfg.Backend = config.BackendSQLite
	cfg.DatabaseURL = ":memory:"
	cfg.JWTSecret = "test-secret"
	cfg.AdminEmail = "admin@ferweb.mx"
	cfg.AdminPass = "s3cret"
	cfg.DraftTTL = time.Hour
	return cfg
}

func TestSQLiteEndToEnd(t *testing.T) {
	a, err := New(context.Background(), sqliteConfig(), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	srv := httptest.NewServer(a.Handler)
	defer srv.Close()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	resp, err := client.Post(srv.URL+"/api/v1/solicitudes", "application/json", strings.NewReader(
		`{"name":"Ana","email":"ana@example.com","projectType":"webapp","budgetRange":"50k+","description":"ERP","integrations":["ERP"]}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = client.PostForm(srv.URL+"/login", url.Values{"email": {"admin@ferweb.mx"}, "password": {"s3cret"}})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Request.URL.Path)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "ana@example.com")

	resp, err = client.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewFailsOnBadDSN(t *testing.T) {
	cfg := sqliteConfig()
	cfg.Table = "bad table"
	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestCloseStopsGoroutines(t *testing.T) {
	baseline := goleak.IgnoreCurrent()
	a, err := New(context.Background(), sqliteConfig(), zap.NewNop())
	require.NoError(t, err)
	a.Close()
	goleak.VerifyNone(t, baseline)
}

func TestSupabaseBackendNeedsNoNetworkToBuild(t *testing.T) {
	cfg := config.Default()
	cfg.SupabaseURL = "https://example.supabase.co"
	cfg.SupabaseAnonKey = "anon"
	b, err := OpenBackend(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer b.Close()
	assert.NotNil(t, b.Submissions)
	assert.NotNil(t, b.Authn)
	assert.Nil(t, b.Migrate)
}
