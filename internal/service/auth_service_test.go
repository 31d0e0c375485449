package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fefrre/ferweb/internal/models"
	"github.com/fefrre/ferweb/internal/store"
)

var _ store.Authenticator = (*AuthService)(nil)

type memUsers struct {
	mu    sync.Mutex
	users []models.User
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Create(_ context.Context, user *models.User) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := *user
	u.ID = strconv.Itoa(len(m.users) + 1)
	m.users = append(m.users, u)
	return u.ID, nil
}

func seeded(t *testing.T) *AuthService {
	t.Helper()
	svc := NewAuthService(&memUsers{}, "test-secret")
	created, err := svc.SeedAdmin(context.Background(), "admin@ferweb.mx", "s3cret")
	require.NoError(t, err)
	require.True(t, created)
	return svc
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	svc := seeded(t)
	created, err := svc.SeedAdmin(context.Background(), "admin@ferweb.mx", "other")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = svc.SeedAdmin(context.Background(), "", "x")
	assert.Error(t, err)
}

func TestSignInAndResolve(t *testing.T) {
	svc := seeded(t)
	ctx := context.Background()

	_, err := svc.SignIn(ctx, "admin@ferweb.mx", "wrong")
	assert.ErrorIs(t, err, store.ErrInvalidCredentials)
	_, err = svc.SignIn(ctx, "nobody@ferweb.mx", "s3cret")
	assert.ErrorIs(t, err, store.ErrInvalidCredentials)

	sess, err := svc.SignIn(ctx, " Admin@Ferweb.MX ", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "admin@ferweb.mx", sess.User.Email)
	assert.True(t, sess.ExpiresAt.After(time.Now()))

	user, err := svc.User(ctx, sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "1", user.ID)

	_, err = svc.User(ctx, "garbage")
	assert.ErrorIs(t, err, store.ErrNoSession)
}

func TestSignOutRevokesToken(t *testing.T) {
	svc := seeded(t)
	ctx := context.Background()

	sess, err := svc.SignIn(ctx, "admin@ferweb.mx", "s3cret")
	require.NoError(t, err)
	other, err := svc.SignIn(ctx, "admin@ferweb.mx", "s3cret")
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, sess.AccessToken))
	_, err = svc.User(ctx, sess.AccessToken)
	assert.ErrorIs(t, err, store.ErrNoSession)

	_, err = svc.User(ctx, other.AccessToken)
	assert.NoError(t, err, "other sessions stay valid")

	assert.NoError(t, svc.SignOut(ctx, "garbage"))
}

func TestExpiredSession(t *testing.T) {
	svc := seeded(t)
	ctx := context.Background()
	sess, err := svc.SignIn(ctx, "admin@ferweb.mx", "s3cret")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	_, err = svc.User(ctx, sess.AccessToken)
	assert.ErrorIs(t, err, store.ErrNoSession)
}
