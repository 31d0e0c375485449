package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fefrre/ferweb/internal/models"
	"github.com/fefrre/ferweb/internal/store"
)

var (
	_ store.Submissions = (*SubmissionRepo)(nil)
)

// setupTestStore opens an in-memory database and runs migrations.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, DialectSQLite, ":memory:", "solicitudes")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(ctx))
	return s
}

func steppingClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(time.Minute)
		return now
	}
}

func sample(name string) *models.Submission {
	return &models.Submission{
		Name:        name,
		Email:       name + "@example.com",
		ProjectType: "webapp",
		BudgetRange: "10-20k",
		Description: "Portal de clientes",
	}
}

func TestSubmissionLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := setupTestStore(t).Submissions()
	repo.now = steppingClock(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))

	first := sample("ana")
	first.Features = []string{"Blog/Noticias", "Chat en vivo"}
	a, err := repo.Insert(ctx, first)
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, models.StatusPending, a.Status)
	assert.Equal(t, []string{}, a.Integrations)

	b, err := repo.Insert(ctx, sample("beto"))
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID, "newest first")
	assert.Equal(t, a.ID, list[1].ID)
	assert.Equal(t, []string{"Blog/Noticias", "Chat en vivo"}, list[1].Features)
	assert.True(t, a.CreatedAt.Equal(list[1].CreatedAt))

	require.NoError(t, repo.UpdateStatus(ctx, a.ID, models.StatusContacted))
	got, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusContacted, got.Status)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[models.Status]int{
		models.StatusPending:   1,
		models.StatusReviewed:  0,
		models.StatusContacted: 1,
		models.StatusCompleted: 0,
	}, counts)
}

func TestSubmissionNotFound(t *testing.T) {
	ctx := context.Background()
	repo := setupTestStore(t).Submissions()

	_, err := repo.Get(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, "nope", models.StatusReviewed), store.ErrNotFound)
}

func TestEmptyListIsNotNil(t *testing.T) {
	list, err := setupTestStore(t).Submissions().List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	users := setupTestStore(t).Users()

	u, err := users.FindByEmail(ctx, "admin@ferweb.mx")
	require.NoError(t, err)
	assert.Nil(t, u)

	id, err := users.Create(ctx, &models.User{Email: "admin@ferweb.mx", PasswordHash: "h", Name: "Admin", CreatedAt: "2026-01-01T00:00:00Z"})
	require.NoError(t, err)

	u, err = users.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "admin@ferweb.mx", u.Email)

	_, err = users.Create(ctx, &models.User{Email: "admin@ferweb.mx", PasswordHash: "x"})
	assert.Error(t, err, "email is unique")
}

func TestRebind(t *testing.T) {
	pg := &Store{dialect: DialectPostgres}
	assert.Equal(t, "UPDATE t SET a = $1 WHERE id = $2", pg.rebind("UPDATE t SET a = ? WHERE id = ?"))
	lite := &Store{dialect: DialectSQLite}
	assert.Equal(t, "WHERE id = ?", lite.rebind("WHERE id = ?"))
}

func TestOpenRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	_, err := Open(ctx, DialectSQLite, ":memory:", "solicitudes; DROP")
	assert.Error(t, err)
	_, err = Open(ctx, "mysql", "dsn", "solicitudes")
	assert.Error(t, err)
}
