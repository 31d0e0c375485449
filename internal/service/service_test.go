package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fefrre/ferweb/internal/intake"
	"github.com/fefrre/ferweb/internal/models"
	"github.com/fefrre/ferweb/internal/store"
)

type memSubmissions struct {
	mu      sync.Mutex
	rows    []models.Submission
	inserts int
	lists   int
	failErr error
}

func (m *memSubmissions) Insert(_ context.Context, sub *models.Submission) (*models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	m.inserts++
	row := *sub
	row.ID = strconv.Itoa(m.inserts)
	m.rows = append(m.rows, row)
	return &row, nil
}

// List returns rows in insertion order so the service has to sort.
func (m *memSubmissions) List(context.Context) ([]models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	if m.failErr != nil {
		return nil, m.failErr
	}
	return append([]models.Submission(nil), m.rows...), nil
}

func (m *memSubmissions) Get(_ context.Context, id string) (*models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memSubmissions) UpdateStatus(_ context.Context, id string, status models.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows[i].Status = status
			return nil
		}
	}
	return store.ErrNotFound
}

func validForm() intake.Form {
	return intake.Form{
		Name:        " Ana ",
		Email:       "ana@example.com",
		ProjectType: "ecommerce",
		BudgetRange: "20-50k",
		Description: "Tienda en línea",
	}
}

func TestSubmitStampsPending(t *testing.T) {
	subs := &memSubmissions{}
	svc := NewSubmissionService(subs, zap.NewNop())
	fixed := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	created, err := svc.Submit(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, "1", created.ID)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, "Ana", created.Name)
	assert.True(t, fixed.Equal(created.CreatedAt))
	assert.Equal(t, []string{}, created.Features)
}

func TestSubmitRejectsInvalidForm(t *testing.T) {
	subs := &memSubmissions{}
	svc := NewSubmissionService(subs, zap.NewNop())

	f := validForm()
	f.Email = "ana.example.com"
	_, err := svc.Submit(context.Background(), f)

	var verr *intake.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
	assert.Zero(t, subs.inserts)
}

func TestSubmitWrapsBackendError(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewSubmissionService(&memSubmissions{failErr: boom}, zap.NewNop())

	_, err := svc.Submit(context.Background(), validForm())
	assert.ErrorIs(t, err, boom)
}

func TestWizardSubmitsOnceThroughService(t *testing.T) {
	subs := &memSubmissions{}
	svc := NewSubmissionService(subs, zap.NewNop())
	w := intake.NewWizard()
	for field, value := range map[string]string{
		"name": "Ana", "email": "ana@example.com", "projectType": "cms",
		"budgetRange": "unsure", "description": "Blog",
	} {
		require.NoError(t, w.Set(field, value))
	}

	_, err := w.Submit(context.Background(), svc)
	require.NoError(t, err)
	_, err = w.Submit(context.Background(), svc)
	assert.ErrorIs(t, err, intake.ErrAlreadySubmitted)
	assert.Equal(t, 1, subs.inserts)
	assert.True(t, w.View().Submitted)
}

func TestListNewestFirst(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	subs := &memSubmissions{rows: []models.Submission{
		{ID: "a", CreatedAt: base},
		{ID: "b", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "c", CreatedAt: base.Add(time.Hour)},
		{ID: "d", CreatedAt: base.Add(2 * time.Hour)},
	}}
	svc := NewSubmissionService(subs, zap.NewNop())

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	ids := make([]string, len(list))
	for i, s := range list {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"b", "d", "c", "a"}, ids)
}

func TestUpdateStatus(t *testing.T) {
	subs := &memSubmissions{rows: []models.Submission{{ID: "1", Status: models.StatusCompleted}}}
	svc := NewSubmissionService(subs, zap.NewNop())
	ctx := context.Background()

	// Backwards transitions are allowed.
	require.NoError(t, svc.UpdateStatus(ctx, "1", models.StatusPending))
	got, err := svc.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)

	assert.ErrorIs(t, svc.UpdateStatus(ctx, "1", "archived"), ErrInvalidStatus)
	assert.ErrorIs(t, svc.UpdateStatus(ctx, "9", models.StatusReviewed), store.ErrNotFound)
	_, err = svc.Get(ctx, "9")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCountsFromList(t *testing.T) {
	subs := &memSubmissions{rows: []models.Submission{
		{ID: "1", Status: models.StatusPending},
		{ID: "2", Status: models.StatusPending},
		{ID: "3", Status: models.StatusCompleted},
	}}
	counts, err := NewSubmissionService(subs, zap.NewNop()).Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[models.Status]int{
		models.StatusPending:   2,
		models.StatusReviewed:  0,
		models.StatusContacted: 0,
		models.StatusCompleted: 1,
	}, counts)
}

type countingSubmissions struct {
	memSubmissions
}

func (c *countingSubmissions) CountByStatus(context.Context) (map[models.Status]int, error) {
	return map[models.Status]int{models.StatusReviewed: 4}, nil
}

func TestCountsPrefersServerSide(t *testing.T) {
	counts, err := NewSubmissionService(&countingSubmissions{}, zap.NewNop()).Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, counts[models.StatusReviewed])
	assert.Equal(t, 0, counts[models.StatusPending])
}

func TestOverviewListsOnceAndCountsShownRows(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	subs := &memSubmissions{rows: []models.Submission{
		{ID: "1", Status: models.StatusPending, CreatedAt: base},
		{ID: "2", Status: models.StatusContacted, CreatedAt: base.Add(time.Hour)},
		{ID: "3", Status: models.StatusPending, CreatedAt: base.Add(2 * time.Hour)},
	}}
	rows, counts, err := NewSubmissionService(subs, zap.NewNop()).Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, subs.lists)
	require.Len(t, rows, 3)
	assert.Equal(t, "3", rows[0].ID)
	assert.Equal(t, map[models.Status]int{
		models.StatusPending:   2,
		models.StatusReviewed:  0,
		models.StatusContacted: 1,
		models.StatusCompleted: 0,
	}, counts)

	subs.failErr = errors.New("timeout")
	_, _, err = NewSubmissionService(subs, zap.NewNop()).Overview(context.Background())
	assert.Error(t, err)
}
