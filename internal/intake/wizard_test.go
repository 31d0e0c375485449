package intake

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fefrre/ferweb/internal/models"
)

type fakeGateway struct {
	mu    sync.Mutex
	calls int
	err   error
	block chan struct{}
}

func (g *fakeGateway) Submit(ctx context.Context, f Form) (*models.Submission, error) {
	if g.block != nil {
		<-g.block
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	sub := f.ToSubmission()
	sub.ID = "1"
	return sub, nil
}

func fillWizard(t *testing.T, w *Wizard) {
	t.Helper()
	f := validForm()
	for field, v := range map[string]string{
		"name": f.Name, "email": f.Email, "projectType": f.ProjectType,
		"budgetRange": f.BudgetRange, "description": f.Description,
	} {
		require.NoError(t, w.Set(field, v))
	}
}

func TestWizardStartsOnPersonal(t *testing.T) {
	v := NewWizard().View()
	assert.Equal(t, SectionPersonal, v.Section)
	assert.False(t, v.Submitted)
	assert.Zero(t, v.Progress)
}

func TestSubmitValidationFailureReturnsToPersonal(t *testing.T) {
	for _, field := range requiredFields {
		t.Run(field, func(t *testing.T) {
			w := NewWizard()
			fillWizard(t, w)
			require.NoError(t, w.Set(field, ""))
			w.GoTo(SectionPreferences)

			gw := &fakeGateway{}
			_, err := w.Submit(context.Background(), gw)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			v := w.View()
			assert.Equal(t, SectionPersonal, v.Section)
			assert.Equal(t, verr.Message, v.Error)
			assert.False(t, v.Submitted)
			assert.Zero(t, gw.calls)
		})
	}
}

func TestSubmitSuccessTransitionsOnce(t *testing.T) {
	w := NewWizard()
	fillWizard(t, w)
	gw := &fakeGateway{}

	sub, err := w.Submit(context.Background(), gw)
	require.NoError(t, err)
	assert.Equal(t, "1", sub.ID)
	assert.True(t, w.View().Submitted)

	_, err = w.Submit(context.Background(), gw)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Equal(t, 1, gw.calls)
}

func TestSubmitRemoteFailureShowsGenericMessage(t *testing.T) {
	w := NewWizard()
	fillWizard(t, w)
	w.GoTo(SectionPreferences)
	gw := &fakeGateway{err: errors.New("connection refused")}

	_, err := w.Submit(context.Background(), gw)
	require.Error(t, err)
	v := w.View()
	assert.Equal(t, SubmitFailedMessage, v.Error)
	assert.Equal(t, SectionPreferences, v.Section)
	assert.False(t, v.Submitted)

	gw.err = nil
	_, err = w.Submit(context.Background(), gw)
	require.NoError(t, err)
	assert.Empty(t, w.View().Error)
}

func TestConcurrentSubmitInsertsOnce(t *testing.T) {
	w := NewWizard()
	fillWizard(t, w)
	gw := &fakeGateway{block: make(chan struct{})}

	first := make(chan error, 1)
	go func() {
		_, err := w.Submit(context.Background(), gw)
		first <- err
	}()
	require.Eventually(t, func() bool { return w.View().Submitting }, time.Second, time.Millisecond)

	_, err := w.Submit(context.Background(), gw)
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(gw.block)
	require.NoError(t, <-first)
	assert.Equal(t, 1, gw.calls)
}

func TestEditClearsError(t *testing.T) {
	w := NewWizard()
	_, err := w.Submit(context.Background(), &fakeGateway{})
	require.Error(t, err)
	require.NotEmpty(t, w.View().Error)

	require.NoError(t, w.Set("name", "Ana"))
	assert.Empty(t, w.View().Error)
}

func TestReset(t *testing.T) {
	w := NewWizard()
	fillWizard(t, w)
	_, err := w.Submit(context.Background(), &fakeGateway{})
	require.NoError(t, err)

	w.Reset()
	v := w.View()
	assert.False(t, v.Submitted)
	assert.Empty(t, v.Form.Name)
	assert.Equal(t, SectionPersonal, v.Section)
}

func TestResetDuringSubmitKeepsNewFormOpen(t *testing.T) {
	w := NewWizard()
	fillWizard(t, w)
	gw := &fakeGateway{block: make(chan struct{})}

	first := make(chan error, 1)
	go func() {
		_, err := w.Submit(context.Background(), gw)
		first <- err
	}()
	require.Eventually(t, func() bool { return w.View().Submitting }, time.Second, time.Millisecond)

	w.Reset()
	require.NoError(t, w.Set("name", "Bob"))
	close(gw.block)
	require.NoError(t, <-first)

	v := w.View()
	assert.False(t, v.Submitted)
	assert.False(t, v.Submitting)
	assert.Equal(t, "Bob", v.Form.Name)

	fillWizard(t, w)
	sub, err := w.Submit(context.Background(), &fakeGateway{})
	require.NoError(t, err)
	assert.Equal(t, validForm().Name, sub.Name)
	assert.True(t, w.View().Submitted)
}
