package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/fefrre/ferweb/internal/intake"
	"github.com/fefrre/ferweb/internal/models"
	"github.com/fefrre/ferweb/internal/store"
)

var ErrInvalidStatus = errors.New("invalid status")

// statusCounter is implemented by backends that can count server-side.
type statusCounter interface {
	CountByStatus(ctx context.Context) (map[models.Status]int, error)
}

type SubmissionService struct {
	subs   store.Submissions
	logger *zap.Logger
	now    func() time.Time
}

func NewSubmissionService(subs store.Submissions, logger *zap.Logger) *SubmissionService {
	return &SubmissionService{subs: subs, logger: logger, now: time.Now}
}

// Submit validates the form and inserts it as one pending row. It is the
// wizard's gateway.
func (s *SubmissionService) Submit(ctx context.Context, f intake.Form) (*models.Submission, error) {
	if verr := f.Validate(); verr != nil {
		return nil, verr
	}
	sub := f.ToSubmission()
	sub.Status = models.StatusPending
	sub.CreatedAt = s.now().UTC()

	created, err := s.subs.Insert(ctx, sub)
	if err != nil {
		s.logger.Error("insert submission failed", zap.String("email", sub.Email), zap.Error(err))
		return nil, fmt.Errorf("insert submission: %w", err)
	}
	s.logger.Info("submission received",
		zap.String("id", created.ID),
		zap.String("project_type", created.ProjectType),
		zap.String("budget_range", created.BudgetRange))
	return created, nil
}

// List returns every submission, newest first.
func (s *SubmissionService) List(ctx context.Context) ([]models.Submission, error) {
	subs, err := s.subs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	slices.SortStableFunc(subs, func(a, b models.Submission) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return subs, nil
}

func (s *SubmissionService) Get(ctx context.Context, id string) (*models.Submission, error) {
	sub, err := s.subs.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get submission %s: %w", id, err)
	}
	return sub, nil
}

// UpdateStatus accepts any transition between the known statuses.
func (s *SubmissionService) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if err := s.subs.UpdateStatus(ctx, id, status); err != nil {
		s.logger.Error("update status failed", zap.String("id", id), zap.String("status", string(status)), zap.Error(err))
		return fmt.Errorf("update status %s: %w", id, err)
	}
	s.logger.Info("status updated", zap.String("id", id), zap.String("status", string(status)))
	return nil
}

// Counts summarizes submissions per status; every known status is present.
func (s *SubmissionService) Counts(ctx context.Context) (map[models.Status]int, error) {
	counts := emptyCounts()
	if c, ok := s.subs.(statusCounter); ok {
		got, err := c.CountByStatus(ctx)
		if err != nil {
			return nil, fmt.Errorf("count submissions: %w", err)
		}
		for st, n := range got {
			counts[st] = n
		}
		return counts, nil
	}
	subs, err := s.subs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("count submissions: %w", err)
	}
	return tally(subs), nil
}

// Overview loads the admin list once and counts the rows it returned, so the
// header always agrees with the table.
func (s *SubmissionService) Overview(ctx context.Context) ([]models.Submission, map[models.Status]int, error) {
	subs, err := s.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	return subs, tally(subs), nil
}

func emptyCounts() map[models.Status]int {
	counts := make(map[models.Status]int, len(models.Statuses))
	for _, st := range models.Statuses {
		counts[st] = 0
	}
	return counts
}

func tally(subs []models.Submission) map[models.Status]int {
	counts := emptyCounts()
	for _, sub := range subs {
		counts[sub.Status]++
	}
	return counts
}
