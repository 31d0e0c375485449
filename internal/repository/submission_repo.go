package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fefrre/ferweb/internal/db"
	"github.com/fefrre/ferweb/internal/models"
	"github.com/fefrre/ferweb/internal/oxidb"
	"github.com/fefrre/ferweb/internal/store"
)

// SubmissionsCollection is the collection used when none is configured.
const SubmissionsCollection = "solicitudes"

// createdAtLayout is fixed width so OxiDB's string sort on created_at is
// chronological.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

// SubmissionRepo implements store.Submissions on an OxiDB collection.
type SubmissionRepo struct {
	pool       *db.Pool
	collection string
	now        func() time.Time
}

func NewSubmissionRepo(pool *db.Pool, collection string) *SubmissionRepo {
	if collection == "" {
		collection = SubmissionsCollection
	}
	return &SubmissionRepo{pool: pool, collection: collection, now: time.Now}
}

func (r *SubmissionRepo) EnsureIndexes(ctx context.Context) error {
	c := r.pool.Get()
	for _, field := range []string{"created_at", "status"} {
		if err := c.CreateIndex(ctx, r.collection, field); err != nil {
			return fmt.Errorf("index %s.%s: %w", r.collection, field, err)
		}
	}
	return nil
}

func (r *SubmissionRepo) Insert(ctx context.Context, sub *models.Submission) (*models.Submission, error) {
	created := *sub
	created.CreatedAt = r.now().UTC()
	if created.Status == "" {
		created.Status = models.StatusPending
	}
	doc, err := toDoc(&created, "id")
	if err != nil {
		return nil, err
	}
	doc["created_at"] = created.CreatedAt.Format(createdAtLayout)
	result, err := r.pool.Get().Insert(ctx, r.collection, doc)
	if err != nil {
		return nil, fmt.Errorf("insert submission: %w", err)
	}
	created.ID = extractID(result)
	if created.ID == "" {
		return nil, fmt.Errorf("insert submission: %w", errNoInsertID)
	}
	return &created, nil
}

func (r *SubmissionRepo) List(ctx context.Context) ([]models.Submission, error) {
	docs, err := r.pool.Get().Find(ctx, r.collection, map[string]any{}, &oxidb.FindOptions{
		Sort: map[string]any{"created_at": -1},
	})
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	subs := make([]models.Submission, 0, len(docs))
	for _, d := range docs {
		s, err := fromDoc[models.Submission](d, "id")
		if err != nil {
			return nil, err
		}
		subs = append(subs, *s)
	}
	return subs, nil
}

func (r *SubmissionRepo) Get(ctx context.Context, id string) (*models.Submission, error) {
	doc, err := r.pool.Get().FindOne(ctx, r.collection, map[string]any{"_id": toNumericID(id)})
	if err != nil {
		return nil, fmt.Errorf("get submission %s: %w", id, err)
	}
	if doc == nil {
		return nil, store.ErrNotFound
	}
	return fromDoc[models.Submission](doc, "id")
}

// UpdateStatus sets the status of an existing row. OxiDB reports zero
// modifications when the value is unchanged, so existence is checked first.
func (r *SubmissionRepo) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	_, err := r.pool.Get().UpdateOne(ctx, r.collection,
		map[string]any{"_id": toNumericID(id)},
		map[string]any{"$set": map[string]any{"status": status}})
	if err != nil {
		return fmt.Errorf("update submission %s: %w", id, err)
	}
	return nil
}

// CountByStatus counts rows per status server-side.
func (r *SubmissionRepo) CountByStatus(ctx context.Context) (map[models.Status]int, error) {
	counts := make(map[models.Status]int, len(models.Statuses))
	c := r.pool.Get()
	for _, st := range models.Statuses {
		n, err := c.Count(ctx, r.collection, map[string]any{"status": st})
		if err != nil {
			return nil, fmt.Errorf("count %s submissions: %w", st, err)
		}
		counts[st] = n
	}
	return counts, nil
}
