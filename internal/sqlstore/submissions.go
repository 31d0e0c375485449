package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fefrre/ferweb/internal/models"
	"github.com/fefrre/ferweb/internal/store"
)

// Fixed-width UTC timestamps sort lexically in both dialects.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var timeNow = time.Now

type SubmissionRepo struct {
	s   *Store
	now func() time.Time
}

const submissionColumns = `id, created_at, name, email, phone, company, project_type, budget_range,
	deadline, description, features, integrations, design_preferences, target_audience,
	existing_website, hosting_preferences, additional_comments, status`

func (r *SubmissionRepo) Insert(ctx context.Context, sub *models.Submission) (*models.Submission, error) {
	created := *sub
	created.ID = uuid.NewString()
	created.CreatedAt = r.now().UTC()
	if created.Status == "" {
		created.Status = models.StatusPending
	}
	features, err := encodeList(created.Features)
	if err != nil {
		return nil, err
	}
	integrations, err := encodeList(created.Integrations)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.s.table, submissionColumns)
	_, err = r.s.db.ExecContext(ctx, r.s.rebind(query),
		created.ID, created.CreatedAt.Format(timeLayout), created.Name, created.Email,
		created.Phone, created.Company, created.ProjectType, created.BudgetRange,
		created.Deadline, created.Description, features, integrations,
		created.DesignPreferences, created.TargetAudience, created.ExistingWebsite,
		created.HostingPreferences, created.AdditionalComments, string(created.Status))
	if err != nil {
		return nil, fmt.Errorf("insert submission: %w", err)
	}
	created.Features = nonNil(created.Features)
	created.Integrations = nonNil(created.Integrations)
	return &created, nil
}

func (r *SubmissionRepo) List(ctx context.Context) ([]models.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at DESC`, submissionColumns, r.s.table)
	rows, err := r.s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	subs := []models.Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

func (r *SubmissionRepo) Get(ctx context.Context, id string) (*models.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, submissionColumns, r.s.table)
	sub, err := scanSubmission(r.s.db.QueryRowContext(ctx, r.s.rebind(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return sub, err
}

func (r *SubmissionRepo) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	query := fmt.Sprintf(`UPDATE %s SET status = ? WHERE id = ?`, r.s.table)
	res, err := r.s.db.ExecContext(ctx, r.s.rebind(query), string(status), id)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *SubmissionRepo) CountByStatus(ctx context.Context) (map[models.Status]int, error) {
	query := fmt.Sprintf(`SELECT status, COUNT(*) FROM %s GROUP BY status`, r.s.table)
	rows, err := r.s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count submissions: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Status]int, len(models.Statuses))
	for _, st := range models.Statuses {
		counts[st] = 0
	}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[models.Status(status)] = n
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row scanner) (*models.Submission, error) {
	var (
		sub                    models.Submission
		created                string
		features, integrations string
		status                 string
	)
	err := row.Scan(&sub.ID, &created, &sub.Name, &sub.Email, &sub.Phone, &sub.Company,
		&sub.ProjectType, &sub.BudgetRange, &sub.Deadline, &sub.Description,
		&features, &integrations, &sub.DesignPreferences, &sub.TargetAudience,
		&sub.ExistingWebsite, &sub.HostingPreferences, &sub.AdditionalComments, &status)
	if err != nil {
		return nil, err
	}
	if sub.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	if err := json.Unmarshal([]byte(features), &sub.Features); err != nil {
		return nil, fmt.Errorf("decode features: %w", err)
	}
	if err := json.Unmarshal([]byte(integrations), &sub.Integrations); err != nil {
		return nil, fmt.Errorf("decode integrations: %w", err)
	}
	sub.Features = nonNil(sub.Features)
	sub.Integrations = nonNil(sub.Integrations)
	sub.Status = models.Status(status)
	return &sub, nil
}

func encodeList(values []string) (string, error) {
	data, err := json.Marshal(nonNil(values))
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(data), nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
