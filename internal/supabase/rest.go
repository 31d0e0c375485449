package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/fefrre/ferweb/internal/models"
	"github.com/fefrre/ferweb/internal/store"
)

// DefaultTable is the table the intake form writes to.
const DefaultTable = "solicitudes"

// SubmissionRepo implements store.Submissions over PostgREST.
type SubmissionRepo struct {
	c     *Client
	table string
}

func (c *Client) Submissions(table string) *SubmissionRepo {
	if table == "" {
		table = DefaultTable
	}
	return &SubmissionRepo{c: c, table: table}
}

// insertRow leaves id and created_at to the database defaults.
type insertRow struct {
	Name               string        `json:"name"`
	Email              string        `json:"email"`
	Phone              string        `json:"phone"`
	Company            string        `json:"company"`
	ProjectType        string        `json:"project_type"`
	BudgetRange        string        `json:"budget_range"`
	Deadline           string        `json:"deadline"`
	Description        string        `json:"description"`
	Features           []string      `json:"features"`
	Integrations       []string      `json:"integrations"`
	DesignPreferences  string        `json:"design_preferences"`
	TargetAudience     string        `json:"target_audience"`
	ExistingWebsite    string        `json:"existing_website"`
	HostingPreferences string        `json:"hosting_preferences"`
	AdditionalComments string        `json:"additional_comments"`
	Status             models.Status `json:"status"`
}

// row accepts both bigint and uuid primary keys.
type row struct {
	ID json.RawMessage `json:"id"`
	models.Submission
}

func (r row) submission() models.Submission {
	s := r.Submission
	s.ID = rawID(r.ID)
	return s
}

func rawID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}

func (r *SubmissionRepo) path() string { return "/rest/v1/" + r.table }

// Insert writes one row. Without a caller token the row is not read back,
// so the result carries the submitted values and no id.
func (r *SubmissionRepo) Insert(ctx context.Context, sub *models.Submission) (*models.Submission, error) {
	token, _ := store.AccessToken(ctx)
	payload := []insertRow{{
		Name:               sub.Name,
		Email:              sub.Email,
		Phone:              sub.Phone,
		Company:            sub.Company,
		ProjectType:        sub.ProjectType,
		BudgetRange:        sub.BudgetRange,
		Deadline:           sub.Deadline,
		Description:        sub.Description,
		Features:           sub.Features,
		Integrations:       sub.Integrations,
		DesignPreferences:  sub.DesignPreferences,
		TargetAudience:     sub.TargetAudience,
		ExistingWebsite:    sub.ExistingWebsite,
		HostingPreferences: sub.HostingPreferences,
		AdditionalComments: sub.AdditionalComments,
		Status:             sub.Status,
	}}
	req := request{
		method: http.MethodPost,
		path:   r.path(),
		token:  token,
		body:   payload,
	}
	if token == "" {
		// Public visitors may insert but not read back, so ask for no body.
		req.prefer = "return=minimal"
		if err := r.c.do(ctx, req, nil); err != nil {
			return nil, err
		}
		created := *sub
		created.ID = ""
		return &created, nil
	}

	req.prefer = "return=representation"
	var rows []row
	if err := r.c.do(ctx, req, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("supabase: insert returned no rows")
	}
	created := rows[0].submission()
	return &created, nil
}

func (r *SubmissionRepo) List(ctx context.Context) ([]models.Submission, error) {
	token, _ := store.AccessToken(ctx)
	var rows []row
	err := r.c.do(ctx, request{
		method: http.MethodGet,
		path:   r.path(),
		query:  url.Values{"select": {"*"}, "order": {"created_at.desc"}},
		token:  token,
	}, &rows)
	if err != nil {
		return nil, err
	}
	subs := make([]models.Submission, 0, len(rows))
	for _, rw := range rows {
		subs = append(subs, rw.submission())
	}
	return subs, nil
}

func (r *SubmissionRepo) Get(ctx context.Context, id string) (*models.Submission, error) {
	token, _ := store.AccessToken(ctx)
	var rows []row
	err := r.c.do(ctx, request{
		method: http.MethodGet,
		path:   r.path(),
		query:  url.Values{"select": {"*"}, "id": {"eq." + id}},
		token:  token,
	}, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	sub := rows[0].submission()
	return &sub, nil
}

func (r *SubmissionRepo) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	token, _ := store.AccessToken(ctx)
	var rows []row
	err := r.c.do(ctx, request{
		method: http.MethodPatch,
		path:   r.path(),
		query:  url.Values{"id": {"eq." + id}},
		token:  token,
		prefer: "return=representation",
		body:   map[string]models.Status{"status": status},
	}, &rows)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return store.ErrNotFound
	}
	return nil
}
