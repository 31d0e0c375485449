package models

import "time"

// Status is the review state an admin assigns to a submission.
type Status string

const (
	StatusPending   Status = "pending"
	StatusReviewed  Status = "reviewed"
	StatusContacted Status = "contacted"
	StatusCompleted Status = "completed"
)

// Statuses lists every status in the order the admin selector shows them.
var Statuses = []Status{StatusPending, StatusReviewed, StatusContacted, StatusCompleted}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusReviewed, StatusContacted, StatusCompleted:
		return true
	}
	return false
}

// Submission is a lead-intake record. JSON tags are the column names of the
// remote "solicitudes" table.
type Submission struct {
	ID                 string    `json:"id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	Company            string    `json:"company"`
	ProjectType        string    `json:"project_type"`
	BudgetRange        string    `json:"budget_range"`
	Deadline           string    `json:"deadline"`
	Description        string    `json:"description"`
	Features           []string  `json:"features"`
	Integrations       []string  `json:"integrations"`
	DesignPreferences  string    `json:"design_preferences"`
	TargetAudience     string    `json:"target_audience"`
	ExistingWebsite    string    `json:"existing_website"`
	HostingPreferences string    `json:"hosting_preferences"`
	AdditionalComments string    `json:"additional_comments"`
	Status             Status    `json:"status"`
}
