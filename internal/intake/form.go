// Package intake implements the multi-section lead-intake wizard: the form
// state, its progress estimate, section navigation and submit-time validation.
package intake

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/fefrre/ferweb/internal/catalog"
	"github.com/fefrre/ferweb/internal/models"
)

var (
	ErrUnknownField  = errors.New("unknown form field")
	ErrUnknownOption = errors.New("unknown option")
)

// Form is the in-progress submission, keyed by the form's own field names.
type Form struct {
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	Phone              string   `json:"phone"`
	Company            string   `json:"company"`
	ProjectType        string   `json:"projectType"`
	BudgetRange        string   `json:"budgetRange"`
	Deadline           string   `json:"deadline"`
	Description        string   `json:"description"`
	Features           []string `json:"features"`
	Integrations       []string `json:"integrations"`
	DesignPreferences  string   `json:"designPreferences"`
	TargetAudience     string   `json:"targetAudience"`
	ExistingWebsite    string   `json:"existingWebsite"`
	HostingPreferences string   `json:"hostingPreferences"`
	AdditionalComments string   `json:"additionalComments"`
}

// text returns a pointer to the named scalar field, or nil for multi-selects
// and unknown names.
func (f *Form) text(field string) *string {
	switch field {
	case "name":
		return &f.Name
	case "email":
		return &f.Email
	case "phone":
		return &f.Phone
	case "company":
		return &f.Company
	case "projectType":
		return &f.ProjectType
	case "budgetRange":
		return &f.BudgetRange
	case "deadline":
		return &f.Deadline
	case "description":
		return &f.Description
	case "designPreferences":
		return &f.DesignPreferences
	case "targetAudience":
		return &f.TargetAudience
	case "existingWebsite":
		return &f.ExistingWebsite
	case "hostingPreferences":
		return &f.HostingPreferences
	case "additionalComments":
		return &f.AdditionalComments
	}
	return nil
}

func (f *Form) list(field string) (*[]string, func(string) bool) {
	switch field {
	case "features":
		return &f.Features, catalog.IsFeature
	case "integrations":
		return &f.Integrations, catalog.IsIntegration
	}
	return nil, nil
}

// Set edits one scalar field.
func (f *Form) Set(field, value string) error {
	p := f.text(field)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	*p = value
	return nil
}

// Toggle adds or removes value from a multi-select field. Adding a value
// twice keeps a single copy.
func (f *Form) Toggle(field, value string, checked bool) error {
	p, known := f.list(field)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if !known(value) {
		return fmt.Errorf("%w for %s: %q", ErrUnknownOption, field, value)
	}
	i := slices.Index(*p, value)
	switch {
	case checked && i < 0:
		*p = append(*p, value)
	case !checked && i >= 0:
		*p = slices.Delete(*p, i, i+1)
	}
	return nil
}

// Apply copies the fields that belong to section from a posted form. A
// browser omits unchecked boxes, so the section's multi-selects are replaced
// rather than merged; values outside the catalog are dropped.
func (f *Form) Apply(section Section, values url.Values) {
	for _, field := range section.Fields() {
		if p, known := f.list(field); p != nil {
			selected := make([]string, 0, len(values[field]))
			for _, v := range values[field] {
				if known(v) && !slices.Contains(selected, v) {
					selected = append(selected, v)
				}
			}
			*p = selected
			continue
		}
		if _, ok := values[field]; ok {
			*f.text(field) = values.Get(field)
		}
	}
}

// Clone returns a deep copy safe to hand to templates.
func (f *Form) Clone() Form {
	c := *f
	c.Features = slices.Clone(f.Features)
	c.Integrations = slices.Clone(f.Integrations)
	return c
}

// Has reports whether value is selected in a multi-select field.
func (f *Form) Has(field, value string) bool {
	p, _ := f.list(field)
	return p != nil && slices.Contains(*p, value)
}

// ToSubmission maps the form onto the remote column layout. Status and
// creation time are left for the gateway to stamp.
func (f *Form) ToSubmission() *models.Submission {
	return &models.Submission{
		Name:               strings.TrimSpace(f.Name),
		Email:              strings.TrimSpace(f.Email),
		Phone:              f.Phone,
		Company:            f.Company,
		ProjectType:        f.ProjectType,
		BudgetRange:        f.BudgetRange,
		Deadline:           f.Deadline,
		Description:        f.Description,
		Features:           nonNil(f.Features),
		Integrations:       nonNil(f.Integrations),
		DesignPreferences:  f.DesignPreferences,
		TargetAudience:     f.TargetAudience,
		ExistingWebsite:    f.ExistingWebsite,
		HostingPreferences: f.HostingPreferences,
		AdditionalComments: f.AdditionalComments,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
