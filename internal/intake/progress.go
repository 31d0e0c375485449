package intake

import (
	"math"
	"strings"
)

var requiredFields = []string{"name", "email", "projectType", "budgetRange", "description"}

var optionalFields = []string{
	"phone", "company", "deadline", "features", "integrations",
	"designPreferences", "targetAudience", "existingWebsite",
	"hostingPreferences", "additionalComments",
}

const (
	requiredWeight = 70
	optionalWeight = 30
)

func (f *Form) filled(field string) bool {
	if p, _ := f.list(field); p != nil {
		return len(*p) > 0
	}
	p := f.text(field)
	return p != nil && strings.TrimSpace(*p) != ""
}

// Progress estimates completion as a 0-100 percentage. The required fields
// carry 70 points and the optional ones share the remaining 30.
func (f *Form) Progress() int {
	req, opt := 0, 0
	for _, field := range requiredFields {
		if f.filled(field) {
			req++
		}
	}
	for _, field := range optionalFields {
		if f.filled(field) {
			opt++
		}
	}
	score := float64(req)/float64(len(requiredFields))*requiredWeight +
		float64(opt)/float64(len(optionalFields))*optionalWeight
	return int(math.Round(score))
}
