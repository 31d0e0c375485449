package intake

import "fmt"

// Section is one page of the wizard.
type Section string

const (
	SectionPersonal    Section = "personal"
	SectionProject     Section = "project"
	SectionFeatures    Section = "features"
	SectionPreferences Section = "preferences"
)

// Sections is the navigation order.
var Sections = []Section{SectionPersonal, SectionProject, SectionFeatures, SectionPreferences}

var sectionFields = map[Section][]string{
	SectionPersonal:    {"name", "email", "phone", "company"},
	SectionProject:     {"projectType", "budgetRange", "deadline", "description"},
	SectionFeatures:    {"features", "integrations"},
	SectionPreferences: {"designPreferences", "targetAudience", "existingWebsite", "hostingPreferences", "additionalComments"},
}

var sectionTitles = map[Section]string{
	SectionPersonal:    "Tus datos",
	SectionProject:     "Tu proyecto",
	SectionFeatures:    "Funcionalidades",
	SectionPreferences: "Preferencias",
}

// ParseSection accepts a section name from a query string or form button.
func ParseSection(s string) (Section, error) {
	sec := Section(s)
	if _, ok := sectionFields[sec]; !ok {
		return "", fmt.Errorf("unknown section %q", s)
	}
	return sec, nil
}

func (s Section) Fields() []string { return sectionFields[s] }

func (s Section) Title() string { return sectionTitles[s] }

func (s Section) index() int {
	for i, sec := range Sections {
		if sec == s {
			return i
		}
	}
	return 0
}

// Next returns the following section, or s itself on the last one.
func (s Section) Next() Section {
	i := s.index()
	if i == len(Sections)-1 {
		return s
	}
	return Sections[i+1]
}

// Prev returns the preceding section, or s itself on the first one.
func (s Section) Prev() Section {
	i := s.index()
	if i == 0 {
		return s
	}
	return Sections[i-1]
}

func (s Section) IsFirst() bool { return s.index() == 0 }

func (s Section) IsLast() bool { return s.index() == len(Sections)-1 }
