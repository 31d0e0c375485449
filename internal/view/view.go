// Package view renders the site's HTML pages from embedded templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/fefrre/ferweb/internal/catalog"
	"github.com/fefrre/ferweb/internal/intake"
	"github.com/fefrre/ferweb/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Placeholder stands in for optional contact fields the visitor left empty.
const Placeholder = "No especificado"

// Renderer holds one template set per page, each sharing layout.html.
type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	files, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".html")
		if name == "layout" {
			continue
		}
		t, err := template.New("layout.html").Funcs(Funcs()).
			ParseFS(templatesFS, "templates/layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes page into a buffer first so a template error never leaves
// a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

var (
	md     = goldmark.New(goldmark.WithExtensions(extension.GFM))
	policy = bluemonday.UGCPolicy()
)

// Markdown renders visitor-supplied text as sanitized HTML.
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes()))
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"projectTypeLabel": catalog.ProjectTypeLabel,
		"budgetLabel":      catalog.BudgetLabel,
		"hostingLabel":     catalog.HostingLabel,
		"statusLabel":      catalog.StatusLabel,
		"orDefault": func(v, fallback string) string {
			if strings.TrimSpace(v) == "" {
				return fallback
			}
			return v
		},
		"markdown": Markdown,
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Local().Format("02/01/2006 15:04")
		},
		"has": func(f intake.Form, field, value string) bool {
			return f.Has(field, value)
		},
		"statusCount": func(counts map[models.Status]int, status string) int {
			return counts[models.Status(status)]
		},
		"techLink":           func(name string) string { return catalog.TechLinks[name] },
		"projectTypes":       func() []catalog.Option { return catalog.ProjectTypes },
		"budgetOptions":      func() []catalog.Option { return catalog.BudgetOptions },
		"featureOptions":     func() []catalog.Option { return catalog.FeatureOptions },
		"integrationOptions": func() []catalog.Option { return catalog.IntegrationOptions },
		"hostingOptions":     func() []catalog.Option { return catalog.HostingOptions },
		"statusOptions":      func() []catalog.Option { return catalog.StatusOptions },
		"sections":           func() []intake.Section { return intake.Sections },
	}
}

type LandingPage struct {
	Packages []catalog.Package
}

type IntakePage struct {
	View intake.View
}

type LoginPage struct {
	Email string
	Error string
}

type AdminListPage struct {
	User        *models.UserResponse
	Submissions []models.Submission
	Counts      map[models.Status]int
	Error       string
}

type AdminDetailPage struct {
	User       *models.UserResponse
	Submission *models.Submission
	Error      string
}
