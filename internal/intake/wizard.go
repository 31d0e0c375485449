package intake

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/fefrre/ferweb/internal/models"
)

// SubmitFailedMessage replaces any backend error shown to the visitor.
const SubmitFailedMessage = "Ocurrió un error al enviar. Por favor intenta nuevamente."

var (
	ErrAlreadySubmitted = errors.New("intake: form already submitted")
	ErrSubmitInFlight   = errors.New("intake: submission already in progress")
)

// Gateway persists a validated form.
type Gateway interface {
	Submit(ctx context.Context, f Form) (*models.Submission, error)
}

// Wizard is one visitor's form, its current section and the outcome of the
// last submit. It is safe for concurrent use; the remote call runs without
// holding the lock.
type Wizard struct {
	mu         sync.Mutex
	form       Form
	section    Section
	errMsg     string
	submitted  bool
	submitting bool
	// gen changes on Reset so a submit started before it cannot mark the
	// new form as sent.
	gen uint64
}

func NewWizard() *Wizard {
	return &Wizard{section: SectionPersonal}
}

// View is a read-only copy of the wizard state.
type View struct {
	Form       Form
	Section    Section
	Progress   int
	Error      string
	Submitted  bool
	Submitting bool
}

func (w *Wizard) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return View{
		Form:       w.form.Clone(),
		Section:    w.section,
		Progress:   w.form.Progress(),
		Error:      w.errMsg,
		Submitted:  w.submitted,
		Submitting: w.submitting,
	}
}

// Set edits a scalar field and clears any shown error.
func (w *Wizard) Set(field, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.form.Set(field, value); err != nil {
		return err
	}
	w.errMsg = ""
	return nil
}

// Toggle edits a multi-select field and clears any shown error.
func (w *Wizard) Toggle(field, value string, checked bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.form.Toggle(field, value, checked); err != nil {
		return err
	}
	w.errMsg = ""
	return nil
}

// Apply stores the posted fields of the given section.
func (w *Wizard) Apply(section Section, values url.Values) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.form.Apply(section, values)
	w.errMsg = ""
}

// GoTo jumps to any section.
func (w *Wizard) GoTo(s Section) {
	w.mu.Lock()
	w.section = s
	w.mu.Unlock()
}

// Submit validates the form and hands it to the gateway. A validation
// failure sends the visitor back to the first section. A wizard submits at
// most once: concurrent or repeated calls are rejected.
func (w *Wizard) Submit(ctx context.Context, gw Gateway) (*models.Submission, error) {
	w.mu.Lock()
	if w.submitted {
		w.mu.Unlock()
		return nil, ErrAlreadySubmitted
	}
	if w.submitting {
		w.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if verr := w.form.Validate(); verr != nil {
		w.errMsg = verr.Message
		w.section = SectionPersonal
		w.mu.Unlock()
		return nil, verr
	}
	w.submitting = true
	w.errMsg = ""
	form := w.form.Clone()
	gen := w.gen
	w.mu.Unlock()

	sub, err := gw.Submit(ctx, form)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gen != gen {
		return sub, err
	}
	w.submitting = false
	if err != nil {
		w.errMsg = SubmitFailedMessage
		return nil, err
	}
	w.submitted = true
	return sub, nil
}

// Reset discards the form and starts over. A submit still in flight
// completes against the discarded form only.
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gen++
	w.submitting = false
	w.form = Form{}
	w.section = SectionPersonal
	w.errMsg = ""
	w.submitted = false
}
