package handler

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/fefrre/ferweb/internal/catalog"
	"github.com/fefrre/ferweb/internal/intake"
	"github.com/fefrre/ferweb/internal/service"
	"github.com/fefrre/ferweb/internal/view"
)

// SiteHandler serves the public pages: the landing page and the intake wizard.
type SiteHandler struct {
	views   *view.Renderer
	drafts  *intake.DraftStore
	subs    *service.SubmissionService
	cookies Cookies
	logger  *zap.Logger
}

func NewSiteHandler(views *view.Renderer, drafts *intake.DraftStore, subs *service.SubmissionService, cookies Cookies, logger *zap.Logger) *SiteHandler {
	return &SiteHandler{views: views, drafts: drafts, subs: subs, cookies: cookies, logger: logger}
}

func (h *SiteHandler) Landing(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "landing", view.LandingPage{Packages: catalog.Packages})
}

// Intake shows the wizard at its current section, or the thank-you page once
// the visitor's form has been stored.
func (h *SiteHandler) Intake(w http.ResponseWriter, r *http.Request) {
	wiz := h.drafts.Get(h.cookies.draftID(w, r))
	v := wiz.View()
	if v.Submitted {
		h.render(w, http.StatusOK, "thanks", nil)
		return
	}
	h.render(w, http.StatusOK, "intake", view.IntakePage{View: v})
}

// IntakePost applies the posted section, then navigates or submits.
// It always answers with a redirect back to GET /solicitud.
func (h *SiteHandler) IntakePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	wiz := h.drafts.Get(h.cookies.draftID(w, r))
	if wiz.View().Submitted {
		http.Redirect(w, r, "/solicitud", http.StatusSeeOther)
		return
	}

	section, err := intake.ParseSection(r.PostForm.Get("section"))
	if err != nil {
		section = intake.SectionPersonal
	}
	wiz.Apply(section, r.PostForm)

	action := r.PostForm.Get("action")
	switch {
	case action == "next":
		wiz.GoTo(section.Next())
	case action == "prev":
		wiz.GoTo(section.Prev())
	case strings.HasPrefix(action, "goto:"):
		if target, err := intake.ParseSection(strings.TrimPrefix(action, "goto:")); err == nil {
			wiz.GoTo(target)
		}
	case action == "submit":
		h.submit(r.Context(), wiz)
	default:
		wiz.GoTo(section)
	}
	http.Redirect(w, r, "/solicitud", http.StatusSeeOther)
}

func (h *SiteHandler) submit(ctx context.Context, wiz *intake.Wizard) {
	sub, err := wiz.Submit(ctx, h.subs)
	var verr *intake.ValidationError
	switch {
	case err == nil:
		h.logger.Debug("wizard submitted", zap.String("id", sub.ID))
	case errors.As(err, &verr):
		h.logger.Debug("wizard validation failed", zap.String("field", verr.Field))
	case errors.Is(err, intake.ErrSubmitInFlight), errors.Is(err, intake.ErrAlreadySubmitted):
		h.logger.Debug("duplicate submit ignored", zap.Error(err))
	default:
		// The service already logged the backend failure.
	}
}

// Reset discards the visitor's draft ("Volver" and "Cancelar").
func (h *SiteHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.drafts.Get(h.cookies.draftID(w, r)).Reset()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// APISubmit stores a complete form posted as JSON.
func (h *SiteHandler) APISubmit(w http.ResponseWriter, r *http.Request) {
	var f intake.Form
	if err := readJSON(r, &f); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sub, err := h.subs.Submit(r.Context(), f)
	if err != nil {
		var verr *intake.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error": verr.Message,
				"field": verr.Field,
			})
			return
		}
		writeError(w, http.StatusBadGateway, intake.SubmitFailedMessage)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

// APIProgress estimates completion without storing anything. A JSON body is
// a whole form; a urlencoded body is one wizard section laid over the
// visitor's draft.
func (h *SiteHandler) APIProgress(w http.ResponseWriter, r *http.Request) {
	var f intake.Form
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		if err := readJSON(r, &f); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form")
			return
		}
		section, err := intake.ParseSection(r.PostForm.Get("section"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown section")
			return
		}
		f = h.drafts.Get(h.cookies.draftID(w, r)).View().Form
		f.Apply(section, r.PostForm)
	}
	writeJSON(w, http.StatusOK, map[string]int{"progress": f.Progress()})
}

func (h *SiteHandler) render(w http.ResponseWriter, status int, page string, data any) {
	if err := h.views.Render(w, status, page, data); err != nil {
		h.logger.Error("render failed", zap.String("page", page), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
