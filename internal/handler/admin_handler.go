package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fefrre/ferweb/internal/auth"
	"github.com/fefrre/ferweb/internal/models"
	"github.com/fefrre/ferweb/internal/service"
	"github.com/fefrre/ferweb/internal/store"
	"github.com/fefrre/ferweb/internal/view"
)

const (
	LoadFailedMessage   = "Error al cargar datos"
	UpdateFailedMessage = "Error al actualizar"
)

// flash messages carried across the post/redirect/get cycle.
var adminErrors = map[string]string{
	"update": UpdateFailedMessage,
	"logout": LogoutFailedMessage,
}

type AdminHandler struct {
	subs   *service.SubmissionService
	views  *view.Renderer
	logger *zap.Logger
}

func NewAdminHandler(subs *service.SubmissionService, views *view.Renderer, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{subs: subs, views: views, logger: logger}
}

// List renders every submission, newest first.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	page := view.AdminListPage{
		User:  auth.GetUser(r.Context()),
		Error: adminErrors[r.URL.Query().Get("error")],
	}
	status := http.StatusOK

	subs, counts, err := h.subs.Overview(r.Context())
	if err != nil {
		h.logger.Error("load submissions failed", zap.Error(err))
		page.Error = LoadFailedMessage
		status = http.StatusBadGateway
	} else {
		page.Submissions = subs
		page.Counts = counts
	}
	h.render(w, status, "admin_list", page)
}

func (h *AdminHandler) Detail(w http.ResponseWriter, r *http.Request) {
	page := view.AdminDetailPage{User: auth.GetUser(r.Context())}
	sub, err := h.subs.Get(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		h.logger.Error("load submission failed", zap.Error(err))
		page.Error = LoadFailedMessage
		h.render(w, http.StatusBadGateway, "admin_detail", page)
		return
	}
	page.Submission = sub
	h.render(w, http.StatusOK, "admin_detail", page)
}

// UpdateStatus changes one row and sends the admin back to a refreshed list.
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")
	status := models.Status(r.PostForm.Get("status"))
	if err := h.subs.UpdateStatus(r.Context(), id, status); err != nil {
		h.logger.Error("update status failed", zap.String("id", id), zap.String("status", string(status)), zap.Error(err))
		http.Redirect(w, r, "/admin?error=update", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AdminHandler) APIList(w http.ResponseWriter, r *http.Request) {
	subs, counts, err := h.subs.Overview(r.Context())
	if err != nil {
		h.logger.Error("load submissions failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, LoadFailedMessage)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"solicitudes": subs,
		"total":       len(subs),
		"counts":      counts,
	})
}

func (h *AdminHandler) APIGet(w http.ResponseWriter, r *http.Request) {
	sub, err := h.subs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "submission not found")
			return
		}
		writeError(w, http.StatusBadGateway, LoadFailedMessage)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *AdminHandler) APIUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status models.Status `json:"status"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id := chi.URLParam(r, "id")
	err := h.subs.UpdateStatus(r.Context(), id, req.Status)
	switch {
	case errors.Is(err, service.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "submission not found")
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, UpdateFailedMessage)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": req.Status})
}

func (h *AdminHandler) render(w http.ResponseWriter, status int, page string, data any) {
	if err := h.views.Render(w, status, page, data); err != nil {
		h.logger.Error("render failed", zap.String("page", page), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
