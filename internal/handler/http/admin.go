package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SarjuThakkar/TreehouseLibrary/internal/service"
	"github.com/SarjuThakkar/TreehouseLibrary/pkg/httputil"
	"github.com/SarjuThakkar/TreehouseLibrary/pkg/validator"
)

// AdminHandler handles dashboard, force-return, broadcast, and manual job
// trigger endpoints.
type AdminHandler struct {
	library    *service.LibraryService
	reminder   *service.ReminderService
	newsletter *service.NewsletterService
	logger     *slog.Logger
}

// NewAdminHandler creates a new admin HTTP handler.
func NewAdminHandler(
	library *service.LibraryService,
	reminder *service.ReminderService,
	newsletter *service.NewsletterService,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		library:    library,
		reminder:   reminder,
		newsletter: newsletter,
		logger:     logger,
	}
}

// BlastRequest is the JSON request body for broadcasting a message to all
// patrons with an email address.
type BlastRequest struct {
	Subject string `json:"subject" validate:"required,min=1,max=255"`
	Message string `json:"message" validate:"required,min=1,max=10000"`
}

// jobResult reports how many items a triggered run processed.
type jobResult struct {
	Processed int `json:"processed"`
}

// Dashboard handles GET /api/v1/admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data, err := h.library.Dashboard(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: data})
}

// ForceReturn handles POST /api/v1/admin/checkouts/{id}/return
func (h *AdminHandler) ForceReturn(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	checkout, err := h.library.ForceReturn(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: checkout})
}

// Blast handles POST /api/v1/admin/blast
func (h *AdminHandler) Blast(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req BlastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sent, err := h.newsletter.Blast(r.Context(), req.Subject, req.Message)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: jobResult{Processed: sent}})
}

// TriggerOverdueCheck handles POST /api/v1/admin/jobs/overdue-check
func (h *AdminHandler) TriggerOverdueCheck(w http.ResponseWriter, r *http.Request) {
	sent, err := h.reminder.Run(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: jobResult{Processed: sent}})
}

// TriggerNewsletter handles POST /api/v1/admin/jobs/newsletter
func (h *AdminHandler) TriggerNewsletter(w http.ResponseWriter, r *http.Request) {
	sent, err := h.newsletter.Run(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: jobResult{Processed: sent}})
}
