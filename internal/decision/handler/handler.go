package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"statusline/internal/decision/models"
	"statusline/pkg/platform/httputil"
	"statusline/pkg/platform/validation"
	"statusline/pkg/requestcontext"
)

// Service defines the decision operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, payload any) (*models.Decision, error)
	Get(ctx context.Context, rawID string) (*models.Decision, error)
	Update(ctx context.Context, rawID string, payload any) (*models.Decision, error)
	Delete(ctx context.Context, rawID string) error
	List(ctx context.Context, req models.ListDecisionsRequest) (*validation.Paged[*models.Decision], error)
}

// Handler serves the decision endpoints.
type Handler struct {
	decisions Service
	logger    *slog.Logger
}

// New creates a new decision Handler.
func New(decisions Service, logger *slog.Logger) *Handler {
	return &Handler{decisions: decisions, logger: logger}
}

// Register registers the decision routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/projects/{projectID}/decisions", h.handleCreate)
	r.Get("/projects/{projectID}/decisions", h.handleList)
	r.Get("/decisions/{decisionID}", h.handleGet)
	r.Patch("/decisions/{decisionID}", h.handleUpdate)
	r.Delete("/decisions/{decisionID}", h.handleDelete)
}

// handleCreate creates a decision under the project named in the path. The path
// wins over any projectId in the body.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body, err := httputil.ReadBody(w, r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	decision, err := h.decisions.Create(ctx, httputil.WithField(body, "projectId", chi.URLParam(r, "projectID")))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, decision)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, vs := models.ListDecisionsRequestFromValues(r.URL.Query())
	if len(vs) > 0 {
		h.logger.WarnContext(ctx, "invalid decision query",
			"request_id", requestcontext.RequestID(ctx),
			"violations", vs.Error(),
		)
		httputil.WriteError(w, vs.Err("invalid decision query"))
		return
	}
	req.ProjectID = validation.Some(chi.URLParam(r, "projectID"))

	page, err := h.decisions.List(ctx, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	decision, err := h.decisions.Get(r.Context(), chi.URLParam(r, "decisionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, decision)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.ReadBody(w, r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	decision, err := h.decisions.Update(r.Context(), chi.URLParam(r, "decisionID"), body)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, decision)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.decisions.Delete(r.Context(), chi.URLParam(r, "decisionID")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
