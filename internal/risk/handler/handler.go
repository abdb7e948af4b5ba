package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"statusline/internal/risk/models"
	"statusline/pkg/platform/httputil"
	"statusline/pkg/platform/validation"
	"statusline/pkg/requestcontext"
)

// Service defines the risk operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, payload any) (*models.Risk, error)
	Get(ctx context.Context, rawID string) (*models.Risk, error)
	Update(ctx context.Context, rawID string, payload any) (*models.Risk, error)
	Delete(ctx context.Context, rawID string) error
	List(ctx context.Context, req models.ListRisksRequest) (*validation.Paged[*models.Risk], error)
}

// Handler serves the risk endpoints.
type Handler struct {
	risks  Service
	logger *slog.Logger
}

// New creates a new risk Handler.
func New(risks Service, logger *slog.Logger) *Handler {
	return &Handler{risks: risks, logger: logger}
}

// Register registers the risk routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/projects/{projectID}/risks", h.handleCreate)
	r.Get("/projects/{projectID}/risks", h.handleList)
	r.Get("/risks/{riskID}", h.handleGet)
	r.Patch("/risks/{riskID}", h.handleUpdate)
	r.Delete("/risks/{riskID}", h.handleDelete)
}

// handleCreate creates a risk under the project named in the path. The path
// wins over any projectId in the body.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body, err := httputil.ReadBody(w, r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	risk, err := h.risks.Create(ctx, httputil.WithField(body, "projectId", chi.URLParam(r, "projectID")))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, risk)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, vs := models.ListRisksRequestFromValues(r.URL.Query())
	if len(vs) > 0 {
		h.logger.WarnContext(ctx, "invalid risk query",
			"request_id", requestcontext.RequestID(ctx),
			"violations", vs.Error(),
		)
		httputil.WriteError(w, vs.Err("invalid risk query"))
		return
	}
	req.ProjectID = validation.Some(chi.URLParam(r, "projectID"))

	page, err := h.risks.List(ctx, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	risk, err := h.risks.Get(r.Context(), chi.URLParam(r, "riskID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, risk)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.ReadBody(w, r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	risk, err := h.risks.Update(r.Context(), chi.URLParam(r, "riskID"), body)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, risk)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.risks.Delete(r.Context(), chi.URLParam(r, "riskID")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
