package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"statusline/internal/project/models"
	"statusline/pkg/platform/httputil"
	"statusline/pkg/platform/validation"
	"statusline/pkg/requestcontext"
)

// Service defines the project operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, payload any) (*models.Project, error)
	Get(ctx context.Context, rawID string) (*models.Project, error)
	Update(ctx context.Context, rawID string, payload any) (*models.Project, error)
	Delete(ctx context.Context, rawID string) error
	List(ctx context.Context, req models.ListProjectsRequest) (*validation.Paged[*models.Project], error)
}

type Handler struct {
	projects Service
	logger   *slog.Logger
}

func New(projects Service, logger *slog.Logger) *Handler {
	return &Handler{projects: projects, logger: logger}
}

// Register registers the project routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/projects", h.handleCreate)
	r.Get("/projects", h.handleList)
	r.Get("/projects/{projectID}", h.handleGet)
	r.Patch("/projects/{projectID}", h.handleUpdate)
	r.Delete("/projects/{projectID}", h.handleDelete)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.ReadBody(w, r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	project, err := h.projects.Create(r.Context(), body)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, project)
}

// handleList lists the projects of the master profile named by the
// masterProfileId query parameter.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, vs := models.ListProjectsRequestFromValues(r.URL.Query())
	if len(vs) > 0 {
		h.logger.WarnContext(ctx, "invalid project query",
			"request_id", requestcontext.RequestID(ctx),
			"violations", vs.Error(),
		)
		httputil.WriteError(w, vs.Err("invalid project query"))
		return
	}

	page, err := h.projects.List(ctx, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.Get(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, project)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.ReadBody(w, r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	project, err := h.projects.Update(r.Context(), chi.URLParam(r, "projectID"), body)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, project)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.projects.Delete(r.Context(), chi.URLParam(r, "projectID")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
