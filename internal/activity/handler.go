package activity

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"statusline/pkg/domain"
	"statusline/pkg/platform/httputil"
	"statusline/pkg/platform/validation"
	"statusline/pkg/requestcontext"
)

// Reader lists a project's feed, newest first.
type Reader interface {
	List(ctx context.Context, projectID domain.ProjectID, limit int) ([]Event, error)
}

// Handler serves the read side of the activity feed.
type Handler struct {
	feed   Reader
	logger *slog.Logger
}

func NewHandler(feed Reader, logger *slog.Logger) *Handler {
	return &Handler{feed: feed, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/projects/{projectID}/activity", h.handleList)
}

type feedResponse struct {
	Items []Event `json:"items"`
	Limit int     `json:"limit"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID, err := domain.ParseProjectID(chi.URLParam(r, "projectID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var vs validation.Violations
	limit := validation.QueryInt(&vs, r.URL.Query(), "limit")
	page := validation.CheckPage(&vs, limit, validation.Opt[int]{})
	if len(vs) > 0 {
		h.logger.WarnContext(ctx, "invalid activity query",
			"request_id", requestcontext.RequestID(ctx),
			"violations", vs.Error(),
		)
		httputil.WriteError(w, vs.Err("invalid activity query"))
		return
	}

	events, err := h.feed.List(ctx, projectID, page.Limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read activity",
			"request_id", requestcontext.RequestID(ctx),
			"project_id", projectID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if events == nil {
		events = []Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, feedResponse{Items: events, Limit: page.Limit})
}
