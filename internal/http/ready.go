package httpapi

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"statusline/pkg/platform/httputil"
)

// Check reports whether a backing dependency is reachable.
type Check func(ctx context.Context) error

// Readiness serves /readyz from a set of named dependency checks.
type Readiness struct {
	checks  map[string]Check
	timeout time.Duration
}

func NewReadiness(timeout time.Duration) *Readiness {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Readiness{checks: map[string]Check{}, timeout: timeout}
}

// Add registers a check. A nil check is ignored.
func (r *Readiness) Add(name string, check Check) {
	if check != nil {
		r.checks[name] = check
	}
}

type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (r *Readiness) Register(router chi.Router) {
	router.Get("/readyz", r.handle)
}

func (r *Readiness) handle(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), r.timeout)
	defer cancel()

	names := make([]string, 0, len(r.checks))
	for name := range r.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := readinessResponse{Status: "ok", Checks: make(map[string]string, len(names))}
	status := http.StatusOK
	for _, name := range names {
		if err := r.checks[name](ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	httputil.WriteJSON(w, status, resp)
}
