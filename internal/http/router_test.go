package httpapi

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statusline/internal/platform/metrics"
	"statusline/pkg/platform/middleware/metadata"
	"statusline/pkg/testutil"
)

type panicRoutes struct{}

func (panicRoutes) Register(r chi.Router) {
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
}

func newTestRouter(t *testing.T) (http.Handler, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.IncrementCreated("risk")
	return NewRouter(logger, reg, panicRoutes{}), &logs
}

func TestHealthz(t *testing.T) {
	router, logs := newTestRouter(t)

	req := testutil.NewRequest(t, http.MethodGet, "/healthz")
	req.Header.Set(metadata.HeaderRequestID, "req-health")
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "status", "ok")
	assert.Equal(t, "req-health", rr.Header().Get(metadata.HeaderRequestID))
	assert.Contains(t, logs.String(), `"request_id":"req-health"`)
	assert.Contains(t, logs.String(), `"status":200`)
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
	testutil.AssertStatusOK(t, rr)
	assert.True(t, strings.Contains(rr.Body.String(), `statusline_records_created_total{entity="risk"} 1`), rr.Body.String())
}

func TestUnknownRouteIsJSON(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/nope"))
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/healthz"))
	testutil.AssertStatusAndError(t, rr, http.StatusMethodNotAllowed, "method_not_allowed")
}

func TestPanicIsRecovered(t *testing.T) {
	router, logs := newTestRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/boom"))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, logs.String(), `"level":"ERROR"`)
}

func TestNoMetricsWithoutGatherer(t *testing.T) {
	router := NewRouter(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), nil)
	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}
