package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statusline/internal/project/models"
	"statusline/internal/project/service"
	"statusline/internal/project/store"
	riskhandler "statusline/internal/risk/handler"
	riskservice "statusline/internal/risk/service"
	riskstore "statusline/internal/risk/store"
	"statusline/pkg/platform/validation"
	"statusline/pkg/testutil"
)

// newProjectRouter mounts projects next to risks so deletes can be observed
// cascading.
func newProjectRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	risks := riskstore.NewInMemoryStore()

	projects, err := service.New(store.NewInMemoryStore(),
		service.WithLogger(logger),
		service.WithDependents(risks),
	)
	require.NoError(t, err)
	riskSvc, err := riskservice.New(risks, projects, riskservice.WithLogger(logger))
	require.NoError(t, err)

	r := chi.NewRouter()
	New(projects, logger).Register(r)
	riskhandler.New(riskSvc, logger).Register(r)
	return r
}

func createProject(t *testing.T, router http.Handler, body map[string]any) *models.Project {
	t.Helper()
	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/projects", body))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	return testutil.UnmarshalResponse[models.Project](t, rr)
}

func TestCreateProject(t *testing.T) {
	router := newProjectRouter(t)

	t.Run("normalizes the payload", func(t *testing.T) {
		project := createProject(t, router, map[string]any{
			"name":            "  Apollo  ",
			"masterProfileId": "mp-1",
			"objectives":      []string{" ship ", "", "land"},
			"sponsorEmail":    "",
		})
		assert.Equal(t, "Apollo", project.Name)
		assert.Equal(t, []string{"ship", "land"}, project.Objectives)
		require.NotNil(t, project.SponsorEmail)
		assert.Equal(t, "", *project.SponsorEmail)
	})

	t.Run("name too long", func(t *testing.T) {
		long := make([]byte, models.MaxNameLength+1)
		for i := range long {
			long[i] = 'a'
		}
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/projects",
			map[string]any{"name": string(long), "masterProfileId": "mp-1"}))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
		testutil.AssertViolation(t, rr, "name", validation.KindShape)
	})

	t.Run("array body", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/projects", `[1,2]`))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}

func TestUpdateProject(t *testing.T) {
	router := newProjectRouter(t)
	project := createProject(t, router, map[string]any{"name": "Apollo", "masterProfileId": "mp-1"})
	path := "/projects/" + project.ID.String()

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPatch, path,
		map[string]any{"sponsorName": "Ada", "sponsorEmail": "ada@example.com"}))
	testutil.AssertStatusOK(t, rr)
	got := testutil.UnmarshalResponse[models.Project](t, rr)
	assert.Equal(t, "Apollo", got.Name)
	require.NotNil(t, got.SponsorName)
	assert.Equal(t, "Ada", *got.SponsorName)

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPatch, path,
		map[string]any{"sponsorEmail": "ada@"}))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	testutil.AssertViolation(t, rr, "sponsorEmail", validation.KindShape)
}

func TestListProjects(t *testing.T) {
	router := newProjectRouter(t)
	createProject(t, router, map[string]any{"name": "Apollo", "masterProfileId": "mp-1"})
	createProject(t, router, map[string]any{"name": "Gemini", "masterProfileId": "mp-2"})

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/projects?masterProfileId=mp-1"))
	testutil.AssertStatusOK(t, rr)
	page := testutil.UnmarshalResponse[validation.Paged[models.Project]](t, rr)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Apollo", page.Items[0].Name)

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/projects"))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	testutil.AssertViolation(t, rr, "masterProfileId", validation.KindShape)
}

func TestDeleteProjectCascades(t *testing.T) {
	router := newProjectRouter(t)

	testutil.Given(t, "a project with a risk", func(t *testing.T) {
		project := createProject(t, router, map[string]any{"name": "Apollo", "masterProfileId": "mp-1"})
		risksPath := "/projects/" + project.ID.String() + "/risks"
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, risksPath,
			map[string]any{"description": "d", "impact": "i", "severity": "LOW"}))
		testutil.AssertStatus(t, rr, http.StatusCreated)

		testutil.When(t, "the project is deleted", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodDelete, "/projects/"+project.ID.String()))
			testutil.AssertStatus(t, rr, http.StatusNoContent)

			testutil.Then(t, "its risks are gone", func(t *testing.T) {
				rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, risksPath))
				testutil.AssertStatusOK(t, rr)
				page := testutil.UnmarshalResponse[validation.Paged[map[string]any]](t, rr)
				assert.Zero(t, page.Total)
			})
			testutil.And(t, "the project is gone", func(t *testing.T) {
				rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/projects/"+project.ID.String()))
				testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
			})
		})
	})
}
