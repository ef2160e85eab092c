package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appTestCSV = `work_year,experience_level,employment_type,job_title,salary,salary_currency,salary_in_usd,employee_residence,remote_ratio,company_location,company_size
2023,SE,FT,Data Scientist,120000,USD,120000,US,100,US,M
2024,EN,FT,Data Analyst,60000,EUR,65000,DE,0,DE,S
`

func newTestApplication(t *testing.T) *Application {
	t.Helper()

	source := filepath.Join(t.TempDir(), "salaries.csv")
	require.NoError(t, os.WriteFile(source, []byte(appTestCSV), 0o644))

	t.Setenv("SALARYPULSE_DATASET_SOURCE", source)
	t.Setenv("SALARYPULSE_DATASET_WARM_ON_START", "false")

	application, err := NewApplication()
	require.NoError(t, err)
	return application
}

func TestApplicationWiring(t *testing.T) {
	application := newTestApplication(t)

	assert.NotNil(t, application.Router)
	assert.NotNil(t, application.Server)
	assert.NotNil(t, application.DashboardService)
	assert.NotNil(t, application.HealthService)
	assert.NotNil(t, application.Loader)

	t.Run("health endpoint", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()
		application.Router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "healthy")
	})

	t.Run("version endpoint", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
		rec := httptest.NewRecorder()
		application.Router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("dashboard query round trip", func(t *testing.T) {
		body := `{
			"years": [2023, 2024],
			"seniorities": ["junior", "senior"],
			"employment_types": ["full-time"],
			"company_sizes": ["small", "medium"]
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/dashboard/query", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		application.Router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Data Scientist")
		assert.Contains(t, rec.Body.String(), "\"no_rows_match\":false")
	})

	t.Run("metrics endpoint", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec := httptest.NewRecorder()
		application.Router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown route renders problem", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
		rec := httptest.NewRecorder()
		application.Router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
	})
}
