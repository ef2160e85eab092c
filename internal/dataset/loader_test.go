package dataset

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salarypulse/internal/config"
)

const sampleCSV = `work_year,experience_level,employment_type,job_title,salary,salary_currency,salary_in_usd,employee_residence,remote_ratio,company_location,company_size
2023,SE,FT,Data Scientist,120000,USD,120000,US,100,US,M
2024,MI,FT,Data Engineer,95000,USD,95000,DE,0,DE,L
2024,EN,PT,Data Analyst,,USD,,BR,50,BR,S
`

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewLoader(config.DatasetConfig{}, logger, nil)
}

func TestLoadFromHTTP(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		io.WriteString(w, sampleCSV)
	}))
	defer srv.Close()

	loader := newTestLoader(t)

	table, err := loader.Load(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len(), "the null row is dropped")
	assert.Equal(t, "Data Scientist", table.Records[0].JobTitle)

	// Second load is served from the cache.
	again, err := loader.Load(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Same(t, table, again)
	assert.Equal(t, int32(1), hits.Load())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "salaries.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))

	loader := newTestLoader(t)

	table, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
}

func TestLoadFailures(t *testing.T) {
	t.Run("http error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := newTestLoader(t).Load(context.Background(), srv.URL)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSourceUnavailable)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := newTestLoader(t).Load(context.Background(), "/nonexistent/salaries.csv")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSourceUnavailable)
	})

	t.Run("missing columns", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "work_year,job_title\n2023,Data Scientist\n")
		}))
		defer srv.Close()

		_, err := newTestLoader(t).Load(context.Background(), srv.URL)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSourceUnavailable)
		assert.Contains(t, err.Error(), "missing columns")
	})

	t.Run("failure is not cached", func(t *testing.T) {
		var fail atomic.Bool
		fail.Store(true)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if fail.Load() {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			io.WriteString(w, sampleCSV)
		}))
		defer srv.Close()

		loader := newTestLoader(t)

		_, err := loader.Load(context.Background(), srv.URL)
		require.Error(t, err)

		fail.Store(false)
		table, err := loader.Load(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, 2, table.Len())
	})
}

func TestParseCSVNoHeader(t *testing.T) {
	_, err := parseCSV([]byte(""))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.True(t, strings.Contains(err.Error(), "no header row"))
}
