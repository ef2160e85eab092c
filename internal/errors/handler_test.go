package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *ErrorHandler {
	t.Helper()
	return NewErrorHandler(slog.New(slog.NewJSONHandler(io.Discard, nil)), false)
}

func TestErrorToProblem(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "api error validation",
			err:        ErrValidationFailed,
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "api error dataset unavailable",
			err:        DatasetUnavailableError(fmt.Errorf("fetch failed")),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeDatasetUnavailable,
		},
		{
			name:       "typed parsing error",
			err:        NewParsingError("malformed csv", fmt.Errorf("bare quote")),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeDatasetCorrupted,
		},
		{
			name:       "typed export error",
			err:        NewExportError("workbook export failed", fmt.Errorf("disk full")),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeExportFailed,
		},
		{
			name:       "context deadline",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "plain dataset error",
			err:        fmt.Errorf("dataset source returned status 500"),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeDatasetUnavailable,
		},
		{
			name:       "plain not found",
			err:        fmt.Errorf("view not found"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "unknown error",
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/dashboard/query", nil)
			problem := h.ErrorToProblem(tt.err, r)

			require.NotNil(t, problem)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/dashboard/query", problem.Instance)
		})
	}
}

func TestHandleErrorWritesProblemJSON(t *testing.T) {
	h := newTestHandler(t)

	r := httptest.NewRequest(http.MethodPost, "/api/dashboard/export", nil)
	w := httptest.NewRecorder()

	h.HandleError(w, r, DatasetUnavailableError(fmt.Errorf("connection refused")))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, TypeDatasetUnavailable, body["type"])
	assert.Equal(t, float64(http.StatusServiceUnavailable), body["status"])
	assert.Equal(t, "DATASET_UNAVAILABLE", body["error_code"])
}

func TestProblemDetailsMarshalJSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Validation Failed", "years is required", "/api/dashboard/query").
		WithExtension("error_code", "VALIDATION_FAILED")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, TypeValidation, decoded["type"])
	assert.Equal(t, "years is required", decoded["detail"])
	assert.Equal(t, "VALIDATION_FAILED", decoded["error_code"])
}

func TestNotFoundHandler(t *testing.T) {
	h := newTestHandler(t)

	r := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	w := httptest.NewRecorder()

	h.NotFound(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("read tcp: connection reset")
	err := NewNetworkError("dataset fetch failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "NETWORK")
	assert.Contains(t, err.Error(), "dataset fetch failed")
}
