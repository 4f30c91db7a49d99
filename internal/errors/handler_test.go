package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() *ErrorHandler {
	return NewErrorHandler(slog.Default(), false)
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func TestHandleErrorAPIError(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/kpis/summary", nil)

	h.HandleError(rec, req, ErrReportNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, TypeNotFound, problem["type"])
	assert.Equal(t, "REPORT_NOT_FOUND", problem["title"])
	assert.Equal(t, "/api/kpis/summary", problem["instance"])
}

func TestHandleErrorAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantStatus int
		wantType   string
	}{
		{"not found", NewAppError(ErrTypeNotFound, "segments file missing", nil), http.StatusNotFound, TypeDataNotFound},
		{"parsing", NewParsingError("bad csv header", nil), http.StatusUnprocessableEntity, TypeDataCorrupted},
		{"validation", NewAppError(ErrTypeValidation, "bad sector", nil), http.StatusBadRequest, TypeValidation},
		{"storage", NewStorageError("disk gone", fmt.Errorf("io")), http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler()
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/data", nil)

			h.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			problem := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, problem["type"])
		})
	}
}

func TestHandleErrorContextCancelled(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/slow", nil)

	h.HandleError(rec, req, fmt.Errorf("running stage: %w", context.DeadlineExceeded))

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, TypeTimeout, problem["type"])
}

func TestHandleErrorUnknown(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)

	h.HandleError(rec, req, fmt.Errorf("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, "An unexpected error occurred", problem["detail"])
}

func TestValidationErrorDetailsFlattened(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/risk/top", nil)

	h.HandleError(rec, req, ErrValidation("limit", "must be a positive integer"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decodeProblem(t, rec)
	errs, ok := problem["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 1)
	first := errs[0].(map[string]any)
	assert.Equal(t, "limit", first["field"])
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := NewStorageError("write failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "STORAGE")
	assert.Contains(t, err.Error(), "root cause")
}
