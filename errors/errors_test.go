package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Paldeepak079/AadharIQ/analytics"
	"github.com/Paldeepak079/AadharIQ/store"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   ErrorCode
	}{
		{"not found", fmt.Errorf("load: %w", store.ErrNotFound), http.StatusNotFound, ErrorCodeNotFound},
		{"insufficient", fmt.Errorf("forecast: %w", analytics.ErrInsufficientData), http.StatusUnprocessableEntity, ErrorCodeInsufficientData},
		{"other", fmt.Errorf("boom"), http.StatusInternalServerError, ErrorCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := Classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestHandleError_HidesInternalMessage(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	h := NewHandler(logger)

	req := httptest.NewRequest(http.MethodGet, "/api/report", nil)
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	h.HandleError(w, req, fmt.Errorf("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrorCodeInternalError, resp.ErrorCode)
	assert.Equal(t, "internal server error", resp.Message)
	assert.Equal(t, "req-1", resp.RequestID)
}

func TestHandleError_InsufficientData(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	h := NewHandler(logger)

	w := httptest.NewRecorder()
	h.HandleError(w, httptest.NewRequest(http.MethodGet, "/api/ml/forecast", nil), analytics.ErrInsufficientData)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"error_code":"INSUFFICIENT_DATA"`)
}

func TestWriteHelpers(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	h := NewHandler(logger)

	w := httptest.NewRecorder()
	h.WriteDataNotLoaded(w, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "DATA_NOT_LOADED")

	w = httptest.NewRecorder()
	h.WriteRateLimitedError(w, "r")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = httptest.NewRecorder()
	h.WriteNotFound(w, "State 'Atlantis' not found", "r")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "State 'Atlantis' not found")
}
