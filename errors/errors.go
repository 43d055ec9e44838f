// Package errors provides error codes and JSON error responses for the HTTP
// API.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Paldeepak079/AadharIQ/analytics"
	"github.com/Paldeepak079/AadharIQ/store"
)

// ErrorCode represents application-specific error codes.
type ErrorCode string

const (
	ErrorCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrorCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrorCodeInsufficientData ErrorCode = "INSUFFICIENT_DATA"
	ErrorCodeRateLimited      ErrorCode = "RATE_LIMITED"
	ErrorCodeServiceDown      ErrorCode = "SERVICE_UNAVAILABLE"
	ErrorCodeInternalError    ErrorCode = "INTERNAL_ERROR"
	ErrorCodeDataNotLoaded    ErrorCode = "DATA_NOT_LOADED"
)

// ErrorResponse represents the standard error response format.
type ErrorResponse struct {
	Status    string    `json:"status"`
	ErrorCode ErrorCode `json:"error_code"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
}

// Handler provides error handling functionality.
type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// Classify maps an error to an HTTP status and error code.
func Classify(err error) (int, ErrorCode) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case stderrors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, ErrorCodeNotFound
	case stderrors.Is(err, analytics.ErrInsufficientData):
		return http.StatusUnprocessableEntity, ErrorCodeInsufficientData
	default:
		return http.StatusInternalServerError, ErrorCodeInternalError
	}
}

// HandleError writes the response matching err. Internal errors are not
// echoed to the client.
func (h *Handler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := Classify(err)
	message := err.Error()
	if code == ErrorCodeInternalError {
		h.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", r.Header.Get("X-Request-ID")),
			zap.Error(err))
		message = "internal server error"
	}
	h.WriteErrorResponse(w, status, code, message, r.Header.Get("X-Request-ID"))
}

// WriteErrorResponse writes a formatted error response to the HTTP response writer.
func (h *Handler) WriteErrorResponse(w http.ResponseWriter, statusCode int, errorCode ErrorCode, message string, requestID string) {
	h.logger.Warn("HTTP error response",
		zap.Int("status_code", statusCode),
		zap.String("error_code", string(errorCode)),
		zap.String("message", message),
		zap.String("request_id", requestID),
	)

	resp := ErrorResponse{
		Status:    "error",
		ErrorCode: errorCode,
		Message:   message,
		RequestID: requestID,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) WriteValidationError(w http.ResponseWriter, message string, requestID string) {
	h.WriteErrorResponse(w, http.StatusBadRequest, ErrorCodeInvalidRequest, message, requestID)
}

func (h *Handler) WriteNotFound(w http.ResponseWriter, message string, requestID string) {
	h.WriteErrorResponse(w, http.StatusNotFound, ErrorCodeNotFound, message, requestID)
}

func (h *Handler) WriteInternalError(w http.ResponseWriter, message string, requestID string) {
	h.WriteErrorResponse(w, http.StatusInternalServerError, ErrorCodeInternalError, message, requestID)
}

func (h *Handler) WriteServiceUnavailable(w http.ResponseWriter, message string, requestID string) {
	h.WriteErrorResponse(w, http.StatusServiceUnavailable, ErrorCodeServiceDown, message, requestID)
}

// WriteDataNotLoaded reports that no dataset snapshot is available yet.
func (h *Handler) WriteDataNotLoaded(w http.ResponseWriter, requestID string) {
	h.WriteErrorResponse(w, http.StatusServiceUnavailable, ErrorCodeDataNotLoaded, "Data not loaded", requestID)
}

func (h *Handler) WriteRateLimitedError(w http.ResponseWriter, requestID string) {
	h.WriteErrorResponse(w, http.StatusTooManyRequests, ErrorCodeRateLimited, "rate limit exceeded", requestID)
}
