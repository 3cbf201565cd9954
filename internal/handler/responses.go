package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/osse101/ThrowBot_Go/internal/domain"
	"github.com/osse101/ThrowBot_Go/internal/logger"
	"github.com/osse101/ThrowBot_Go/internal/roles"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

// bufferPool is a pool of bytes.Buffer to reduce allocations during JSON encoding
var bufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload any) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	// Encode before writing headers so an encoding failure can still become a 500
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		http.Error(w, ErrMsgGenericServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondData wraps payload in the {"data": ...} envelope
func respondData(w http.ResponseWriter, status int, payload any) {
	respondJSON(w, status, DataResponse{Data: payload})
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs err and answers with the mapped status and user message
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, msg := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(opName, "error", err)
		if msg == ErrMsgGenericServerError {
			msg = opName
		}
	} else {
		log.Warn(opName, "error", err)
	}
	respondError(w, status, msg)
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"
	ErrMsgRuleNotFoundError  = "Rule not found"
	ErrMsgAssetNotFoundError = "Asset not found"
	ErrMsgInvalidRuleError   = "Rule definition is invalid"
	ErrMsgInvalidEventError  = "Event definition is invalid"
	ErrMsgNoSubscribersError = "No overlay is connected"
	ErrMsgResolutionError    = "Rule outcome could not be resolved"
	ErrMsgUnknownRoleError   = "Unknown channel role"
	ErrMsgUserIDRequiredErr  = "User id is required"
	ErrMsgBroadcastBusyError = "Overlay broadcast is busy, try again"
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP responses
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	var resolutionErr *domain.ResolutionError
	switch {
	case errors.Is(err, domain.ErrRuleNotFound):
		return http.StatusNotFound, ErrMsgRuleNotFoundError
	case errors.Is(err, domain.ErrAssetNotFound) && !errors.As(err, &resolutionErr):
		return http.StatusNotFound, ErrMsgAssetNotFoundError
	case errors.As(err, &resolutionErr):
		return http.StatusUnprocessableEntity, ErrMsgResolutionError
	case errors.Is(err, domain.ErrInvalidTrigger),
		errors.Is(err, domain.ErrInvalidOutcome),
		errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, ErrMsgInvalidRuleError
	case errors.Is(err, domain.ErrInvalidEvent), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidEventError
	case errors.Is(err, domain.ErrNoSubscribers):
		return http.StatusConflict, ErrMsgNoSubscribersError
	case errors.Is(err, domain.ErrBroadcastFull):
		return http.StatusServiceUnavailable, ErrMsgBroadcastBusyError
	case errors.Is(err, roles.ErrUnknownRole):
		return http.StatusBadRequest, ErrMsgUnknownRoleError
	case errors.Is(err, roles.ErrUserIDRequired):
		return http.StatusBadRequest, ErrMsgUserIDRequiredErr
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
