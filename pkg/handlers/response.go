package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/showcase-labs/showcase-engine/pkg/apperrors"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// writeServiceError maps service-layer sentinel errors onto HTTP responses.
// Unrecognized errors become opaque 500s so internals never leak to clients.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		_ = ErrorResponse(w, http.StatusNotFound, "not_found", "Resource not found")
	case errors.Is(err, apperrors.ErrForbidden):
		_ = ErrorResponse(w, http.StatusForbidden, "forbidden", "You do not have permission to perform this action")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		_ = ErrorResponse(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
	case errors.Is(err, apperrors.ErrEmailTaken):
		_ = ErrorResponse(w, http.StatusConflict, "email_taken", "An account with this email already exists")
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidStatus),
		errors.Is(err, apperrors.ErrInvalidVoteType),
		errors.Is(err, apperrors.ErrUnsafeContent):
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", err.Error())
	default:
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}
