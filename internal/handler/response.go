// Package handler contains the HTTP layer: request decoding, calling into
// the services, and translating domain errors into status codes. No
// business logic lives here.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/bookshelf/internal/apperror"
)

// ErrorResponse is the envelope every error response uses. The error field
// is a stable machine-readable code; message is for display.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", slog.String("error", err.Error()))
	}
}

// writeError maps a domain error onto a status code and envelope. Anything
// outside the apperror taxonomy is a 500 with a generic message; the real
// error goes to the log, not the client.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	code, status := classify(err)

	message := err.Error()
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	if status == http.StatusInternalServerError {
		logger.Error("internal error", slog.String("error", err.Error()))
		message = "something went wrong"
	}

	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

func classify(err error) (code string, status int) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return "validation", http.StatusBadRequest
	case errors.Is(err, apperror.ErrUnauthenticated):
		return "unauthenticated", http.StatusUnauthorized
	case errors.Is(err, apperror.ErrForbidden):
		return "forbidden", http.StatusForbidden
	case errors.Is(err, apperror.ErrNotFound):
		return "not_found", http.StatusNotFound
	case errors.Is(err, apperror.ErrConflict):
		return "conflict", http.StatusConflict
	case errors.Is(err, apperror.ErrUnavailable):
		return "unavailable", http.StatusBadGateway
	default:
		return "internal", http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &apperror.AppError{
			Err:     apperror.ErrValidation,
			Message: "request body is not valid JSON",
		}
	}
	return nil
}
