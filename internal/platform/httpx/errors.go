// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nazaara/billing/internal/shared"
)

// RespondError maps domain errors to HTTP responses with an {"error": msg} body.
// Unknown errors are logged and answered with fallback and status 500.
func RespondError(w http.ResponseWriter, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Error(w, http.StatusNotFound, shared.UserSafeMessage(err, "Not found"))
	case errors.Is(err, shared.ErrValidation):
		Error(w, http.StatusBadRequest, shared.UserSafeMessage(err, "Invalid request"))
	case errors.Is(err, shared.ErrConflict):
		Error(w, http.StatusBadRequest, shared.UserSafeMessage(err, "Conflict"))
	case errors.Is(err, shared.ErrUnauthorized):
		Error(w, http.StatusUnauthorized, shared.UserSafeMessage(err, "Unauthorized"))
	default:
		if logger != nil {
			logger.Error(fallback, slog.Any("error", err))
		}
		Error(w, http.StatusInternalServerError, fallback)
	}
}
