package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"gameon/internal/service"

	"github.com/rs/zerolog"
)

// writeServiceError maps service errors to status codes. Unexpected errors
// are logged and reported as 500 with msg as the prefix.
func writeServiceError(w http.ResponseWriter, logger zerolog.Logger, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, service.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, service.ErrBillNotFound),
		errors.Is(err, service.ErrUserNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrLastAdmin),
		errors.Is(err, service.ErrSelfDelete):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrEmptyCredentials),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrUnknownZone),
		errors.Is(err, service.ErrUnknownTier),
		errors.Is(err, service.ErrUnknownDuration),
		errors.Is(err, service.ErrInvalidPayment),
		errors.Is(err, service.ErrNegativeDiscount),
		errors.Is(err, service.ErrMissingCustomer):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrArchiveUnavailable):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		logger.Error().Err(err).Msg(msg)
		http.Error(w, msg+": "+err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
