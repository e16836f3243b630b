package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/diewo77/invoicing-app/internal/httpx"
	"github.com/diewo77/invoicing-app/internal/services"
)

// pathID extracts the {id} path segment as a positive integer.
func pathID(r *http.Request) (uint, bool) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// parseDate parses a YYYY-MM-DD calendar date.
func parseDate(raw string) (time.Time, bool) {
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// writeServiceError maps the service error taxonomy onto status codes:
// missing referenced entities are 404, validation failures 422, and
// anything else an opaque 500.
func writeServiceError(w http.ResponseWriter, err error) {
	if ve, ok := services.AsValidation(err); ok {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", map[string]string{ve.Field: ve.Reason})
		return
	}
	switch {
	case errors.Is(err, services.ErrClientNotFound):
		httpx.JSONError(w, http.StatusNotFound, "client_not_found", nil)
	case errors.Is(err, services.ErrProductNotFound):
		httpx.JSONError(w, http.StatusNotFound, "product_not_found", nil)
	case errors.Is(err, services.ErrInvoiceNotFound):
		httpx.JSONError(w, http.StatusNotFound, "invoice_not_found", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
