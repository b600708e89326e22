package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/schoolcast/schoolcast/internal/domain"
	"github.com/schoolcast/schoolcast/pkg/logger"
)

// WriteJSONError writes a JSON error response with the given message and status code.
// It sets the Content-Type header to application/json and automatically formats
// the response as {"error": "message"}.
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// writeJSON writes a JSON response with the given status code and data.
// It sets the Content-Type header to application/json.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleServiceError maps domain errors onto HTTP status codes.
func handleServiceError(w http.ResponseWriter, log logger.Logger, err error) {
	var validationErr domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var notFound *domain.ErrNotFound
	if errors.As(err, &notFound) {
		WriteJSONError(w, err.Error(), http.StatusNotFound)
		return
	}

	var immutable *domain.ErrScheduledImmutable
	if errors.As(err, &immutable) {
		WriteJSONError(w, err.Error(), http.StatusConflict)
		return
	}

	log.Error(err.Error())
	WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
}

// writeSendResult maps a completed send onto its status code: 200 when
// everything went out, 207 for a partial outcome, 500 when every
// recipient failed. The body always carries the full counts.
func writeSendResult(w http.ResponseWriter, result *domain.SendResult) {
	status := http.StatusOK
	switch result.Status {
	case domain.AggregateStatusPartial:
		status = http.StatusMultiStatus
	case domain.AggregateStatusFailed:
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, result)
}

// parsePagination reads limit/offset query parameters with defaults.
func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

// senderFromRequest builds the sender identity from request headers.
// Auth is out of scope here; the headers exist so the ledger can record
// who clicked send.
func senderFromRequest(r *http.Request) domain.SenderIdentity {
	sender := domain.SenderIdentity{
		ID:    r.Header.Get("X-Sender-Id"),
		Name:  r.Header.Get("X-Sender-Name"),
		Email: r.Header.Get("X-Sender-Email"),
	}
	if sender.ID == "" {
		sender.ID = "system"
	}
	return sender
}

// decodeJSON parses a request body, rejecting trailing garbage.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	return nil
}
