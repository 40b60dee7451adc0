package controller

import (
	"encoding/json"
	"net/http"

	"github.com/priyabank/core-ledger/internal/domain"
	"github.com/priyabank/core-ledger/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response payload", err, nil)
	}
}

// statusForError maps a service error chain to an HTTP status through the
// domain error kinds, so controllers never match on message strings.
func statusForError(err error) int {
	switch domain.Kind(err) {
	case "validation":
		return http.StatusBadRequest
	case "unauthorized":
		return http.StatusUnauthorized
	case "not_found":
		return http.StatusNotFound
	case "insufficient_funds", "limit_exceeded":
		return http.StatusUnprocessableEntity
	case "conflict", "ambiguous_recipient":
		return http.StatusConflict
	case "unavailable":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
