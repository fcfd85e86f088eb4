package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mverhoef/presenceboard/internal/domain"
)

// errorResponse is the JSON body for every non-2xx response:
// {"error":{"code":"not_found","message":"member not found"}}.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON serializes v with the given status. Encoding failures are logged
// rather than surfaced — headers are already written at that point.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError maps a service error onto the HTTP status taxonomy:
// validation → 422, unknown card / not found → 404, duplicate card → 409,
// anything else → 500 with a generic body (internals stay in the log).
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: errorDetail{Code: "validation_error", Message: unwrapMessage(err)},
		})
	case errors.Is(err, domain.ErrUnknownTap):
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error: errorDetail{Code: "unknown_card", Message: domain.ErrUnknownTap.Error()},
		})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error: errorDetail{Code: "not_found", Message: unwrapMessage(err)},
		})
	case errors.Is(err, domain.ErrDuplicateTapID):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error: errorDetail{Code: "duplicate_tap_id", Message: domain.ErrDuplicateTapID.Error()},
		})
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: errorDetail{Code: "internal_error", Message: "internal server error"},
		})
	}
}

// badRequest writes a 400 for requests rejected before reaching the service
// layer (malformed JSON, unparseable id, bad query parameter).
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error: errorDetail{Code: "bad_request", Message: message},
	})
}

// unwrapMessage extracts the human-readable tail from a wrapped sentinel error.
// e.g. "service.MemberService.Create: validation error: name is required"
// → "name is required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		tail := msg[i+2:]
		if tail != "" {
			return tail
		}
	}
	return msg
}
