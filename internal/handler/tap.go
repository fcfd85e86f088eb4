package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mverhoef/presenceboard/internal/domain"
)

// checkinRequest is the body of POST /api/checkin. Timestamp is optional;
// the simulator uses it to submit backdated taps.
type checkinRequest struct {
	CardID    string `json:"card_id"`
	Timestamp string `json:"timestamp,omitempty"` // RFC 3339
}

// checkinResponse mirrors the shape the dashboard expects from a tap.
type checkinResponse struct {
	Action     domain.TapAction `json:"action"`
	MemberName string           `json:"member_name"`
	Duration   string           `json:"duration,omitempty"`
}

// PostCheckin handles POST /api/checkin — the single tap endpoint. One call
// either opens a session (check-in) or closes the open one (check-out).
func (s *Server) PostCheckin(w http.ResponseWriter, r *http.Request) {
	var req checkinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	var occurredAt time.Time
	if req.Timestamp != "" {
		var err error
		occurredAt, err = time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			badRequest(w, "timestamp must be RFC 3339")
			return
		}
	}

	result, err := s.ledger.RecordTap(r.Context(), req.CardID, occurredAt)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, checkinResponse{
		Action:     result.Action,
		MemberName: result.MemberName,
		Duration:   result.DurationLabel,
	})
}
