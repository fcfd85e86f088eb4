package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mverhoef/presenceboard/internal/service"
)

// ListSessions handles GET /api/sessions — the history view.
// Query parameters: member_id (repeatable; absent means all members),
// sort (member_name | checked_in_at | checked_out_at, default checked_in_at),
// order (asc | desc, default desc — most recent first, as the dashboard shows it).
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var memberIDs []uuid.UUID
	for _, raw := range q["member_id"] {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(w, "invalid member_id filter")
			return
		}
		memberIDs = append(memberIDs, id)
	}

	sortBy := service.SortByCheckedInAt
	switch q.Get("sort") {
	case "", "checked_in_at":
	case "member_name":
		sortBy = service.SortByMemberName
	case "checked_out_at":
		sortBy = service.SortByCheckedOutAt
	default:
		badRequest(w, "sort must be member_name, checked_in_at, or checked_out_at")
		return
	}

	asc := false
	switch q.Get("order") {
	case "", "desc":
	case "asc":
		asc = true
	default:
		badRequest(w, "order must be asc or desc")
		return
	}

	sessions, err := s.reporting.History(r.Context(), memberIDs, sortBy, asc)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessions)
}

// ListActiveSessions handles GET /api/sessions/active — who is here right now,
// earliest arrival first.
func (s *Server) ListActiveSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.reporting.CurrentlyActive(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessions)
}

// ListTodaySessions handles GET /api/sessions/today — everyone who arrived on
// the current UTC calendar day.
func (s *Server) ListTodaySessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.reporting.TodayArrivals(r.Context(), time.Now().UTC())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessions)
}

// DeleteSession handles DELETE /api/sessions/{id} — administrative hard delete.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, "invalid session id")
		return
	}

	if err := s.ledger.DeleteSession(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
