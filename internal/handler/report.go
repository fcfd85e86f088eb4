package handler

import (
	"net/http"
	"time"
)

// GetDailyCounts handles GET /api/reports/daily — the dense daily-active-users
// histogram behind the dashboard chart.
//
// Either a named range (?range=7|30|month_to_date|prev_month, default 30) or
// an explicit window (?start=YYYY-MM-DD&end=YYYY-MM-DD) may be given; explicit
// bounds win when both are present.
func (s *Server) GetDailyCounts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("start") != "" || q.Get("end") != "" {
		start, err := time.Parse("2006-01-02", q.Get("start"))
		if err != nil {
			badRequest(w, "start must be YYYY-MM-DD")
			return
		}
		end, err := time.Parse("2006-01-02", q.Get("end"))
		if err != nil {
			badRequest(w, "end must be YYYY-MM-DD")
			return
		}
		if end.Before(start) {
			badRequest(w, "end must not be before start")
			return
		}

		counts, err := s.reporting.DailyCountsBetween(r.Context(), start, end)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, counts)
		return
	}

	counts, err := s.reporting.DailyCounts(r.Context(), q.Get("range"), time.Now().UTC())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}
