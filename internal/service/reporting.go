package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mverhoef/presenceboard/internal/domain"
	"github.com/mverhoef/presenceboard/internal/repo"
)

// ReportingService produces the read-only dashboard views over the session
// log. It never mutates anything; the aggregation itself lives in pure
// package-level functions so it can be tested without a database.
type ReportingService struct {
	sessions repo.SessionRepo
}

// NewReportingService constructs a ReportingService backed by the provided
// SessionRepo.
func NewReportingService(sessions repo.SessionRepo) *ReportingService {
	return &ReportingService{sessions: sessions}
}

// DayCount is one bucket of the daily-active-users histogram.
type DayCount struct {
	Date  string `json:"date"` // "2006-01-02", UTC
	Count int    `json:"count"`
}

// MonthStats is a member's usage for the current calendar month so far.
// Only completed visits count; a session still open is excluded even when it
// started this month.
type MonthStats struct {
	VisitCount     int `json:"visit_count"`
	HoursSpent     int `json:"hours_spent"`
	UniqueDayCount int `json:"unique_day_count"`
}

// HistorySortField selects the column the history view is sorted by.
type HistorySortField string

const (
	SortByMemberName   HistorySortField = "member_name"
	SortByCheckedInAt  HistorySortField = "checked_in_at"
	SortByCheckedOutAt HistorySortField = "checked_out_at"
)

// CurrentlyActive returns the open sessions, earliest check-in first.
func (s *ReportingService) CurrentlyActive(ctx context.Context) ([]domain.Session, error) {
	open, err := s.sessions.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ReportingService.CurrentlyActive: %w", err)
	}
	return open, nil
}

// TodayArrivals returns the sessions whose check-in falls on the same UTC
// calendar day as ref.
func (s *ReportingService) TodayArrivals(ctx context.Context, ref time.Time) ([]domain.Session, error) {
	from := startOfDay(ref)
	arrivals, err := s.sessions.ListCheckedInBetween(ctx, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("service.ReportingService.TodayArrivals: %w", err)
	}
	return arrivals, nil
}

// DailyCounts resolves the named range against now and returns the dense
// daily-arrivals histogram for it.
func (s *ReportingService) DailyCounts(ctx context.Context, preset string, now time.Time) ([]DayCount, error) {
	start, end := ResolveRange(preset, now)
	return s.DailyCountsBetween(ctx, start, end)
}

// DailyCountsBetween returns the dense daily-arrivals histogram for an
// explicit start..end date window (inclusive).
func (s *ReportingService) DailyCountsBetween(ctx context.Context, start, end time.Time) ([]DayCount, error) {
	sessions, err := s.sessions.ListCheckedInBetween(ctx, startOfDay(start), startOfDay(end).AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("service.ReportingService.DailyCountsBetween: %w", err)
	}
	return DailyActiveCounts(start, end, sessions), nil
}

// MemberStats returns the member's month-to-date usage.
func (s *ReportingService) MemberStats(ctx context.Context, memberID uuid.UUID, now time.Time) (MonthStats, error) {
	sessions, err := s.sessions.ListByMemberSince(ctx, memberID, startOfMonth(now))
	if err != nil {
		return MonthStats{}, fmt.Errorf("service.ReportingService.MemberStats: %w", err)
	}
	return MonthToDateStats(sessions, now), nil
}

// History returns the filtered, sorted history view over the full session log.
func (s *ReportingService) History(ctx context.Context, memberIDs []uuid.UUID, sortBy HistorySortField, asc bool) ([]domain.Session, error) {
	sessions, err := s.sessions.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ReportingService.History: %w", err)
	}
	return HistoryView(sessions, memberIDs, sortBy, asc), nil
}

// --- pure aggregation -------------------------------------------------------

// DailyActiveCounts buckets sessions by the UTC calendar date of their
// check-in and walks every day from start to end inclusive. Days with no
// arrivals appear with count 0 — the dashboard chart needs a dense series.
//
// Bucket keys and walk keys go through the same domain.DateKey normalization;
// mixing normalizations here is how days silently vanish from the chart.
func DailyActiveCounts(start, end time.Time, sessions []domain.Session) []DayCount {
	byDay := make(map[string]int)
	for _, s := range sessions {
		byDay[domain.DateKey(s.CheckedInAt)]++
	}

	var out []DayCount
	for d := startOfDay(start); !d.After(startOfDay(end)); d = d.AddDate(0, 0, 1) {
		key := domain.DateKey(d)
		out = append(out, DayCount{Date: key, Count: byDay[key]})
	}
	return out
}

// MonthToDateStats aggregates a member's completed visits since the first of
// the current UTC month. Open sessions are excluded: a visit has no duration
// until it ends.
func MonthToDateStats(sessions []domain.Session, now time.Time) MonthStats {
	monthStart := startOfMonth(now)

	var stats MonthStats
	var totalMinutes int64
	days := make(map[string]struct{})

	for _, s := range sessions {
		if s.Open() || s.CheckedInAt.Before(monthStart) {
			continue
		}
		stats.VisitCount++
		totalMinutes += int64(s.CheckedOutAt.Sub(s.CheckedInAt) / time.Minute)
		days[domain.DateKey(s.CheckedInAt)] = struct{}{}
	}

	stats.HoursSpent = int(totalMinutes / 60)
	stats.UniqueDayCount = len(days)
	return stats
}

// HistoryView filters sessions by member and sorts them for the history
// table. An empty memberIDs set means "all members". The sort is stable, so
// ties keep their original (most recent first) order.
//
// Open sessions have no check-out; when sorting by check-out they compare as
// later than any real timestamp ("still here" outlasts everyone who left), so
// they come last ascending and first descending.
func HistoryView(sessions []domain.Session, memberIDs []uuid.UUID, sortBy HistorySortField, asc bool) []domain.Session {
	filter := make(map[uuid.UUID]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		filter[id] = struct{}{}
	}

	out := make([]domain.Session, 0, len(sessions))
	for _, s := range sessions {
		if len(filter) > 0 {
			if _, ok := filter[s.MemberID]; !ok {
				continue
			}
		}
		out = append(out, s)
	}

	less := func(a, b domain.Session) bool {
		switch sortBy {
		case SortByMemberName:
			return a.MemberName < b.MemberName
		case SortByCheckedOutAt:
			switch {
			case a.Open() && b.Open():
				return false
			case a.Open():
				return false // open sorts after any real check-out
			case b.Open():
				return true
			default:
				return a.CheckedOutAt.Before(*b.CheckedOutAt)
			}
		default:
			return a.CheckedInAt.Before(b.CheckedInAt)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if asc {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	return out
}

// ResolveRange maps a named dashboard preset to an inclusive start..end date
// window anchored at now (UTC). Unrecognized presets fall back to the
// trailing 30-day window.
//
// Presets: "7" (today−6..today), "month_to_date", "prev_month"
// (first..last day of the prior month), "30" and anything else
// (today−29..today).
func ResolveRange(preset string, now time.Time) (start, end time.Time) {
	today := startOfDay(now)

	switch preset {
	case "7":
		return today.AddDate(0, 0, -6), today
	case "month_to_date":
		return startOfMonth(now), today
	case "prev_month":
		first := startOfMonth(now).AddDate(0, -1, 0)
		last := startOfMonth(now).AddDate(0, 0, -1)
		return first, last
	default:
		return today.AddDate(0, 0, -29), today
	}
}

// startOfDay truncates t to midnight of its UTC calendar date.
func startOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// startOfMonth truncates t to midnight of the first day of its UTC month.
func startOfMonth(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}
