// Package handler implements the HTTP handlers for the presence board API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (tap.go, member.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mverhoef/presenceboard/internal/domain"
	"github.com/mverhoef/presenceboard/internal/service"
)

// LedgerServicer defines the ledger operations the tap and session handlers
// depend on. Defining the interface here (in the consumer package) follows
// the Go convention: "accept interfaces, return concrete types". It lets
// handler tests inject a mock without touching the database or service layer.
type LedgerServicer interface {
	RecordTap(ctx context.Context, tapID string, occurredAt time.Time) (domain.TapResult, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
}

// MemberServicer defines the registry operations the member handler depends on.
type MemberServicer interface {
	Create(ctx context.Context, m domain.Member) (domain.Member, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Member, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Member, int64, error)
	Update(ctx context.Context, m domain.Member) (domain.Member, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReportingServicer defines the read-only dashboard views the session and
// report handlers depend on.
type ReportingServicer interface {
	CurrentlyActive(ctx context.Context) ([]domain.Session, error)
	TodayArrivals(ctx context.Context, ref time.Time) ([]domain.Session, error)
	DailyCounts(ctx context.Context, preset string, now time.Time) ([]service.DayCount, error)
	DailyCountsBetween(ctx context.Context, start, end time.Time) ([]service.DayCount, error)
	MemberStats(ctx context.Context, memberID uuid.UUID, now time.Time) (service.MonthStats, error)
	History(ctx context.Context, memberIDs []uuid.UUID, sortBy service.HistorySortField, asc bool) ([]domain.Session, error)
}

// Server holds the handler dependencies for all API endpoints.
// Mount its Routes() on the router in main.go.
type Server struct {
	ledger    LedgerServicer
	members   MemberServicer
	reporting ReportingServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(ledger LedgerServicer, members MemberServicer, reporting ReportingServicer) *Server {
	return &Server{ledger: ledger, members: members, reporting: reporting}
}

// Routes returns the full API routing table under /api.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.GetHealth)

		r.Post("/checkin", s.PostCheckin)

		r.Route("/members", func(r chi.Router) {
			r.Get("/", s.ListMembers)
			r.Post("/", s.CreateMember)
			r.Get("/{id}", s.GetMember)
			r.Put("/{id}", s.UpdateMember)
			r.Delete("/{id}", s.DeleteMember)
			r.Get("/{id}/stats", s.GetMemberStats)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", s.ListSessions)
			r.Get("/active", s.ListActiveSessions)
			r.Get("/today", s.ListTodaySessions)
			r.Delete("/{id}", s.DeleteSession)
		})

		r.Get("/reports/daily", s.GetDailyCounts)
	})

	return r
}

// pathID parses the {id} URL parameter as a UUID.
func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}
