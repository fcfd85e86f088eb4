package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mverhoef/presenceboard/internal/domain"
	"github.com/mverhoef/presenceboard/internal/handler"
	"github.com/mverhoef/presenceboard/internal/service"
)

// mockLedger is a test double for handler.LedgerServicer.
// Set only the method fields your test needs.
type mockLedger struct {
	recordTap     func(ctx context.Context, tapID string, occurredAt time.Time) (domain.TapResult, error)
	deleteSession func(ctx context.Context, id uuid.UUID) error
}

func (m *mockLedger) RecordTap(ctx context.Context, tapID string, occurredAt time.Time) (domain.TapResult, error) {
	return m.recordTap(ctx, tapID, occurredAt)
}
func (m *mockLedger) DeleteSession(ctx context.Context, id uuid.UUID) error {
	return m.deleteSession(ctx, id)
}

var _ handler.LedgerServicer = (*mockLedger)(nil)

// mockMembers is a test double for handler.MemberServicer.
type mockMembers struct {
	create    func(ctx context.Context, m domain.Member) (domain.Member, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Member, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Member, int64, error)
	update    func(ctx context.Context, m domain.Member) (domain.Member, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockMembers) Create(ctx context.Context, mem domain.Member) (domain.Member, error) {
	return m.create(ctx, mem)
}
func (m *mockMembers) GetByID(ctx context.Context, id uuid.UUID) (domain.Member, error) {
	return m.getByID(ctx, id)
}
func (m *mockMembers) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Member, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockMembers) Update(ctx context.Context, mem domain.Member) (domain.Member, error) {
	return m.update(ctx, mem)
}
func (m *mockMembers) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ handler.MemberServicer = (*mockMembers)(nil)

// mockReporting is a test double for handler.ReportingServicer.
type mockReporting struct {
	currentlyActive    func(ctx context.Context) ([]domain.Session, error)
	todayArrivals      func(ctx context.Context, ref time.Time) ([]domain.Session, error)
	dailyCounts        func(ctx context.Context, preset string, now time.Time) ([]service.DayCount, error)
	dailyCountsBetween func(ctx context.Context, start, end time.Time) ([]service.DayCount, error)
	memberStats        func(ctx context.Context, memberID uuid.UUID, now time.Time) (service.MonthStats, error)
	history            func(ctx context.Context, memberIDs []uuid.UUID, sortBy service.HistorySortField, asc bool) ([]domain.Session, error)
}

func (m *mockReporting) CurrentlyActive(ctx context.Context) ([]domain.Session, error) {
	return m.currentlyActive(ctx)
}
func (m *mockReporting) TodayArrivals(ctx context.Context, ref time.Time) ([]domain.Session, error) {
	return m.todayArrivals(ctx, ref)
}
func (m *mockReporting) DailyCounts(ctx context.Context, preset string, now time.Time) ([]service.DayCount, error) {
	return m.dailyCounts(ctx, preset, now)
}
func (m *mockReporting) DailyCountsBetween(ctx context.Context, start, end time.Time) ([]service.DayCount, error) {
	return m.dailyCountsBetween(ctx, start, end)
}
func (m *mockReporting) MemberStats(ctx context.Context, memberID uuid.UUID, now time.Time) (service.MonthStats, error) {
	return m.memberStats(ctx, memberID, now)
}
func (m *mockReporting) History(ctx context.Context, memberIDs []uuid.UUID, sortBy service.HistorySortField, asc bool) ([]domain.Session, error) {
	return m.history(ctx, memberIDs, sortBy, asc)
}

var _ handler.ReportingServicer = (*mockReporting)(nil)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mocks into its chi router,
// mirroring how main.go wires it in production. Nil mocks are fine for routes
// a test never touches.
func newHTTPHandler(ledger handler.LedgerServicer, members handler.MemberServicer, reporting handler.ReportingServicer) http.Handler {
	return handler.NewServer(ledger, members, reporting).Routes()
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeBody[T any](t *testing.T, body *bytes.Buffer) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(body).Decode(&v))
	return v
}

func memberFixture() domain.Member {
	return domain.Member{
		ID:            uuid.New(),
		Name:          "Ada Lovelace",
		Email:         "ada@example.com",
		TapID:         "card-1",
		IncludedHours: 40,
		MemberType:    "abo",
		CreatedAt:     time.Now().UTC(),
	}
}

func sessionFixture() domain.Session {
	in := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	out := in.Add(90 * time.Minute)
	return domain.Session{
		ID:            uuid.New(),
		MemberID:      uuid.New(),
		MemberName:    "Ada Lovelace",
		CheckedInAt:   in,
		CheckedOutAt:  &out,
		DurationLabel: "1h 30m",
	}
}
