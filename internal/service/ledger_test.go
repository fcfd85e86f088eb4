package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mverhoef/presenceboard/internal/domain"
	"github.com/mverhoef/presenceboard/internal/repo"
	"github.com/mverhoef/presenceboard/internal/service"
)

// mockMemberRepo is a hand-written test double for repo.MemberRepo.
// Each method is a function field — set only the ones your test needs.
// This is idiomatic Go: no mock generation library required for simple cases.
type mockMemberRepo struct {
	create               func(ctx context.Context, m domain.Member) (domain.Member, error)
	getByID              func(ctx context.Context, id uuid.UUID) (domain.Member, error)
	findByTapID          func(ctx context.Context, tapID string) (domain.Member, error)
	findByTapIDForUpdate func(ctx context.Context, tapID string) (domain.Member, error)
	list                 func(ctx context.Context) ([]domain.Member, error)
	listPaged            func(ctx context.Context, p domain.PaginationParams) ([]domain.Member, int64, error)
	update               func(ctx context.Context, m domain.Member) (domain.Member, error)
	delete               func(ctx context.Context, id uuid.UUID) error
}

func (m *mockMemberRepo) Create(ctx context.Context, mem domain.Member) (domain.Member, error) {
	return m.create(ctx, mem)
}
func (m *mockMemberRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Member, error) {
	return m.getByID(ctx, id)
}
func (m *mockMemberRepo) FindByTapID(ctx context.Context, tapID string) (domain.Member, error) {
	return m.findByTapID(ctx, tapID)
}
func (m *mockMemberRepo) FindByTapIDForUpdate(ctx context.Context, tapID string) (domain.Member, error) {
	return m.findByTapIDForUpdate(ctx, tapID)
}
func (m *mockMemberRepo) List(ctx context.Context) ([]domain.Member, error) {
	return m.list(ctx)
}
func (m *mockMemberRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Member, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockMemberRepo) Update(ctx context.Context, mem domain.Member) (domain.Member, error) {
	return m.update(ctx, mem)
}
func (m *mockMemberRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// compile-time check: mockMemberRepo must satisfy repo.MemberRepo.
var _ repo.MemberRepo = (*mockMemberRepo)(nil)

// mockSessionRepo is a hand-written test double for repo.SessionRepo.
type mockSessionRepo struct {
	insert               func(ctx context.Context, s domain.Session) (domain.Session, error)
	close                func(ctx context.Context, id uuid.UUID, out time.Time, label string) (domain.Session, error)
	delete               func(ctx context.Context, id uuid.UUID) error
	findOpenByMember     func(ctx context.Context, memberID uuid.UUID) (domain.Session, error)
	listAll              func(ctx context.Context) ([]domain.Session, error)
	listOpen             func(ctx context.Context) ([]domain.Session, error)
	listCheckedInBetween func(ctx context.Context, from, to time.Time) ([]domain.Session, error)
	listByMemberSince    func(ctx context.Context, memberID uuid.UUID, since time.Time) ([]domain.Session, error)
}

func (m *mockSessionRepo) Insert(ctx context.Context, s domain.Session) (domain.Session, error) {
	return m.insert(ctx, s)
}
func (m *mockSessionRepo) Close(ctx context.Context, id uuid.UUID, out time.Time, label string) (domain.Session, error) {
	return m.close(ctx, id, out, label)
}
func (m *mockSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockSessionRepo) FindOpenByMember(ctx context.Context, memberID uuid.UUID) (domain.Session, error) {
	return m.findOpenByMember(ctx, memberID)
}
func (m *mockSessionRepo) ListAll(ctx context.Context) ([]domain.Session, error) {
	return m.listAll(ctx)
}
func (m *mockSessionRepo) ListOpen(ctx context.Context) ([]domain.Session, error) {
	return m.listOpen(ctx)
}
func (m *mockSessionRepo) ListCheckedInBetween(ctx context.Context, from, to time.Time) ([]domain.Session, error) {
	return m.listCheckedInBetween(ctx, from, to)
}
func (m *mockSessionRepo) ListByMemberSince(ctx context.Context, memberID uuid.UUID, since time.Time) ([]domain.Session, error) {
	return m.listByMemberSince(ctx, memberID, since)
}

// compile-time check: mockSessionRepo must satisfy repo.SessionRepo.
var _ repo.SessionRepo = (*mockSessionRepo)(nil)

// fakeTxRunner hands the provided mock repos to the transition function
// without any real transaction — unit tests only exercise the ledger logic.
type fakeTxRunner struct {
	members  repo.MemberRepo
	sessions repo.SessionRepo
}

func (f *fakeTxRunner) InTx(ctx context.Context, fn func(m repo.MemberRepo, s repo.SessionRepo) error) error {
	return fn(f.members, f.sessions)
}

var _ repo.TxRunner = (*fakeTxRunner)(nil)

// ---- helpers ---------------------------------------------------------------

// memoryLedger wires a LedgerService against a tiny in-memory session log for
// one known member, so tests can run whole tap sequences.
type memoryLedger struct {
	svc      *service.LedgerService
	member   domain.Member
	sessions []domain.Session
}

func newMemoryLedger() *memoryLedger {
	ml := &memoryLedger{
		member: domain.Member{ID: uuid.New(), Name: "Ada Lovelace", TapID: "card-1"},
	}

	members := &mockMemberRepo{
		findByTapIDForUpdate: func(_ context.Context, tapID string) (domain.Member, error) {
			if tapID == ml.member.TapID {
				return ml.member, nil
			}
			return domain.Member{}, domain.ErrNotFound
		},
	}

	sessions := &mockSessionRepo{
		findOpenByMember: func(_ context.Context, memberID uuid.UUID) (domain.Session, error) {
			for _, s := range ml.sessions {
				if s.MemberID == memberID && s.Open() {
					return s, nil
				}
			}
			return domain.Session{}, domain.ErrNotFound
		},
		insert: func(_ context.Context, s domain.Session) (domain.Session, error) {
			s.ID = uuid.New()
			ml.sessions = append(ml.sessions, s)
			return s, nil
		},
		close: func(_ context.Context, id uuid.UUID, out time.Time, label string) (domain.Session, error) {
			for i := range ml.sessions {
				if ml.sessions[i].ID == id {
					t := out
					ml.sessions[i].CheckedOutAt = &t
					ml.sessions[i].DurationLabel = label
					return ml.sessions[i], nil
				}
			}
			return domain.Session{}, domain.ErrNotFound
		},
	}

	ml.svc = service.NewLedgerService(&fakeTxRunner{members: members, sessions: sessions}, sessions)
	return ml
}

// openCount returns the number of open sessions for the ledger's member.
func (ml *memoryLedger) openCount() int {
	n := 0
	for _, s := range ml.sessions {
		if s.Open() {
			n++
		}
	}
	return n
}

// ---- RecordTap tests -------------------------------------------------------

func TestLedgerService_RecordTap_Toggle(t *testing.T) {
	ml := newMemoryLedger()
	ctx := context.Background()

	in := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

	first, err := ml.svc.RecordTap(ctx, "card-1", in)
	require.NoError(t, err)
	assert.Equal(t, domain.ActionCheckedIn, first.Action)
	assert.Equal(t, "Ada Lovelace", first.MemberName)
	assert.Empty(t, first.DurationLabel)
	assert.Equal(t, 1, ml.openCount())

	second, err := ml.svc.RecordTap(ctx, "card-1", in.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, domain.ActionCheckedOut, second.Action)
	assert.Equal(t, "1h 30m", second.DurationLabel)
	assert.Equal(t, 0, ml.openCount())

	closed := ml.sessions[0]
	require.NotNil(t, closed.CheckedOutAt)
	assert.True(t, closed.CheckedOutAt.After(closed.CheckedInAt))
}

// After any sequence of taps there is never more than one open session.
func TestLedgerService_RecordTap_InvariantOverSequence(t *testing.T) {
	ml := newMemoryLedger()
	ctx := context.Background()

	at := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		_, err := ml.svc.RecordTap(ctx, "card-1", at)
		require.NoError(t, err)
		assert.LessOrEqual(t, ml.openCount(), 1, "tap %d", i)
		at = at.Add(30 * time.Minute)
	}

	// Odd number of taps ends checked in.
	assert.Equal(t, 1, ml.openCount())
	assert.Len(t, ml.sessions, 4)
}

func TestLedgerService_RecordTap_UnknownCard(t *testing.T) {
	ml := newMemoryLedger()

	_, err := ml.svc.RecordTap(context.Background(), "does-not-exist", time.Time{})

	assert.ErrorIs(t, err, domain.ErrUnknownTap)
	assert.Empty(t, ml.sessions, "no session may be created for an unknown card")
}

func TestLedgerService_RecordTap_EmptyCardID(t *testing.T) {
	ml := newMemoryLedger()

	_, err := ml.svc.RecordTap(context.Background(), "   ", time.Time{})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, ml.sessions)
}

func TestLedgerService_RecordTap_DefaultsToNow(t *testing.T) {
	ml := newMemoryLedger()

	before := time.Now().UTC()
	_, err := ml.svc.RecordTap(context.Background(), "card-1", time.Time{})
	after := time.Now().UTC()

	require.NoError(t, err)
	require.Len(t, ml.sessions, 1)
	in := ml.sessions[0].CheckedInAt
	assert.False(t, in.Before(before), "check-in should not predate the call")
	assert.False(t, in.After(after), "check-in should not postdate the call")
}

// Backdated check-outs are accepted as-is — the simulator submits them — and
// produce the floored negative label.
func TestLedgerService_RecordTap_BackdatedCheckout(t *testing.T) {
	ml := newMemoryLedger()
	ctx := context.Background()

	in := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	_, err := ml.svc.RecordTap(ctx, "card-1", in)
	require.NoError(t, err)

	result, err := ml.svc.RecordTap(ctx, "card-1", in.Add(-90*time.Minute))

	require.NoError(t, err)
	assert.Equal(t, domain.ActionCheckedOut, result.Action)
	assert.Equal(t, "-2h 30m", result.DurationLabel)
}

// ---- DeleteSession tests ---------------------------------------------------

func TestLedgerService_DeleteSession(t *testing.T) {
	var deleted uuid.UUID
	sessions := &mockSessionRepo{
		delete: func(_ context.Context, id uuid.UUID) error {
			deleted = id
			return nil
		},
	}
	svc := service.NewLedgerService(nil, sessions)

	id := uuid.New()
	require.NoError(t, svc.DeleteSession(context.Background(), id))
	assert.Equal(t, id, deleted)
}

func TestLedgerService_DeleteSession_NotFound(t *testing.T) {
	sessions := &mockSessionRepo{
		delete: func(_ context.Context, _ uuid.UUID) error {
			return domain.ErrNotFound
		},
	}
	svc := service.NewLedgerService(nil, sessions)

	err := svc.DeleteSession(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
