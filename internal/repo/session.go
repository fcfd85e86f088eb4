package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mverhoef/presenceboard/internal/domain"
)

// SessionRepo defines the persistence operations for Sessions (visits).
type SessionRepo interface {
	// Insert creates a new open session and returns the persisted record.
	Insert(ctx context.Context, s domain.Session) (domain.Session, error)

	// Close sets the check-out time and duration label on an open session
	// and returns the updated record.
	// Returns domain.ErrNotFound if no session with that ID exists.
	Close(ctx context.Context, id uuid.UUID, checkedOutAt time.Time, durationLabel string) (domain.Session, error)

	// Delete removes a session by ID. Returns domain.ErrNotFound if it does
	// not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindOpenByMember returns the member's open session.
	// Returns domain.ErrNotFound when the member has no open session — the
	// partial unique index guarantees there is never more than one.
	FindOpenByMember(ctx context.Context, memberID uuid.UUID) (domain.Session, error)

	// ListAll returns every session ordered by checked_in_at descending.
	ListAll(ctx context.Context) ([]domain.Session, error)

	// ListOpen returns all open sessions ordered by checked_in_at ascending,
	// the order the dashboard shows current occupancy in.
	ListOpen(ctx context.Context) ([]domain.Session, error)

	// ListCheckedInBetween returns sessions with from <= checked_in_at < to,
	// ordered by checked_in_at ascending.
	ListCheckedInBetween(ctx context.Context, from, to time.Time) ([]domain.Session, error)

	// ListByMemberSince returns the member's sessions with checked_in_at >=
	// since, ordered by checked_in_at ascending.
	ListByMemberSince(ctx context.Context, memberID uuid.UUID, since time.Time) ([]domain.Session, error)
}

// pgSessionRepo is the Postgres implementation of SessionRepo.
type pgSessionRepo struct {
	db db
}

// NewSessionRepo constructs a SessionRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewSessionRepo(db db) SessionRepo {
	return &pgSessionRepo{db: db}
}

const sessionColumns = `id, member_id, member_name, checked_in_at, checked_out_at, duration_label`

func (r *pgSessionRepo) Insert(ctx context.Context, s domain.Session) (domain.Session, error) {
	const q = `
		INSERT INTO sessions (member_id, member_name, checked_in_at)
		VALUES (@member_id, @member_name, @checked_in_at)
		RETURNING ` + sessionColumns

	args := pgx.NamedArgs{
		"member_id":     s.MemberID,
		"member_name":   s.MemberName,
		"checked_in_at": s.CheckedInAt,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanSession(row)
	if err != nil {
		return domain.Session{}, fmt.Errorf("repo.SessionRepo.Insert: %w", err)
	}
	return result, nil
}

func (r *pgSessionRepo) Close(ctx context.Context, id uuid.UUID, checkedOutAt time.Time, durationLabel string) (domain.Session, error) {
	const q = `
		UPDATE sessions
		SET checked_out_at = @checked_out_at,
		    duration_label = @duration_label
		WHERE id = @id
		RETURNING ` + sessionColumns

	args := pgx.NamedArgs{
		"id":             id,
		"checked_out_at": checkedOutAt,
		"duration_label": durationLabel,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanSession(row)
	if err != nil {
		return domain.Session{}, fmt.Errorf("repo.SessionRepo.Close: %w", err)
	}
	return result, nil
}

func (r *pgSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM sessions WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.SessionRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.SessionRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgSessionRepo) FindOpenByMember(ctx context.Context, memberID uuid.UUID) (domain.Session, error) {
	const q = `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE member_id = @member_id AND checked_out_at IS NULL`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"member_id": memberID})
	result, err := scanSession(row)
	if err != nil {
		return domain.Session{}, fmt.Errorf("repo.SessionRepo.FindOpenByMember: %w", err)
	}
	return result, nil
}

func (r *pgSessionRepo) ListAll(ctx context.Context) ([]domain.Session, error) {
	const q = `SELECT ` + sessionColumns + ` FROM sessions ORDER BY checked_in_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.SessionRepo.ListAll: %w", err)
	}
	defer rows.Close()

	sessions, err := collectSessions(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.SessionRepo.ListAll: %w", err)
	}
	return sessions, nil
}

func (r *pgSessionRepo) ListOpen(ctx context.Context) ([]domain.Session, error) {
	const q = `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE checked_out_at IS NULL
		ORDER BY checked_in_at ASC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.SessionRepo.ListOpen: %w", err)
	}
	defer rows.Close()

	sessions, err := collectSessions(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.SessionRepo.ListOpen: %w", err)
	}
	return sessions, nil
}

func (r *pgSessionRepo) ListCheckedInBetween(ctx context.Context, from, to time.Time) ([]domain.Session, error) {
	const q = `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE checked_in_at >= @from AND checked_in_at < @to
		ORDER BY checked_in_at ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"from": from, "to": to})
	if err != nil {
		return nil, fmt.Errorf("repo.SessionRepo.ListCheckedInBetween: %w", err)
	}
	defer rows.Close()

	sessions, err := collectSessions(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.SessionRepo.ListCheckedInBetween: %w", err)
	}
	return sessions, nil
}

func (r *pgSessionRepo) ListByMemberSince(ctx context.Context, memberID uuid.UUID, since time.Time) ([]domain.Session, error) {
	const q = `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE member_id = @member_id AND checked_in_at >= @since
		ORDER BY checked_in_at ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"member_id": memberID, "since": since})
	if err != nil {
		return nil, fmt.Errorf("repo.SessionRepo.ListByMemberSince: %w", err)
	}
	defer rows.Close()

	sessions, err := collectSessions(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.SessionRepo.ListByMemberSince: %w", err)
	}
	return sessions, nil
}

// scanSession maps a single database row into a domain.Session.
// It handles the UUID and nullable checked_out_at conversions.
func scanSession(s scanner) (domain.Session, error) {
	var (
		sess     domain.Session
		id       pgtype.UUID
		memberID pgtype.UUID
		out      pgtype.Timestamptz
	)

	err := s.Scan(&id, &memberID, &sess.MemberName, &sess.CheckedInAt, &out, &sess.DurationLabel)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Session{}, domain.ErrNotFound
		}
		return domain.Session{}, err
	}

	sess.ID = uuid.UUID(id.Bytes)
	sess.MemberID = uuid.UUID(memberID.Bytes)
	if out.Valid {
		t := out.Time
		sess.CheckedOutAt = &t
	}

	return sess, nil
}

func collectSessions(rows pgx.Rows) ([]domain.Session, error) {
	sessions := []domain.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return sessions, nil
}
