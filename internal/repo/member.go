// Package repo contains all database access logic for the presence board API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mverhoef/presenceboard/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup. It also lets the ledger run
// its tap transition against a single transaction.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// MemberRepo defines the persistence operations for Members.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type MemberRepo interface {
	// Create inserts a new member and returns the persisted record (with
	// DB-generated id and created_at populated).
	// Returns domain.ErrDuplicateTapID if the tap id is already assigned.
	Create(ctx context.Context, m domain.Member) (domain.Member, error)

	// GetByID retrieves a single member by its UUID primary key.
	// Returns domain.ErrNotFound if no member with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Member, error)

	// FindByTapID retrieves the member holding the given tap id.
	// Returns domain.ErrNotFound if no member holds it.
	FindByTapID(ctx context.Context, tapID string) (domain.Member, error)

	// FindByTapIDForUpdate is FindByTapID with a row lock. Inside a
	// transaction it serializes concurrent taps for the same member while
	// leaving taps for other members untouched.
	FindByTapIDForUpdate(ctx context.Context, tapID string) (domain.Member, error)

	// List returns all members ordered by created_at descending.
	List(ctx context.Context) ([]domain.Member, error)

	// ListPaged returns one page of members (created_at descending) and the
	// total member count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Member, int64, error)

	// Update overwrites the mutable fields of an existing member and returns
	// the updated record. Returns domain.ErrNotFound if the member does not
	// exist and domain.ErrDuplicateTapID if the new tap id is taken.
	Update(ctx context.Context, m domain.Member) (domain.Member, error)

	// Delete removes a member by ID. Returns domain.ErrNotFound if it does
	// not exist. Historical sessions are not touched.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgMemberRepo is the Postgres implementation of MemberRepo.
type pgMemberRepo struct {
	db db
}

// NewMemberRepo constructs a MemberRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewMemberRepo(db db) MemberRepo {
	return &pgMemberRepo{db: db}
}

const memberColumns = `id, name, email, tap_id, included_hours, member_type, credits, created_at`

func (r *pgMemberRepo) Create(ctx context.Context, m domain.Member) (domain.Member, error) {
	const q = `
		INSERT INTO members (name, email, tap_id, included_hours, member_type, credits)
		VALUES (@name, @email, @tap_id, @included_hours, @member_type, @credits)
		RETURNING ` + memberColumns

	args := pgx.NamedArgs{
		"name":           m.Name,
		"email":          m.Email,
		"tap_id":         m.TapID,
		"included_hours": m.IncludedHours,
		"member_type":    m.MemberType,
		"credits":        m.Credits,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanMember(row)
	if err != nil {
		return domain.Member{}, fmt.Errorf("repo.MemberRepo.Create: %w", mapUniqueViolation(err))
	}
	return result, nil
}

func (r *pgMemberRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Member, error) {
	const q = `SELECT ` + memberColumns + ` FROM members WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanMember(row)
	if err != nil {
		return domain.Member{}, fmt.Errorf("repo.MemberRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgMemberRepo) FindByTapID(ctx context.Context, tapID string) (domain.Member, error) {
	const q = `SELECT ` + memberColumns + ` FROM members WHERE tap_id = @tap_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"tap_id": tapID})
	result, err := scanMember(row)
	if err != nil {
		return domain.Member{}, fmt.Errorf("repo.MemberRepo.FindByTapID: %w", err)
	}
	return result, nil
}

// FindByTapIDForUpdate locks the member row until the surrounding transaction
// ends. Two taps of the same card therefore resolve the open session one
// after the other, never both.
func (r *pgMemberRepo) FindByTapIDForUpdate(ctx context.Context, tapID string) (domain.Member, error) {
	const q = `SELECT ` + memberColumns + ` FROM members WHERE tap_id = @tap_id FOR UPDATE`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"tap_id": tapID})
	result, err := scanMember(row)
	if err != nil {
		return domain.Member{}, fmt.Errorf("repo.MemberRepo.FindByTapIDForUpdate: %w", err)
	}
	return result, nil
}

// List returns all members, most recently registered first.
func (r *pgMemberRepo) List(ctx context.Context) ([]domain.Member, error) {
	const q = `SELECT ` + memberColumns + ` FROM members ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.MemberRepo.List: %w", err)
	}
	defer rows.Close()

	members, err := collectMembers(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.MemberRepo.List: %w", err)
	}
	return members, nil
}

func (r *pgMemberRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Member, int64, error) {
	const countQ = `SELECT count(*) FROM members`

	var total int64
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.MemberRepo.ListPaged: count: %w", err)
	}

	const q = `
		SELECT ` + memberColumns + `
		FROM members
		ORDER BY created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.MemberRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	members, err := collectMembers(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.MemberRepo.ListPaged: %w", err)
	}
	return members, total, nil
}

func (r *pgMemberRepo) Update(ctx context.Context, m domain.Member) (domain.Member, error) {
	const q = `
		UPDATE members
		SET name           = @name,
		    email          = @email,
		    tap_id         = @tap_id,
		    included_hours = @included_hours,
		    member_type    = @member_type,
		    credits        = @credits
		WHERE id = @id
		RETURNING ` + memberColumns

	args := pgx.NamedArgs{
		"id":             m.ID,
		"name":           m.Name,
		"email":          m.Email,
		"tap_id":         m.TapID,
		"included_hours": m.IncludedHours,
		"member_type":    m.MemberType,
		"credits":        m.Credits,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanMember(row)
	if err != nil {
		return domain.Member{}, fmt.Errorf("repo.MemberRepo.Update: %w", mapUniqueViolation(err))
	}
	return result, nil
}

func (r *pgMemberRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM members WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.MemberRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.MemberRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanMember maps a single database row into a domain.Member.
func scanMember(s scanner) (domain.Member, error) {
	var (
		m  domain.Member
		id pgtype.UUID
	)

	err := s.Scan(&id, &m.Name, &m.Email, &m.TapID, &m.IncludedHours, &m.MemberType, &m.Credits, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Member{}, domain.ErrNotFound
		}
		return domain.Member{}, err
	}

	m.ID = uuid.UUID(id.Bytes)
	return m, nil
}

func collectMembers(rows pgx.Rows) ([]domain.Member, error) {
	members := []domain.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return members, nil
}

// mapUniqueViolation translates a Postgres unique-violation on the tap_id
// constraint into the domain sentinel so callers can match it with errors.Is.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrDuplicateTapID
	}
	return err
}
