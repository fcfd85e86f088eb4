package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TxRunner executes a function against member and session repos that share a
// single database transaction. The ledger uses it to make the tap transition
// (lock member → find open session → insert or close) atomic.
type TxRunner interface {
	// InTx begins a transaction, calls fn with repos bound to it, and commits
	// if fn returns nil. Any error from fn rolls the transaction back and is
	// returned unchanged, so sentinel errors survive for errors.Is.
	InTx(ctx context.Context, fn func(members MemberRepo, sessions SessionRepo) error) error
}

// pgTxRunner is the pgxpool-backed implementation of TxRunner.
type pgTxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner constructs a TxRunner on top of the connection pool.
func NewTxRunner(pool *pgxpool.Pool) TxRunner {
	return &pgTxRunner{pool: pool}
}

func (r *pgTxRunner) InTx(ctx context.Context, fn func(members MemberRepo, sessions SessionRepo) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.TxRunner.InTx: begin: %w", err)
	}
	// Rollback after a successful commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewMemberRepo(tx), NewSessionRepo(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.TxRunner.InTx: commit: %w", err)
	}
	return nil
}
