// Package service contains the business logic for the presence board API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mverhoef/presenceboard/internal/domain"
	"github.com/mverhoef/presenceboard/internal/repo"
)

// LedgerService owns the session state machine: a tap either opens a new
// session or closes the member's open one. The whole transition runs inside a
// single transaction with the member row locked, so concurrent taps of the
// same card serialize; the partial unique index on open sessions backstops
// the one-open-session-per-member rule.
type LedgerService struct {
	tx       repo.TxRunner
	sessions repo.SessionRepo
}

// NewLedgerService constructs a LedgerService. tx carries the tap transition;
// sessions serves the administrative delete outside any transaction.
func NewLedgerService(tx repo.TxRunner, sessions repo.SessionRepo) *LedgerService {
	return &LedgerService{tx: tx, sessions: sessions}
}

// RecordTap resolves tapID to a member and toggles their presence state.
// A zero occurredAt means "now"; a non-zero value lets the simulator submit
// backdated taps. Returns domain.ErrValidation for an empty tapID and
// domain.ErrUnknownTap when no member holds the card.
func (s *LedgerService) RecordTap(ctx context.Context, tapID string, occurredAt time.Time) (domain.TapResult, error) {
	tapID = strings.TrimSpace(tapID)
	if tapID == "" {
		return domain.TapResult{}, fmt.Errorf("service.LedgerService.RecordTap: %w: card id is required", domain.ErrValidation)
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	var result domain.TapResult
	err := s.tx.InTx(ctx, func(members repo.MemberRepo, sessions repo.SessionRepo) error {
		member, err := members.FindByTapIDForUpdate(ctx, tapID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("service.LedgerService.RecordTap: %w", domain.ErrUnknownTap)
			}
			return fmt.Errorf("service.LedgerService.RecordTap: %w", err)
		}

		open, err := sessions.FindOpenByMember(ctx, member.ID)
		switch {
		case err == nil:
			// Check-out path: close the open session. Backdated check-out
			// before check-in is accepted as-is.
			label := domain.DurationLabel(open.CheckedInAt, occurredAt)
			if _, err := sessions.Close(ctx, open.ID, occurredAt, label); err != nil {
				return fmt.Errorf("service.LedgerService.RecordTap: %w", err)
			}
			result = domain.TapResult{Action: domain.ActionCheckedOut, MemberName: member.Name, DurationLabel: label}
			return nil

		case errors.Is(err, domain.ErrNotFound):
			// Check-in path: open a new session with the name snapshot.
			_, err := sessions.Insert(ctx, domain.Session{
				MemberID:    member.ID,
				MemberName:  member.Name,
				CheckedInAt: occurredAt,
			})
			if err != nil {
				return fmt.Errorf("service.LedgerService.RecordTap: %w", err)
			}
			result = domain.TapResult{Action: domain.ActionCheckedIn, MemberName: member.Name}
			return nil

		default:
			return fmt.Errorf("service.LedgerService.RecordTap: %w", err)
		}
	})
	if err != nil {
		return domain.TapResult{}, err
	}
	return result, nil
}

// DeleteSession removes a session record, open or closed. Deleting an open
// session simply removes it; nothing else needs recomputation.
func (s *LedgerService) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.LedgerService.DeleteSession: %w", err)
	}
	return nil
}
