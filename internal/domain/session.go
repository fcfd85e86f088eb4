package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is a single visit: opened by one tap, closed by the next tap of the
// same card. CheckedOutAt is nil while the member is still present.
//
// MemberName is a snapshot of the member's name at check-in time. It is
// deliberately denormalized: history should show who was here, even if the
// member is later renamed or deleted.
type Session struct {
	ID           uuid.UUID  `json:"id"`
	MemberID     uuid.UUID  `json:"member_id"`
	MemberName   string     `json:"member_name"`
	CheckedInAt  time.Time  `json:"checked_in_at"`
	CheckedOutAt *time.Time `json:"checked_out_at,omitempty"`

	// DurationLabel is computed once at check-out and stored as-is,
	// e.g. "1h 30m". Empty while the session is open.
	DurationLabel string `json:"duration_label,omitempty"`
}

// Open reports whether the session has no recorded check-out.
func (s Session) Open() bool {
	return s.CheckedOutAt == nil
}

// TapAction is the outcome of a tap event.
type TapAction string

const (
	ActionCheckedIn  TapAction = "checked_in"
	ActionCheckedOut TapAction = "checked_out"
)

// TapResult is the caller-facing outcome of recording a tap.
// DurationLabel is set only when Action is ActionCheckedOut.
type TapResult struct {
	Action        TapAction `json:"action"`
	MemberName    string    `json:"member_name"`
	DurationLabel string    `json:"duration_label,omitempty"`
}
