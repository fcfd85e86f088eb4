// Package domain contains the core data types for the presence board backend.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Member is a registered user of the workspace, identified at the door by
// their TapID (the card the reader submits on a tap).
type Member struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`

	// TapID is the card identifier submitted on a tap event.
	// Unique across all members; reassignable, but never to a value in use.
	TapID string `json:"tap_id"`

	// IncludedHours is the monthly allowance of the member's plan.
	// Informational only — nothing enforces it against actual usage.
	IncludedHours int `json:"included_hours"`

	// MemberType distinguishes subscription members ("abo") from
	// pay-per-visit members.
	MemberType string `json:"member_type"`

	// Credits is the remaining prepaid visit balance for non-subscription members.
	Credits int `json:"credits"`

	CreatedAt time.Time `json:"created_at"`
}
