package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUnknownTap is returned by the ledger when a tap identifier resolves to
// no registered member. Handlers should map this to HTTP 404 with a
// "card not registered" message. No session state is touched.
var ErrUnknownTap = errors.New("card not registered")

// ErrDuplicateTapID is returned when creating or updating a member with a
// tap identifier already assigned to another member.
// Handlers should map this to HTTP 409 Conflict.
var ErrDuplicateTapID = errors.New("tap id already in use")
