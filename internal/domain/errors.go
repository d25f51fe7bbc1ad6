package domain

import "errors"

var (
	// ErrNotFound covers both absent records and records owned by another
	// user; the API layer reports them identically.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientTickets means the requested decrement exceeds the
	// event's available tickets. No state was changed.
	ErrInsufficientTickets = errors.New("not enough tickets available")

	// ErrVersionConflict means another writer committed between the read and
	// the conditional write. Safe to retry with a fresh read.
	ErrVersionConflict = errors.New("the record has been updated by another process")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
