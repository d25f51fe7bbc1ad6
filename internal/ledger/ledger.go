package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/hansonlew0803/online-ticket-booking-system/internal/domain"
	"github.com/hansonlew0803/online-ticket-booking-system/internal/repository"
	"github.com/jackc/pgx/v5"
)

// Result is the event's inventory state after a committed delta.
type Result struct {
	NewAvailable int
	NewVersion   int64
}

// Ledger applies a signed ticket delta to an event's available count under
// optimistic concurrency control. Negative delta reserves tickets, positive
// releases them. Releases are not capacity-bounded. The ledger never retries:
// on domain.ErrVersionConflict the caller re-reads the event and retries the
// whole operation.
type Ledger interface {
	Apply(ctx context.Context, tx repository.DBTX, eventID int64, delta int, expectedVersion int64) (Result, error)
}

type PGLedger struct{}

func NewLedger() Ledger {
	return &PGLedger{}
}

func (l *PGLedger) Apply(ctx context.Context, tx repository.DBTX, eventID int64, delta int, expectedVersion int64) (Result, error) {
	var (
		available int
		version   int64
	)
	err := tx.QueryRow(ctx, `SELECT total_tickets, version FROM events WHERE id=$1`, eventID).Scan(&available, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return Result{}, domain.ErrNotFound
	}
	if err != nil {
		return Result{}, fmt.Errorf("read event inventory: %w", err)
	}

	if version != expectedVersion {
		return Result{}, domain.ErrVersionConflict
	}
	if delta < 0 && available < -delta {
		return Result{}, domain.ErrInsufficientTickets
	}

	// The WHERE clause re-checks both preconditions: a writer committing
	// between the read above and this statement can neither be lost nor
	// oversell the event.
	cmd, err := tx.Exec(ctx, `UPDATE events
		SET total_tickets = total_tickets + $2, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $3 AND total_tickets + $2 >= 0`,
		eventID, delta, expectedVersion)
	if err != nil {
		return Result{}, fmt.Errorf("apply inventory delta: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return Result{}, domain.ErrVersionConflict
	}

	return Result{NewAvailable: available + delta, NewVersion: expectedVersion + 1}, nil
}

var _ Ledger = (*PGLedger)(nil)
