package repository

import (
	"context"
	"errors"

	"github.com/hansonlew0803/online-ticket-booking-system/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	List(ctx context.Context) ([]domain.Event, error)
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id int64) error
}

type PGEventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) EventRepository {
	return &PGEventRepository{db: db}
}

const eventColumns = `id, name, description, start_time, end_time, total_tickets, ticket_price_cents, version, created_at, updated_at`

func (r *PGEventRepository) List(ctx context.Context) ([]domain.Event, error) {
	rows, err := r.db.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY start_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]domain.Event, 0)
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.StartTime, &e.EndTime, &e.TotalTickets, &e.TicketPriceCents, &e.Version, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *PGEventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	row := r.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id=$1`, id)
	var e domain.Event
	if err := row.Scan(&e.ID, &e.Name, &e.Description, &e.StartTime, &e.EndTime, &e.TotalTickets, &e.TicketPriceCents, &e.Version, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *PGEventRepository) Create(ctx context.Context, event *domain.Event) error {
	return r.db.QueryRow(ctx, `INSERT INTO events (name, description, start_time, end_time, total_tickets, ticket_price_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, version, created_at, updated_at`,
		event.Name, event.Description, event.StartTime, event.EndTime, event.TotalTickets, event.TicketPriceCents).
		Scan(&event.ID, &event.Version, &event.CreatedAt, &event.UpdatedAt)
}

// Update writes the display and pricing fields under the same version check
// the ledger uses. It never touches total_tickets: inventory changes go
// through the ledger only.
func (r *PGEventRepository) Update(ctx context.Context, event *domain.Event) error {
	row := r.db.QueryRow(ctx, `UPDATE events
		SET name=$2, description=$3, start_time=$4, end_time=$5, ticket_price_cents=$6, version=version+1, updated_at=now()
		WHERE id=$1 AND version=$7
		RETURNING version, updated_at`,
		event.ID, event.Name, event.Description, event.StartTime, event.EndTime, event.TicketPriceCents, event.Version)
	if err := row.Scan(&event.Version, &event.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.missingOrConflict(ctx, event.ID)
		}
		return err
	}
	return nil
}

func (r *PGEventRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGEventRepository) missingOrConflict(ctx context.Context, id int64) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id=$1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrVersionConflict
}

var _ EventRepository = (*PGEventRepository)(nil)
