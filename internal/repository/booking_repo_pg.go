package repository

import (
	"context"
	"errors"

	"github.com/hansonlew0803/online-ticket-booking-system/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingRepository write methods take the caller's transaction so the row
// mutation commits together with the inventory delta. Reads go through the
// pool directly. Every lookup is scoped to the owning user; someone else's
// booking is indistinguishable from a missing one.
type BookingRepository interface {
	Create(ctx context.Context, tx DBTX, booking *domain.Booking) error
	GetByID(ctx context.Context, userID, id int64) (*domain.Booking, error)
	GetView(ctx context.Context, userID, id int64) (*domain.BookingView, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	Update(ctx context.Context, tx DBTX, booking *domain.Booking) error
	Delete(ctx context.Context, tx DBTX, userID, id int64) error
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, user_id, event_id, tickets_booked, unit_price_cents, total_price_cents, created_at, updated_at`

func (r *PGBookingRepository) Create(ctx context.Context, tx DBTX, booking *domain.Booking) error {
	return tx.QueryRow(ctx, `INSERT INTO bookings (user_id, event_id, tickets_booked, unit_price_cents, total_price_cents)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		booking.UserID, booking.EventID, booking.TicketsBooked, booking.UnitPriceCents, booking.TotalPriceCents).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, userID, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1 AND user_id=$2`, id, userID)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) GetView(ctx context.Context, userID, id int64) (*domain.BookingView, error) {
	row := r.db.QueryRow(ctx, `SELECT b.id, b.user_id, b.event_id, b.tickets_booked, b.unit_price_cents, b.total_price_cents, b.created_at, b.updated_at, e.name, e.description
		FROM bookings b
		JOIN events e ON e.id = b.event_id
		WHERE b.id=$1 AND b.user_id=$2`, id, userID)
	var v domain.BookingView
	if err := row.Scan(&v.ID, &v.UserID, &v.EventID, &v.TicketsBooked, &v.UnitPriceCents, &v.TotalPriceCents, &v.CreatedAt, &v.UpdatedAt, &v.EventName, &v.EventDescription); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.EventID, &b.TicketsBooked, &b.UnitPriceCents, &b.TotalPriceCents, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) Update(ctx context.Context, tx DBTX, booking *domain.Booking) error {
	row := tx.QueryRow(ctx, `UPDATE bookings SET tickets_booked=$3, total_price_cents=$4, updated_at=now()
		WHERE id=$1 AND user_id=$2
		RETURNING updated_at`,
		booking.ID, booking.UserID, booking.TicketsBooked, booking.TotalPriceCents)
	if err := row.Scan(&booking.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *PGBookingRepository) Delete(ctx context.Context, tx DBTX, userID, id int64) error {
	cmd, err := tx.Exec(ctx, `DELETE FROM bookings WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanBooking(row pgx.Row, b *domain.Booking) error {
	err := row.Scan(&b.ID, &b.UserID, &b.EventID, &b.TicketsBooked, &b.UnitPriceCents, &b.TotalPriceCents, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

var _ BookingRepository = (*PGBookingRepository)(nil)
