package booking

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/hansonlew0803/online-ticket-booking-system/internal/domain"
	"github.com/hansonlew0803/online-ticket-booking-system/internal/kafka"
	"github.com/hansonlew0803/online-ticket-booking-system/internal/ledger"
	"github.com/hansonlew0803/online-ticket-booking-system/internal/repository"
	"github.com/sirupsen/logrus"
)

// defaultMaxAttempts bounds whole-operation retries on version conflict.
// Conflicts are rare at booking scale, so no backoff between attempts.
const defaultMaxAttempts = 3

type BookingUseCase interface {
	CreateBooking(ctx context.Context, userID int64, input CreateBookingInput) (*domain.Booking, error)
	UpdateBooking(ctx context.Context, userID, bookingID int64, tickets int) (*domain.Booking, error)
	CancelBooking(ctx context.Context, userID, bookingID int64) error
	GetBooking(ctx context.Context, userID, bookingID int64) (*domain.BookingView, error)
	ListBookings(ctx context.Context, userID int64) ([]domain.Booking, error)
}

type Cache interface {
	InvalidateEvents(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateBookingInput struct {
	EventID int64 `json:"event_id"`
	Tickets int   `json:"tickets_booked"`
}

type BookingService struct {
	bookings           repository.BookingRepository
	events             repository.EventRepository
	txr                repository.TxRunner
	ledger             ledger.Ledger
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	maxAttempts        int
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithMaxAttempts(n int) BookingServiceOption {
	return func(s *BookingService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	events repository.EventRepository,
	txr repository.TxRunner,
	ldgr ledger.Ledger,
	cache Cache,
	producer Producer,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		events:       events,
		txr:          txr,
		ledger:       ldgr,
		cache:        cache,
		producer:     producer,
		bookingTopic: bookingTopic,
		maxAttempts:  defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking reserves tickets against the event. The inventory decrement
// and the booking insert commit as one transaction; the unit price is
// snapshotted from the event at this moment and never re-read afterwards.
func (s *BookingService) CreateBooking(ctx context.Context, userID int64, input CreateBookingInput) (*domain.Booking, error) {
	if input.Tickets <= 0 {
		return nil, errors.New("tickets_booked must be positive")
	}

	var booking *domain.Booking
	err := s.withRetry(ctx, func() error {
		event, err := s.events.GetByID(ctx, input.EventID)
		if err != nil {
			return err
		}

		b := &domain.Booking{
			UserID:          userID,
			EventID:         event.ID,
			TicketsBooked:   input.Tickets,
			UnitPriceCents:  event.TicketPriceCents,
			TotalPriceCents: event.TicketPriceCents * int64(input.Tickets),
		}
		if err := s.txr.WithinTx(ctx, func(tx repository.DBTX) error {
			if _, err := s.ledger.Apply(ctx, tx, event.ID, -input.Tickets, event.Version); err != nil {
				return err
			}
			return s.bookings.Create(ctx, tx, b)
		}); err != nil {
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateEvents(ctx)
	s.publish(ctx, "booking_created", booking)
	return booking, nil
}

// UpdateBooking changes the reserved quantity. The inventory delta is the
// signed difference against the current booking; the total is recomputed from
// the booking's pinned unit price, not the event's current price.
func (s *BookingService) UpdateBooking(ctx context.Context, userID, bookingID int64, tickets int) (*domain.Booking, error) {
	if tickets <= 0 {
		return nil, errors.New("tickets_booked must be positive")
	}

	var updated *domain.Booking
	err := s.withRetry(ctx, func() error {
		b, err := s.bookings.GetByID(ctx, userID, bookingID)
		if err != nil {
			return err
		}
		event, err := s.events.GetByID(ctx, b.EventID)
		if err != nil {
			return err
		}

		delta := -(tickets - b.TicketsBooked)
		b.TicketsBooked = tickets
		b.TotalPriceCents = b.UnitPriceCents * int64(tickets)

		if err := s.txr.WithinTx(ctx, func(tx repository.DBTX) error {
			if _, err := s.ledger.Apply(ctx, tx, event.ID, delta, event.Version); err != nil {
				return err
			}
			return s.bookings.Update(ctx, tx, b)
		}); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateEvents(ctx)
	s.publish(ctx, "booking_updated", updated)
	return updated, nil
}

// CancelBooking restores the booked tickets to the event and removes the
// booking row in one transaction. The restore path is not capacity-bounded.
func (s *BookingService) CancelBooking(ctx context.Context, userID, bookingID int64) error {
	var cancelled *domain.Booking
	err := s.withRetry(ctx, func() error {
		b, err := s.bookings.GetByID(ctx, userID, bookingID)
		if err != nil {
			return err
		}
		event, err := s.events.GetByID(ctx, b.EventID)
		if err != nil {
			return err
		}

		if err := s.txr.WithinTx(ctx, func(tx repository.DBTX) error {
			if _, err := s.ledger.Apply(ctx, tx, event.ID, b.TicketsBooked, event.Version); err != nil {
				return err
			}
			return s.bookings.Delete(ctx, tx, userID, bookingID)
		}); err != nil {
			return err
		}
		cancelled = b
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateEvents(ctx)
	s.publish(ctx, "booking_cancelled", cancelled)
	return nil
}

func (s *BookingService) GetBooking(ctx context.Context, userID, bookingID int64) (*domain.BookingView, error) {
	return s.bookings.GetView(ctx, userID, bookingID)
}

func (s *BookingService) ListBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// withRetry reruns op on version conflict. Each attempt starts from fresh
// reads, so a retry observes the post-commit state and a conflicted delta is
// applied exactly once.
func (s *BookingService) withRetry(ctx context.Context, op func() error) error {
	attempts := s.maxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}

	var err error
	for i := 0; i < attempts; i++ {
		err = op()
		if !errors.Is(err, domain.ErrVersionConflict) {
			return err
		}
		logrus.WithField("attempt", i+1).Warn("inventory version conflict, retrying")
	}
	return err
}

func (s *BookingService) invalidateEvents(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateEvents(ctx); err != nil {
		logrus.WithError(err).Warn("failed to invalidate events cache")
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, b *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:            eventType,
		BookingID:       b.ID,
		UserID:          b.UserID,
		EventID:         b.EventID,
		TicketsBooked:   b.TicketsBooked,
		UnitPriceCents:  b.UnitPriceCents,
		TotalPriceCents: b.TotalPriceCents,
		OccurredAt:      time.Now(),
	}
	key := strconv.FormatInt(b.ID, 10)
	if err := s.producer.Publish(ctx, s.bookingTopic, key, event); err != nil {
		logrus.WithError(err).Warnf("failed to publish %s event for booking %d", eventType, b.ID)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, key, event); err != nil {
			logrus.WithError(err).Warnf("failed to publish %s notification for booking %d", eventType, b.ID)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
