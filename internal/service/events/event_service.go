package events

import (
	"context"
	"errors"
	"time"

	"github.com/hansonlew0803/online-ticket-booking-system/internal/domain"
	"github.com/hansonlew0803/online-ticket-booking-system/internal/repository"
	"github.com/sirupsen/logrus"
)

const updateAttempts = 3

type EventUseCase interface {
	List(ctx context.Context) ([]domain.Event, error)
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	Create(ctx context.Context, input EventInput) (*domain.Event, error)
	Update(ctx context.Context, id int64, input EventInput) (*domain.Event, error)
	Delete(ctx context.Context, id int64) error
}

type Cache interface {
	GetEvents(ctx context.Context) ([]domain.Event, error)
	SetEvents(ctx context.Context, events []domain.Event) error
	InvalidateEvents(ctx context.Context) error
}

type EventInput struct {
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	TotalTickets     int       `json:"total_tickets"`
	TicketPriceCents int64     `json:"ticket_price_cents"`
}

type EventService struct {
	repo  repository.EventRepository
	cache Cache
}

func NewEventService(repo repository.EventRepository, cache Cache) *EventService {
	return &EventService{repo: repo, cache: cache}
}

func (s *EventService) List(ctx context.Context) ([]domain.Event, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetEvents(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetEvents(ctx, events); err != nil {
			logrus.WithError(err).Warn("failed to cache events listing")
		}
	}
	return events, nil
}

func (s *EventService) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *EventService) Create(ctx context.Context, input EventInput) (*domain.Event, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	event := &domain.Event{
		Name:             input.Name,
		Description:      input.Description,
		StartTime:        input.StartTime,
		EndTime:          input.EndTime,
		TotalTickets:     input.TotalTickets,
		TicketPriceCents: input.TicketPriceCents,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return event, nil
}

// Update rewrites display and pricing fields. TotalTickets from the input is
// ignored: the available count only moves through the inventory ledger.
// Concurrent updates lose to the version check and are retried from a fresh
// read.
func (s *EventService) Update(ctx context.Context, id int64, input EventInput) (*domain.Event, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	var updated *domain.Event
	var err error
	for i := 0; i < updateAttempts; i++ {
		var event *domain.Event
		event, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		event.Name = input.Name
		event.Description = input.Description
		event.StartTime = input.StartTime
		event.EndTime = input.EndTime
		event.TicketPriceCents = input.TicketPriceCents

		err = s.repo.Update(ctx, event)
		if err == nil {
			updated = event
			break
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return nil, err
		}
	}
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return updated, nil
}

func (s *EventService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *EventService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateEvents(ctx); err != nil {
		logrus.WithError(err).Warn("failed to invalidate events cache")
	}
}

func validate(input EventInput) error {
	if input.Name == "" {
		return errors.New("name is required")
	}
	if input.TotalTickets < 0 {
		return errors.New("total_tickets cannot be negative")
	}
	if input.TicketPriceCents < 0 {
		return errors.New("ticket_price_cents cannot be negative")
	}
	return nil
}

var _ EventUseCase = (*EventService)(nil)
