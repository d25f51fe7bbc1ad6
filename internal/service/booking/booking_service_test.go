package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hansonlew0803/online-ticket-booking-system/internal/domain"
	"github.com/hansonlew0803/online-ticket-booking-system/internal/ledger"
	"github.com/hansonlew0803/online-ticket-booking-system/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, tx repository.DBTX, booking *domain.Booking) error {
	args := m.Called(ctx, tx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, userID, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetView(ctx context.Context, userID, id int64) (*domain.BookingView, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingView), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Update(ctx context.Context, tx repository.DBTX, booking *domain.Booking) error {
	args := m.Called(ctx, tx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) Delete(ctx context.Context, tx repository.DBTX, userID, id int64) error {
	args := m.Called(ctx, tx, userID, id)
	return args.Error(0)
}

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) List(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) Update(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Apply(ctx context.Context, tx repository.DBTX, eventID int64, delta int, expectedVersion int64) (ledger.Result, error) {
	args := m.Called(ctx, tx, eventID, delta, expectedVersion)
	return args.Get(0).(ledger.Result), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) InvalidateEvents(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

// stubTxRunner runs the callback directly so the ledger and repository mocks
// see the same flow the real pgx transaction would drive.
type stubTxRunner struct {
	beginErr error
}

func (s stubTxRunner) WithinTx(ctx context.Context, fn func(tx repository.DBTX) error) error {
	if s.beginErr != nil {
		return s.beginErr
	}
	return fn(nil)
}

func newTestService(bookings *MockBookingRepository, events *MockEventRepository, ldgr *MockLedger, cache *MockCache, producer *MockProducer) *BookingService {
	return &BookingService{
		bookings:     bookings,
		events:       events,
		txr:          stubTxRunner{},
		ledger:       ldgr,
		cache:        cache,
		producer:     producer,
		bookingTopic: "booking_topic",
		maxAttempts:  3,
	}
}

func TestBookingService_CreateBooking_Success(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockEvents := &MockEventRepository{}
	mockLedger := &MockLedger{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}
	service := newTestService(mockBookings, mockEvents, mockLedger, mockCache, mockProducer)

	ctx := context.Background()
	event := &domain.Event{ID: 5, TotalTickets: 10, TicketPriceCents: 10000, Version: 3}

	mockEvents.On("GetByID", ctx, int64(5)).Return(event, nil).Once()
	mockLedger.On("Apply", ctx, nil, int64(5), -2, int64(3)).
		Return(ledger.Result{NewAvailable: 8, NewVersion: 4}, nil).Once()
	mockBookings.On("Create", ctx, nil, mock.AnythingOfType("*domain.Booking")).
		Run(func(args mock.Arguments) {
			args.Get(2).(*domain.Booking).ID = 42
		}).Return(nil).Once()
	mockCache.On("InvalidateEvents", ctx).Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking_topic", "42", mock.Anything).Return(nil).Once()

	booking, err := service.CreateBooking(ctx, 7, CreateBookingInput{EventID: 5, Tickets: 2})

	assert.NoError(t, err)
	assert.NotNil(t, booking)
	assert.Equal(t, int64(7), booking.UserID)
	assert.Equal(t, 2, booking.TicketsBooked)
	assert.Equal(t, int64(10000), booking.UnitPriceCents)
	assert.Equal(t, int64(20000), booking.TotalPriceCents)

	mockEvents.AssertExpectations(t)
	mockLedger.AssertExpectations(t)
	mockBookings.AssertExpectations(t)
	mockCache.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_CreateBooking_ValidationErrors(t *testing.T) {
	service := newTestService(&MockBookingRepository{}, &MockEventRepository{}, &MockLedger{}, &MockCache{}, &MockProducer{})
	ctx := context.Background()

	testCases := []struct {
		name    string
		tickets int
	}{
		{name: "zero tickets", tickets: 0},
		{name: "negative tickets", tickets: -3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			booking, err := service.CreateBooking(ctx, 7, CreateBookingInput{EventID: 5, Tickets: tc.tickets})
			assert.Error(t, err)
			assert.Nil(t, booking)
			assert.Equal(t, "tickets_booked must be positive", err.Error())
		})
	}
}

func TestBookingService_CreateBooking_EventNotFound(t *testing.T) {
	mockEvents := &MockEventRepository{}
	service := newTestService(&MockBookingRepository{}, mockEvents, &MockLedger{}, &MockCache{}, &MockProducer{})
	ctx := context.Background()

	mockEvents.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrNotFound).Once()

	booking, err := service.CreateBooking(ctx, 7, CreateBookingInput{EventID: 99, Tickets: 2})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, booking)
	mockEvents.AssertExpectations(t)
}

func TestBookingService_CreateBooking_InsufficientTickets(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockEvents := &MockEventRepository{}
	mockLedger := &MockLedger{}
	service := newTestService(mockBookings, mockEvents, mockLedger, &MockCache{}, &MockProducer{})

	ctx := context.Background()
	event := &domain.Event{ID: 5, TotalTickets: 1, TicketPriceCents: 10000, Version: 3}

	mockEvents.On("GetByID", ctx, int64(5)).Return(event, nil).Once()
	mockLedger.On("Apply", ctx, nil, int64(5), -3, int64(3)).
		Return(ledger.Result{}, domain.ErrInsufficientTickets).Once()

	booking, err := service.CreateBooking(ctx, 7, CreateBookingInput{EventID: 5, Tickets: 3})

	assert.ErrorIs(t, err, domain.ErrInsufficientTickets)
	assert.Nil(t, booking)
	mockBookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	mockEvents.AssertExpectations(t)
	mockLedger.AssertExpectations(t)
}

func TestBookingService_CreateBooking_ConflictRetriesThenSucceeds(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockEvents := &MockEventRepository{}
	mockLedger := &MockLedger{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}
	service := newTestService(mockBookings, mockEvents, mockLedger, mockCache, mockProducer)

	ctx := context.Background()
	stale := &domain.Event{ID: 5, TotalTickets: 10, TicketPriceCents: 10000, Version: 3}
	fresh := &domain.Event{ID: 5, TotalTickets: 8, TicketPriceCents: 10000, Version: 4}

	// First attempt loses the race; the retry re-reads and applies once.
	mockEvents.On("GetByID", ctx, int64(5)).Return(stale, nil).Once()
	mockLedger.On("Apply", ctx, nil, int64(5), -2, int64(3)).
		Return(ledger.Result{}, domain.ErrVersionConflict).Once()
	mockEvents.On("GetByID", ctx, int64(5)).Return(fresh, nil).Once()
	mockLedger.On("Apply", ctx, nil, int64(5), -2, int64(4)).
		Return(ledger.Result{NewAvailable: 6, NewVersion: 5}, nil).Once()
	mockBookings.On("Create", ctx, nil, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	mockCache.On("InvalidateEvents", ctx).Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking_topic", mock.Anything, mock.Anything).Return(nil).Once()

	booking, err := service.CreateBooking(ctx, 7, CreateBookingInput{EventID: 5, Tickets: 2})

	assert.NoError(t, err)
	assert.NotNil(t, booking)
	mockBookings.AssertNumberOfCalls(t, "Create", 1)
	mockEvents.AssertExpectations(t)
	mockLedger.AssertExpectations(t)
}

func TestBookingService_CreateBooking_ConflictExhaustsRetries(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockEvents := &MockEventRepository{}
	mockLedger := &MockLedger{}
	service := newTestService(mockBookings, mockEvents, mockLedger, &MockCache{}, &MockProducer{})

	ctx := context.Background()
	event := &domain.Event{ID: 5, TotalTickets: 10, TicketPriceCents: 10000, Version: 3}

	mockEvents.On("GetByID", ctx, int64(5)).Return(event, nil).Times(3)
	mockLedger.On("Apply", ctx, nil, int64(5), -2, int64(3)).
		Return(ledger.Result{}, domain.ErrVersionConflict).Times(3)

	booking, err := service.CreateBooking(ctx, 7, CreateBookingInput{EventID: 5, Tickets: 2})

	assert.ErrorIs(t, err, domain.ErrVersionConflict)
	assert.Nil(t, booking)
	mockBookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	mockEvents.AssertExpectations(t)
	mockLedger.AssertExpectations(t)
}

func TestBookingService_UpdateBooking_PricePinnedToSnapshot(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockEvents := &MockEventRepository{}
	mockLedger := &MockLedger{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}
	service := newTestService(mockBookings, mockEvents, mockLedger, mockCache, mockProducer)

	ctx := context.Background()
	existing := &domain.Booking{ID: 42, UserID: 7, EventID: 5, TicketsBooked: 2, UnitPriceCents: 10000, TotalPriceCents: 20000}
	// Event price changed since booking time; it must not affect the total.
	event := &domain.Event{ID: 5, TotalTickets: 10, TicketPriceCents: 15000, Version: 6}

	mockBookings.On("GetByID", ctx, int64(7), int64(42)).Return(existing, nil).Once()
	mockEvents.On("GetByID", ctx, int64(5)).Return(event, nil).Once()
	mockLedger.On("Apply", ctx, nil, int64(5), -2, int64(6)).
		Return(ledger.Result{NewAvailable: 8, NewVersion: 7}, nil).Once()
	mockBookings.On("Update", ctx, nil, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	mockCache.On("InvalidateEvents", ctx).Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking_topic", "42", mock.Anything).Return(nil).Once()

	updated, err := service.UpdateBooking(ctx, 7, 42, 4)

	assert.NoError(t, err)
	assert.Equal(t, 4, updated.TicketsBooked)
	assert.Equal(t, int64(10000), updated.UnitPriceCents)
	assert.Equal(t, int64(40000), updated.TotalPriceCents)

	mockBookings.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
	mockLedger.AssertExpectations(t)
}

func TestBookingService_UpdateBooking_DecreaseReleasesTickets(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockEvents := &MockEventRepository{}
	mockLedger := &MockLedger{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}
	service := newTestService(mockBookings, mockEvents, mockLedger, mockCache, mockProducer)

	ctx := context.Background()
	existing := &domain.Booking{ID: 42, UserID: 7, EventID: 5, TicketsBooked: 5, UnitPriceCents: 10000}
	event := &domain.Event{ID: 5, TotalTickets: 0, TicketPriceCents: 10000, Version: 9}

	mockBookings.On("GetByID", ctx, int64(7), int64(42)).Return(existing, nil).Once()
	mockEvents.On("GetByID", ctx, int64(5)).Return(event, nil).Once()
	mockLedger.On("Apply", ctx, nil, int64(5), 3, int64(9)).
		Return(ledger.Result{NewAvailable: 3, NewVersion: 10}, nil).Once()
	mockBookings.On("Update", ctx, nil, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	mockCache.On("InvalidateEvents", ctx).Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking_topic", "42", mock.Anything).Return(nil).Once()

	updated, err := service.UpdateBooking(ctx, 7, 42, 2)

	assert.NoError(t, err)
	assert.Equal(t, 2, updated.TicketsBooked)
	assert.Equal(t, int64(20000), updated.TotalPriceCents)
	mockLedger.AssertExpectations(t)
}

func TestBookingService_UpdateBooking_InsufficientTickets(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockEvents := &MockEventRepository{}
	mockLedger := &MockLedger{}
	service := newTestService(mockBookings, mockEvents, mockLedger, &MockCache{}, &MockProducer{})

	ctx := context.Background()
	existing := &domain.Booking{ID: 42, UserID: 7, EventID: 5, TicketsBooked: 2, UnitPriceCents: 10000}
	event := &domain.Event{ID: 5, TotalTickets: 1, TicketPriceCents: 10000, Version: 6}

	mockBookings.On("GetByID", ctx, int64(7), int64(42)).Return(existing, nil).Once()
	mockEvents.On("GetByID", ctx, int64(5)).Return(event, nil).Once()
	mockLedger.On("Apply", ctx, nil, int64(5), -3, int64(6)).
		Return(ledger.Result{}, domain.ErrInsufficientTickets).Once()

	updated, err := service.UpdateBooking(ctx, 7, 42, 5)

	assert.ErrorIs(t, err, domain.ErrInsufficientTickets)
	assert.Nil(t, updated)
	mockBookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_UpdateBooking_NotOwned(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	service := newTestService(mockBookings, &MockEventRepository{}, &MockLedger{}, &MockCache{}, &MockProducer{})

	ctx := context.Background()
	mockBookings.On("GetByID", ctx, int64(8), int64(42)).Return(nil, domain.ErrNotFound).Once()

	updated, err := service.UpdateBooking(ctx, 8, 42, 3)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, updated)
	mockBookings.AssertExpectations(t)
}

func TestBookingService_CancelBooking_RestoresInventory(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockEvents := &MockEventRepository{}
	mockLedger := &MockLedger{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}
	service := newTestService(mockBookings, mockEvents, mockLedger, mockCache, mockProducer)

	ctx := context.Background()
	existing := &domain.Booking{ID: 42, UserID: 7, EventID: 5, TicketsBooked: 3, UnitPriceCents: 10000}
	event := &domain.Event{ID: 5, TotalTickets: 2, TicketPriceCents: 10000, Version: 11}

	mockBookings.On("GetByID", ctx, int64(7), int64(42)).Return(existing, nil).Once()
	mockEvents.On("GetByID", ctx, int64(5)).Return(event, nil).Once()
	mockLedger.On("Apply", ctx, nil, int64(5), 3, int64(11)).
		Return(ledger.Result{NewAvailable: 5, NewVersion: 12}, nil).Once()
	mockBookings.On("Delete", ctx, nil, int64(7), int64(42)).Return(nil).Once()
	mockCache.On("InvalidateEvents", ctx).Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking_topic", "42", mock.Anything).Return(nil).Once()

	err := service.CancelBooking(ctx, 7, 42)

	assert.NoError(t, err)
	mockBookings.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
	mockLedger.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_CancelBooking_NotFound(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	service := newTestService(mockBookings, &MockEventRepository{}, &MockLedger{}, &MockCache{}, &MockProducer{})

	ctx := context.Background()
	mockBookings.On("GetByID", ctx, int64(7), int64(404)).Return(nil, domain.ErrNotFound).Once()

	err := service.CancelBooking(ctx, 7, 404)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	mockBookings.AssertExpectations(t)
}

func TestBookingService_GetBooking(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	service := newTestService(mockBookings, &MockEventRepository{}, &MockLedger{}, &MockCache{}, &MockProducer{})

	ctx := context.Background()
	view := &domain.BookingView{
		Booking:          domain.Booking{ID: 42, UserID: 7, EventID: 5, TicketsBooked: 2, UnitPriceCents: 10000, TotalPriceCents: 20000},
		EventName:        "Concert",
		EventDescription: "Concert Details",
	}
	mockBookings.On("GetView", ctx, int64(7), int64(42)).Return(view, nil).Once()

	got, err := service.GetBooking(ctx, 7, 42)

	assert.NoError(t, err)
	assert.Equal(t, "Concert", got.EventName)
	assert.Equal(t, got.TotalPriceCents, got.UnitPriceCents*int64(got.TicketsBooked))
	mockBookings.AssertExpectations(t)
}

func TestBookingService_ListBookings(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	service := newTestService(mockBookings, &MockEventRepository{}, &MockLedger{}, &MockCache{}, &MockProducer{})

	ctx := context.Background()
	bookings := []domain.Booking{
		{ID: 1, UserID: 7, EventID: 5, TicketsBooked: 2},
		{ID: 2, UserID: 7, EventID: 6, TicketsBooked: 1},
	}
	mockBookings.On("ListByUser", ctx, int64(7)).Return(bookings, nil).Once()

	got, err := service.ListBookings(ctx, 7)

	assert.NoError(t, err)
	assert.Len(t, got, 2)
	mockBookings.AssertExpectations(t)
}

func TestBookingService_Publish_NoProducer(t *testing.T) {
	service := newTestService(&MockBookingRepository{}, &MockEventRepository{}, &MockLedger{}, &MockCache{}, &MockProducer{})
	service.producer = nil

	// Must not panic without a producer wired.
	service.publish(context.Background(), "booking_created", &domain.Booking{ID: 1})
}

func TestBookingService_Publish_WithNotifications(t *testing.T) {
	mockProducer := &MockProducer{}
	service := newTestService(&MockBookingRepository{}, &MockEventRepository{}, &MockLedger{}, &MockCache{}, mockProducer)
	service.notificationsTopic = "notifications_topic"

	ctx := context.Background()
	mockProducer.On("Publish", ctx, "booking_topic", "42", mock.Anything).Return(nil).Once()
	mockProducer.On("Publish", ctx, "notifications_topic", "42", mock.Anything).Return(nil).Once()

	service.publish(ctx, "booking_created", &domain.Booking{ID: 42, UserID: 7})

	mockProducer.AssertExpectations(t)
}

func TestBookingService_PublishFailureDoesNotFailBooking(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockEvents := &MockEventRepository{}
	mockLedger := &MockLedger{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}
	service := newTestService(mockBookings, mockEvents, mockLedger, mockCache, mockProducer)

	ctx := context.Background()
	event := &domain.Event{ID: 5, TotalTickets: 10, TicketPriceCents: 10000, Version: 3}

	mockEvents.On("GetByID", ctx, int64(5)).Return(event, nil).Once()
	mockLedger.On("Apply", ctx, nil, int64(5), -1, int64(3)).
		Return(ledger.Result{NewAvailable: 9, NewVersion: 4}, nil).Once()
	mockBookings.On("Create", ctx, nil, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	mockCache.On("InvalidateEvents", ctx).Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking_topic", mock.Anything, mock.Anything).
		Return(errors.New("kafka unavailable")).Once()

	booking, err := service.CreateBooking(ctx, 7, CreateBookingInput{EventID: 5, Tickets: 1})

	assert.NoError(t, err)
	assert.NotNil(t, booking)
	mockProducer.AssertExpectations(t)
}

func TestNewBookingService_WithOptions(t *testing.T) {
	service := NewBookingService(
		&MockBookingRepository{},
		&MockEventRepository{},
		stubTxRunner{},
		&MockLedger{},
		&MockCache{},
		&MockProducer{},
		"booking_topic",
		WithNotificationsTopic("notifications_topic"),
		WithMaxAttempts(5),
	)

	assert.Equal(t, "notifications_topic", service.notificationsTopic)
	assert.Equal(t, 5, service.maxAttempts)
}

func TestBookingService_TxFailureSurfaces(t *testing.T) {
	mockEvents := &MockEventRepository{}
	service := newTestService(&MockBookingRepository{}, mockEvents, &MockLedger{}, &MockCache{}, &MockProducer{})
	service.txr = stubTxRunner{beginErr: errors.New("connection lost")}

	ctx := context.Background()
	event := &domain.Event{ID: 5, TotalTickets: 10, TicketPriceCents: 10000, Version: 3}
	mockEvents.On("GetByID", ctx, int64(5)).Return(event, nil).Once()

	booking, err := service.CreateBooking(ctx, 7, CreateBookingInput{EventID: 5, Tickets: 1})

	assert.Error(t, err)
	assert.Nil(t, booking)
}

func TestBookingService_RetryTimingIsPrompt(t *testing.T) {
	mockEvents := &MockEventRepository{}
	mockLedger := &MockLedger{}
	service := newTestService(&MockBookingRepository{}, mockEvents, mockLedger, &MockCache{}, &MockProducer{})

	ctx := context.Background()
	event := &domain.Event{ID: 5, TotalTickets: 10, TicketPriceCents: 10000, Version: 3}
	mockEvents.On("GetByID", ctx, int64(5)).Return(event, nil).Times(3)
	mockLedger.On("Apply", ctx, nil, int64(5), -1, int64(3)).
		Return(ledger.Result{}, domain.ErrVersionConflict).Times(3)

	start := time.Now()
	_, err := service.CreateBooking(ctx, 7, CreateBookingInput{EventID: 5, Tickets: 1})

	assert.ErrorIs(t, err, domain.ErrVersionConflict)
	assert.Less(t, time.Since(start), time.Second)
}
