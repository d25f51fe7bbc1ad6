package email

import (
	"context"

	"github.com/hansonlew0803/online-ticket-booking-system/internal/kafka"
	"github.com/sirupsen/logrus"
)

// Sender is the notification boundary. Delivery itself is out of scope; the
// worker hands committed booking events here.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, to string, event kafka.BookingEvent) error {
	logrus.WithFields(logrus.Fields{
		"to":       to,
		"type":     event.Type,
		"booking":  event.BookingID,
		"event_id": event.EventID,
		"tickets":  event.TicketsBooked,
	}).Info("send booking notification email")
	return nil
}
