package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/hansonlew0803/online-ticket-booking-system/config"
	"github.com/hansonlew0803/online-ticket-booking-system/internal/email"
	"github.com/hansonlew0803/online-ticket-booking-system/internal/kafka"
	"github.com/hansonlew0803/online-ticket-booking-system/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logrus.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	sender := email.NewSender()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	logrus.WithField("topic", cfg.Kafka.NotificationsTopic).Info("notification worker started")

	err = consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
		var event kafka.BookingEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logrus.WithError(err).Warn("skipping undecodable booking event")
			return nil
		}

		user, err := userRepo.GetByID(ctx, event.UserID)
		if err != nil {
			logrus.WithError(err).Warnf("cannot resolve user %d for booking %d", event.UserID, event.BookingID)
			return nil
		}
		return sender.Send(ctx, user.Email, event)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logrus.Fatalf("consumer stopped: %v", err)
	}
}
