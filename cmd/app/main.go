package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hansonlew0803/online-ticket-booking-system/config"
	"github.com/hansonlew0803/online-ticket-booking-system/internal/bootstrap"
	"github.com/hansonlew0803/online-ticket-booking-system/internal/cache"
	"github.com/hansonlew0803/online-ticket-booking-system/internal/kafka"
	"github.com/hansonlew0803/online-ticket-booking-system/internal/ledger"
	"github.com/hansonlew0803/online-ticket-booking-system/internal/repository"
	"github.com/hansonlew0803/online-ticket-booking-system/internal/service/auth"
	"github.com/hansonlew0803/online-ticket-booking-system/internal/service/booking"
	"github.com/hansonlew0803/online-ticket-booking-system/internal/service/events"
	"github.com/jackc/pgx/v5/pgxpool"
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

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.EventsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	eventRepo := repository.NewEventRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	eventService := events.NewEventService(eventRepo, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		eventRepo,
		txRunner,
		ledger.NewLedger(),
		redisCache,
		producer,
		cfg.Kafka.BookingTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithMaxAttempts(cfg.Booking.MaxAttempts),
	)
	authService := auth.NewAuthService(
		userRepo,
		redisCache,
		cfg.Auth.Secret,
		time.Duration(cfg.Auth.AccessTTLMinutes)*time.Minute,
		cfg.Auth.BcryptCost,
	)

	if err := bootstrap.Run(ctx, cfg, authService, eventService, bookingService); err != nil {
		logrus.Fatalf("server error: %v", err)
	}
}
