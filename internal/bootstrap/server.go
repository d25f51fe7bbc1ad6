package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hansonlew0803/online-ticket-booking-system/api"
	"github.com/hansonlew0803/online-ticket-booking-system/config"
	"github.com/hansonlew0803/online-ticket-booking-system/internal/service/auth"
	"github.com/hansonlew0803/online-ticket-booking-system/internal/service/booking"
	"github.com/hansonlew0803/online-ticket-booking-system/internal/service/events"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, authSvc auth.AuthUseCase, eventSvc events.EventUseCase, bookingSvc booking.BookingUseCase) error {
	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(cfg, authSvc, eventSvc, bookingSvc),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func newRouter(cfg *config.Config, authSvc auth.AuthUseCase, eventSvc events.EventUseCase, bookingSvc booking.BookingUseCase) http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	api.NewAuthHandler(authSvc).Register(router.Group("/api"))

	protected := router.Group("/api", api.AuthRequired(authSvc))
	api.NewEventHandler(eventSvc).Register(protected.Group("/events"))
	api.NewBookingHandler(bookingSvc).Register(protected.Group("/bookings"))

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs/*any", gin.WrapH(http.StripPrefix("/docs",
			httpSwagger.Handler(httpSwagger.URL("/swagger/bookings.swagger.json")))))
	}

	return router
}
