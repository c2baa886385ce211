package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/bookit/experience-booking/internal/booking"
	"github.com/bookit/experience-booking/internal/config"
	"github.com/bookit/experience-booking/internal/database"
	"github.com/bookit/experience-booking/internal/handler"
	"github.com/bookit/experience-booking/internal/logger"
	"github.com/bookit/experience-booking/internal/middleware"
	"github.com/bookit/experience-booking/internal/queue"
	"github.com/bookit/experience-booking/internal/refgen"
	"github.com/bookit/experience-booking/internal/repository"
	"github.com/bookit/experience-booking/internal/router"
)

func main() {
	cfg := config.Load()
	lg := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("run migrations: %v", err)
	}
	lg.Info("database ready", "host", cfg.DBHost, "name", cfg.DBName)

	store := repository.NewStore(db)
	experiences := repository.NewExperienceRepo(db)
	coordinator := booking.NewCoordinator(lg, store, refgen.New(), cfg.BookingTxTimeout)

	var publisher *queue.Publisher
	if cfg.RabbitURL != "" {
		publisher = queue.NewPublisher(cfg.RabbitURL)
		go queue.StartBookingConsumer(lg, cfg.RabbitURL)
	} else {
		lg.Info("RABBITMQ_URL not set, booking events disabled")
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		lg.Info("redis unavailable, catalog response cache disabled")
	}
	cacheCfg := config.LoadCacheConfig()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	router.RegisterRoutes(e)
	bookingHandler := handler.NewBookingHandler(lg, coordinator, nil, cfg.Env)
	if publisher != nil {
		bookingHandler = handler.NewBookingHandler(lg, coordinator, publisher, cfg.Env)
	}
	lookupHandler := handler.NewBookingLookupHandler(lg, repository.NewBookingRepo(db))
	router.RegisterBooking(e, bookingHandler, lookupHandler, &handler.PromoHandler{})
	router.RegisterCatalog(e, handler.NewCatalogHandler(lg, experiences), middleware.NewRedisCache(cacheCfg, rdb))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			lg.Error("http server shutdown failed", "err", err)
		}
	}()

	addr := ":" + cfg.Port
	lg.Info("listening", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	lg.Info("server stopped gracefully")
}
