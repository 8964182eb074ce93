package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-seat-reservation/internal/clock"
	"github.com/iliyamo/flight-seat-reservation/internal/config"
	"github.com/iliyamo/flight-seat-reservation/internal/database"
	"github.com/iliyamo/flight-seat-reservation/internal/engine"
	"github.com/iliyamo/flight-seat-reservation/internal/handler"
	"github.com/iliyamo/flight-seat-reservation/internal/middleware"
	"github.com/iliyamo/flight-seat-reservation/internal/queue"
	"github.com/iliyamo/flight-seat-reservation/internal/repository"
	"github.com/iliyamo/flight-seat-reservation/internal/router"
	"github.com/iliyamo/flight-seat-reservation/internal/schedule"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	flightRepo := repository.NewFlightRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	fareRepo := repository.NewFareRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	// nil rng means the engine seeds its own source.
	eng := engine.New(flightRepo, seatRepo, bookingRepo, fareRepo,
		schedule.NewSimulated(), clock.NewSystem(), nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Market simulator: drifts demand and fares on every tick.
	sim := engine.NewSimulator(eng, time.Duration(cfg.SimTickSeconds)*time.Second,
		log.New(os.Stdout, "simulator ", log.LstdFlags))
	go sim.Run(ctx)

	// Booking confirmation consumer; reconnects on its own.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("rabbitmq consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	// Redis backs the rate limiter and the short-lived quote cache.
	rdb := config.NewRedisClient()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	quoteCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, userRepo, tokenRepo), cfg.JWTSecret)
	router.RegisterMarket(e, handler.NewFlightHandler(eng), quoteCache)
	router.RegisterBookings(e, handler.NewBookingHandler(eng, flightRepo), cfg.JWTSecret)

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = e.Shutdown(shutCtx)
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Printf("server stopped: %v", err)
	}
}
