package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/slcassoc/theatre-booking/internal/booking"
	"github.com/slcassoc/theatre-booking/internal/config"
	"github.com/slcassoc/theatre-booking/internal/database"
	"github.com/slcassoc/theatre-booking/internal/handler"
	"github.com/slcassoc/theatre-booking/internal/middleware"
	"github.com/slcassoc/theatre-booking/internal/queue"
	"github.com/slcassoc/theatre-booking/internal/repository"
	"github.com/slcassoc/theatre-booking/internal/router"
	"github.com/slcassoc/theatre-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	plays := repository.NewPlayRepo(db)
	people := repository.NewPeopleRepo(db)
	showtimes := repository.NewShowtimeRepo(db)
	claims := repository.NewSeatClaimRepo(db)
	tickets := repository.NewTicketRepo(db)
	addons := repository.NewAddonRepo(db)
	payments := repository.NewPaymentRepo(db)

	// Booking engine and its collaborators.
	notifier := service.NewTicketNotifier(cfg.AMQPURL, plays)
	engine := booking.NewEngine(claims, tickets, showtimes, notifier, booking.Policy{
		CancelCutoff: cfg.Booking.CancelCutoff,
		ExpireWindow: cfg.Booking.ExpireWindow,
	})
	reporter := booking.NewReporter(tickets, showtimes)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background workers: the expiry sweeper and the notification consumer.
	sweeper := booking.NewSweeper(engine, cfg.Booking.SweepInterval, cfg.Booking.ExpireWindow)
	go sweeper.Run(ctx)
	go queue.StartTicketConsumer(cfg.AMQPURL)

	// Redis-backed middleware; nil client disables both.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}
	mw := router.Middleware{
		Cache:     middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
		RateLimit: middleware.NewRateLimiter(config.LoadRateLimitConfig(), rdb),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, users, tokens),
		Public:    handler.NewPublicHandler(plays, people, showtimes, engine),
		Tickets:   handler.NewTicketHandler(engine, reporter, tickets),
		Payments:  handler.NewPaymentHandler(engine, payments),
		Addons:    handler.NewAddonHandler(engine, addons),
		Catalog:   handler.NewCatalogHandler(plays, people),
		Showtimes: handler.NewShowtimeHandler(showtimes, engine),
		Admin:     handler.NewAdminHandler(users, tokens, engine, reporter),
	}, mw, cfg.JWTSecret)

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
