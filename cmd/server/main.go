package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/rakhadn/tiketku/internal/booking"
	"github.com/rakhadn/tiketku/internal/clock"
	"github.com/rakhadn/tiketku/internal/config"
	"github.com/rakhadn/tiketku/internal/database"
	"github.com/rakhadn/tiketku/internal/handler"
	"github.com/rakhadn/tiketku/internal/middleware"
	"github.com/rakhadn/tiketku/internal/payment"
	"github.com/rakhadn/tiketku/internal/queue"
	"github.com/rakhadn/tiketku/internal/repository"
	"github.com/rakhadn/tiketku/internal/router"
	"github.com/rakhadn/tiketku/internal/selection"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	films := repository.NewFilmRepo(db)
	shows := repository.NewShowRepo(db)
	bookings := repository.NewBookingRepo(db)

	clk := clock.NewSystem()

	bookingSvc := booking.NewService(bookings, clk,
		booking.WithMaxSeats(cfg.MaxSeats),
		booking.WithServiceFee(uint32(cfg.ServiceFee)),
		booking.WithHoldTTL(time.Duration(cfg.HoldTTLMin)*time.Minute),
	)

	// Card charges go through Stripe when a key is configured; every
	// other method (and everything in dev) uses the auto-approving stub.
	processor := payment.NewRouter(payment.NewStubProcessor())
	if cfg.StripeKey != "" {
		processor.Route(payment.MethodCreditCard, payment.NewStripeProcessor(cfg.StripeKey))
	}
	paymentSvc := payment.NewService(bookings, clk, processor)

	selStore := selection.NewStore(cfg.MaxSeats)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	browseH := &handler.BrowseHandler{Films: films, Shows: shows, Bookings: bookings, Clock: clk}
	selH := &handler.SelectionHandler{Shows: shows, Bookings: bookings, Clock: clk, Store: selStore, FeePerSeat: uint32(cfg.ServiceFee)}
	bookingH := &handler.BookingHandler{Svc: bookingSvc, Store: selStore}
	paymentH := &handler.PaymentHandler{Svc: paymentSvc, Shows: shows, Films: films}
	adminH := &handler.AdminHandler{Films: films, Shows: shows, Seed: cfg.CatalogSeed}

	rdb := config.NewRedisClient()
	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	e.Use(rateLimit)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, browseH, paymentH, cache)
	router.RegisterCustomer(e, cfg.JWTSecret, selH, bookingH, paymentH)
	router.RegisterAdmin(e, cfg.JWTSecret, adminH)

	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
