package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/movie-ticket-booking/internal/config"
	"github.com/iliyamo/movie-ticket-booking/internal/database"
	"github.com/iliyamo/movie-ticket-booking/internal/handler"
	"github.com/iliyamo/movie-ticket-booking/internal/middleware"
	"github.com/iliyamo/movie-ticket-booking/internal/queue"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
	"github.com/iliyamo/movie-ticket-booking/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs rate limiting and the browse-endpoint cache; both
	// degrade to pass-through when it is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and response cache disabled")
	}
	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	respCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	movieRepo := repository.NewMovieRepo(db)
	showingRepo := repository.NewShowingRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	promoRepo := repository.NewPromotionRepo(db)
	feeRepo := repository.NewFeeRepo(db)
	cardRepo := repository.NewPaymentCardRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	catalogH := handler.NewCatalogHandler(movieRepo, showingRepo, seatRepo)
	profileH := handler.NewProfileHandler(userRepo, cardRepo)
	bookingH := handler.NewBookingHandler(seatRepo, showingRepo, bookingRepo, promoRepo, feeRepo, cardRepo, userRepo)
	adminMovieH := handler.NewAdminMovieHandler(movieRepo)
	adminShowingH := handler.NewAdminShowingHandler(movieRepo, showingRepo, seatRepo)
	adminPromoH := handler.NewAdminPromotionHandler(promoRepo)
	adminFeeH := handler.NewAdminFeeHandler(feeRepo)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(rateLimit)

	router.RegisterRoutes(e)
	router.RegisterPublic(e, catalogH, respCache)
	authed := router.RegisterCustomer(e, bookingH, profileH, cfg.JWTSecret)
	router.RegisterAuth(e, authH, authed)
	router.RegisterAdmin(e, adminMovieH, adminShowingH, adminPromoH, adminFeeH, bookingH, cfg.JWTSecret)

	// Background consumer appends confirmed bookings to an audit log.
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
