package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-pos/internal/config"
	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/handler"
	"github.com/iliyamo/restaurant-pos/internal/middleware"
	"github.com/iliyamo/restaurant-pos/internal/queue"
	"github.com/iliyamo/restaurant-pos/internal/repository"
	"github.com/iliyamo/restaurant-pos/internal/router"
	"github.com/iliyamo/restaurant-pos/internal/split"
)

func main() {
	// Load .env when present; real deployments set env vars directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Redis backs the rate limiter, the response cache and the settings
	// lookup.  All three degrade gracefully when the client is nil.
	rdb := config.NewRedisClient()
	settings := config.NewSettings(rdb, cfg.TaxRate)

	orderRepo := repository.NewOrderRepo(db)
	checkRepo := repository.NewCheckRepo(db)
	staffRepo := repository.NewStaffRepo(db)
	sessions := split.NewStore()

	authHandler := handler.NewAuthHandler(staffRepo, cfg.JWTSecret, cfg.AccessTTLMin, cfg.BcryptCost)
	seatHandler := handler.NewSeatHandler(orderRepo, settings, cfg.StalenessWindow)
	splitHandler := handler.NewSplitHandler(orderRepo, checkRepo, sessions)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	auth := router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterOrders(auth, seatHandler, splitHandler, config.LoadCacheConfig(), rdb)

	// Audit consumer writes committed-check events to the log directory.  It
	// reconnects on its own; a broker outage never blocks the API.
	go func() {
		if err := queue.StartCheckConsumer(); err != nil {
			log.Printf("check consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
