package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/Jay210305/Fulbo-sub001/internal/availability"
	"github.com/Jay210305/Fulbo-sub001/internal/clock"
	"github.com/Jay210305/Fulbo-sub001/internal/config"
	"github.com/Jay210305/Fulbo-sub001/internal/database"
	"github.com/Jay210305/Fulbo-sub001/internal/handler"
	"github.com/Jay210305/Fulbo-sub001/internal/holdstore"
	"github.com/Jay210305/Fulbo-sub001/internal/middleware"
	"github.com/Jay210305/Fulbo-sub001/internal/queue"
	"github.com/Jay210305/Fulbo-sub001/internal/repository"
	"github.com/Jay210305/Fulbo-sub001/internal/router"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	commitments := repository.NewCommitmentRepo(db)
	fields := repository.NewFieldRepo(db)

	rdb := config.NewRedisClient()
	var holds availability.HoldStore
	if rdb != nil {
		holds = holdstore.NewRedisStore(rdb)
	} else {
		log.Printf("WARN: redis unavailable, using in-memory hold store")
		holds = holdstore.NewMemoryStore()
	}

	clk := clock.NewSystem()
	blockMgr := availability.NewBlockManager(commitments, fields, clk)
	holdMgr := availability.NewHoldManager(holds, commitments, fields, clk,
		availability.WithHoldTTL(time.Duration(cfg.HoldTTLMin)*time.Minute))

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterScheduleBlocks(e, handler.NewBlockHandler(blockMgr), cfg.JWTSecret, limiter)
	router.RegisterReservationHolds(e, handler.NewHoldHandler(holdMgr), cfg.JWTSecret, limiter)

	// Drains booking.confirmed into the local notification log; reconnects
	// on broker failures and never returns in normal operation.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
