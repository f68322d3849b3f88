package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/ankitaduttagupta/ticketing-service/internal/catalog"
	"github.com/ankitaduttagupta/ticketing-service/internal/config"
	"github.com/ankitaduttagupta/ticketing-service/internal/database"
	"github.com/ankitaduttagupta/ticketing-service/internal/handler"
	"github.com/ankitaduttagupta/ticketing-service/internal/queue"
	"github.com/ankitaduttagupta/ticketing-service/internal/repository"
	"github.com/ankitaduttagupta/ticketing-service/internal/reservation"
	"github.com/ankitaduttagupta/ticketing-service/internal/router"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("info: .env not found; using defaults/env")
	}

	cfg := config.Load()
	rlCfg := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()
	resCfg := config.LoadReservationConfig()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("mysql: connect failed: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Fatal("redis: connect failed; the reservation core cannot run without a store")
	}
	defer rdb.Close()

	users := repository.NewUserRepo(db)
	cat := catalog.NewRepo(db, rdb)
	api := reservation.NewAPI(rdb)
	coord := reservation.NewCoordinator(api, &reservation.StaticPaymentClient{}, cat.UnitPriceCents(context.Background()))
	coord.LeaseSeconds = resCfg.LeaseSeconds

	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	if len(resCfg.SweepClassIDs) > 0 {
		sweeper := reservation.NewSweeper(api, rdb, resCfg.SweepClassIDs)
		sweeper.Interval = resCfg.SweepInterval
		sweeper.Batch = resCfg.SweepBatch
		sweeper.Start(sweepCtx)
		log.Printf("sweeper: watching classes %v every %s", resCfg.SweepClassIDs, resCfg.SweepInterval)
	} else {
		log.Println("sweeper: no RESERVATION_SWEEP_CLASSES configured, expired leases will not be reclaimed automatically")
	}

	go func() {
		if err := queue.StartSoldConsumer(); err != nil {
			log.Printf("sold-consumer: stopped: %v", err)
		}
	}()

	authHandler := handler.NewAuthHandler(cfg, users)
	healthHandler := handler.NewHealthHandler(rdb)
	reservationHandler := handler.NewReservationHandler(coord, api, cat)

	e := echo.New()
	router.RegisterRoutes(e, router.Deps{
		JWTSecret:   cfg.JWTSecret,
		Auth:        authHandler,
		Health:      healthHandler,
		Reservation: reservationHandler,
		Rdb:         rdb,
		RateLimit:   rlCfg,
		Cache:       cacheCfg,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{Addr: addr, Handler: e}

	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	// Stop the sweeper goroutines before closing Redis so an in-flight
	// reclaim never writes to a closed connection.
	cancelSweep()
	time.Sleep(100 * time.Millisecond)
}
