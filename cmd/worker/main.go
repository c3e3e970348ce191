/**
 * @description
 * Worker Service Entry Point.
 * Runs the auction expiry sweep on a cron schedule so auctions close
 * at their deadline even when no request traffic arrives. A Redis
 * lease keeps concurrent workers from sweeping the same batch.
 *
 * @dependencies
 * - backend/internal/config
 * - backend/internal/db
 * - backend/internal/services
 * - github.com/robfig/cron/v3
 */

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pasarin-app/backend/internal/config"
	"github.com/pasarin-app/backend/internal/db"
	"github.com/pasarin-app/backend/internal/logger"
	"github.com/pasarin-app/backend/internal/services"
	"github.com/robfig/cron/v3"
)

func main() {
	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}
	logger.Init(cfg.Server.Env)
	defer logger.Sync()

	logger.Info("🔥 Starting Pasarin Worker...")

	// 2. Connect DBs
	pgDB, err := db.ConnectPostgres(cfg)
	if err != nil {
		logger.Fatal("Postgres connection failed: %v", err)
	}

	redisClient, err := db.ConnectRedis(cfg)
	if err != nil {
		logger.Fatal("Redis connection failed: %v", err)
	}

	// 3. Initialize Services
	auctionService := services.NewAuctionService(pgDB, redisClient)
	sweeper := services.NewSweeper(auctionService, redisClient)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Schedule Sweep
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Worker.SweepSchedule, func() {
		closed, err := sweeper.Run(ctx)
		if err != nil {
			logger.Error("Sweep failed: %v", err)
			return
		}
		if closed > 0 {
			logger.Info("Closed %d expired auctions", closed)
		}
	})
	if err != nil {
		logger.Fatal("Invalid sweep schedule %q: %v", cfg.Worker.SweepSchedule, err)
	}
	scheduler.Start()

	// 5. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	cancel()

	// Let an in-flight sweep finish before exiting.
	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(10 * time.Second):
		logger.Warn("Timed out waiting for running jobs")
	}
	logger.Info("Worker exited.")
}
