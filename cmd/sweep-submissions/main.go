package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/formworks/payments/internal/config"
	"github.com/formworks/payments/internal/infrastructure/crypto"
	"github.com/formworks/payments/internal/infrastructure/database"
)

// Flips pending submissions past their expiry to expired. Run from
// cron; the webhook path also refuses expired submissions on read, so
// sweep frequency only affects table hygiene.
func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, logger); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	repos := database.NewRepositories(db, crypto.NewNoopCipher(), logger)

	expired, err := repos.Submission.ExpireStale(context.Background(), time.Now())
	if err != nil {
		logger.Fatal("Failed to expire stale submissions", zap.Error(err))
	}

	logger.Info("Stale submission sweep completed", zap.Int64("expired", expired))
}
