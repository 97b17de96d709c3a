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
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/formworks/payments/internal/adapter/repository"
	"github.com/formworks/payments/internal/config"
	domainRepo "github.com/formworks/payments/internal/domain/repository"
	"github.com/formworks/payments/internal/infrastructure/crypto"
	"github.com/formworks/payments/internal/infrastructure/database"
	httpServer "github.com/formworks/payments/internal/infrastructure/http"
)

func main() {
	// Load .env if present, real environments configure through files
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Service.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, logger); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations
	if err := database.Migrate(db, logger); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Stored gateway credentials are sealed when a key is configured
	cipher := crypto.NewNoopCipher()
	if cfg.Service.EncryptionKey != "" {
		cipher, err = crypto.NewAESCipher(cfg.Service.EncryptionKey)
		if err != nil {
			logger.Fatal("Failed to initialize credential cipher", zap.Error(err))
		}
	}

	// Initialize repositories
	repos := database.NewRepositories(db, cipher, logger)

	// Subscription correlations live in redis when configured so
	// multiple instances resolve the same mappings
	var correlator domainRepo.SubscriptionCorrelator
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		correlator = repository.NewRedisCorrelator(client)
		logger.Info("Using redis subscription correlator", zap.String("addr", cfg.Redis.Addr))
	} else {
		correlator = repository.NewMemoryCorrelator()
		logger.Info("Using in-memory subscription correlator")
	}

	// Initialize server
	httpSrv := httpServer.NewServer(cfg, logger, repos, correlator)

	go func() {
		if err := httpSrv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	logger.Info("Server shut down successfully")
}
