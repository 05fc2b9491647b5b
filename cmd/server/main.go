package main

import (
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/waffarshokran/backend/config"
	httpDelivery "github.com/waffarshokran/backend/internal/delivery/http"
	"github.com/waffarshokran/backend/internal/domain"
	"github.com/waffarshokran/backend/internal/infrastructure/provider"
	"github.com/waffarshokran/backend/internal/infrastructure/store"
	"github.com/waffarshokran/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := buildLogger(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting Waffar backend",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Type))

	// Initialize infrastructure dependencies
	stateStore, err := buildStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize state store", zap.Error(err))
	}

	registry := provider.NewRegistry(logger)

	// Initialize usecase layer
	orchestrator := usecase.NewOrchestrator(registry, stateStore, logger, usecase.OrchestratorConfig{
		Deadline:  cfg.Search.Deadline,
		StatusTTL: cfg.Search.StatusTTL,
	})

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(orchestrator, registry, logger)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

// buildLogger picks the zap preset for the environment.
func buildLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// buildStore creates the configured state store. Redis is the default;
// the in-memory store exists for local development and tests.
func buildStore(cfg *config.Config, logger *zap.Logger) (domain.StateStore, error) {
	if cfg.Store.Type == "memory" {
		logger.Warn("using in-memory state store; search state is not shared across instances")
		return store.NewMemory(), nil
	}
	return store.NewRedis(store.Config{
		Address:  cfg.Store.Address,
		Password: cfg.Store.Password,
		DB:       cfg.Store.DB,
	})
}
