package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"leads-manager/pkg/api"
	"leads-manager/pkg/clients/airtable"
	"leads-manager/pkg/config"
	"leads-manager/pkg/leadcache"
	"leads-manager/pkg/metrics"
	"leads-manager/pkg/middleware"
	"leads-manager/pkg/services"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	// Initialize configuration
	cfg := config.LoadConfig()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer logger.Sync()

	// Initialize the Airtable client; missing configuration is fatal here
	// rather than on the first request.
	airtableClient, err := airtable.NewClient(cfg, logger)
	if err != nil {
		logger.Fatal("airtable client", zap.Error(err))
	}

	// Initialize services
	cache := leadcache.New()
	leadService := services.NewLeadService(airtableClient, cache, cfg, logger)

	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create a new Gin router with default middleware
	router := gin.Default()

	router.Use(middleware.CORS())
	router.Use(middleware.AccessGate())
	router.Use(metrics.Middleware())

	// Initialize handlers
	handlers := api.NewHandlers(leadService, cfg, logger)

	// Register routes
	handlers.RegisterRoutes(router)
	handlers.RegisterWebRoutes(router)
	router.GET("/metrics", metrics.Handler())

	// Start the server
	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
