package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/sasch040/salesacademy-sub000/cms"
	"github.com/sasch040/salesacademy-sub000/config"
	"github.com/sasch040/salesacademy-sub000/middleware"
	"github.com/sasch040/salesacademy-sub000/progress"
	"github.com/sasch040/salesacademy-sub000/routes"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize logger
	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	// CMS client and progress service
	store := cms.NewClient(cfg, logger)
	svc := progress.NewService(store, logger)

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, store, svc, cfg, logger)

	// Start server
	logger.Fatal("server stopped", zap.Error(app.Listen(":"+cfg.ServerPort)))
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
