package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"alfredoptarigan/resume-reviewer/internal/config"
	"alfredoptarigan/resume-reviewer/internal/handlers"
	"alfredoptarigan/resume-reviewer/internal/logging"
	"alfredoptarigan/resume-reviewer/internal/services"
	"alfredoptarigan/resume-reviewer/internal/web"
)

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 64 * 1024

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to load configuration")
	}
	logging.Init(cfg.IsProduction())
	log.Info().Str("env", cfg.Server.Env).Msg("✅ Config loaded successfully")

	// Initialize provider
	provider, err := services.NewProviderService(cfg.Provider)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize review provider")
	}
	provider = services.WithRetry(provider, cfg.Worker.RetryMaxAttempts, cfg.Worker.RetryInitialDelay)
	log.Info().Str("provider", cfg.Provider.Name).Str("model", cfg.Provider.Model).Msg("✅ Review provider initialized")

	// Initialize services
	reviewer := services.NewReviewerService(
		services.NewPDFParserService(),
		provider,
		cfg.Provider.Timeout,
	)
	uploadReader := services.NewUploadReader(cfg.Storage.MaxFileSize)

	pool := services.NewPool(reviewer, cfg.Worker.Concurrency, cfg.Worker.QueueSize)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)
	log.Info().Msg("✅ Services initialized successfully")

	reviewTimeout := cfg.ReviewTimeout()
	reviewHandler := handlers.NewReviewHandler(uploadReader, pool, reviewTimeout)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Resume Review API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: reviewTimeout + 5*time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + multipartOverhead,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     "GET,POST",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: true,
	}))

	// Routes
	handlers.SetupRoutes(app, cfg.Server.ReviewRoute, reviewHandler)
	if err := web.RegisterRoutes(app, web.PageOptions{
		ReviewRoute:    cfg.Server.ReviewRoute,
		RevealInterval: cfg.Client.RevealInterval,
		MaxFileSize:    cfg.Storage.MaxFileSize,
	}); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to register web routes")
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-quit
		log.Info().Msg("🛑 Shutting down server...")
		if err := app.ShutdownWithTimeout(reviewTimeout); err != nil {
			log.Error().Err(err).Msg("❌ Server forced to shutdown")
		}
		pool.Stop()
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info().Str("addr", addr).Str("route", cfg.Server.ReviewRoute).Msg("🚀 Server starting")

	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to start server")
	}

	<-shutdownDone
	log.Info().Msg("✅ Server stopped")
}
