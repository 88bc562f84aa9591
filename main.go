package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mancera-edu/classroom-service/internal/cache"
	"github.com/mancera-edu/classroom-service/internal/config"
	"github.com/mancera-edu/classroom-service/internal/events"
	"github.com/mancera-edu/classroom-service/internal/handlers"
	"github.com/mancera-edu/classroom-service/internal/migrations"
	"github.com/mancera-edu/classroom-service/internal/repositories/postgres"
	"github.com/mancera-edu/classroom-service/internal/services"
	"github.com/mancera-edu/classroom-service/internal/storage"
	"github.com/mancera-edu/classroom-service/internal/utils"
	"github.com/mancera-edu/classroom-service/internal/validator"
	"github.com/mancera-edu/classroom-service/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Apply migrations and seed the professor account
	if err := migrations.Run(db, slogLogger); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize Redis: sessions and the cache layer both need it
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Initialize repositories
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})

	sessions := cache.NewSessionStore(redisClient, cfg.SessionTTL)

	store, err := storage.NewLocalStore(cfg.UploadDir, cfg.MaxUploadSize)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	// Event publisher: Kafka when brokers are configured, otherwise an
	// in-process channel so single-node deployments need no broker.
	var eventPublisher events.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		eventPublisher, err = events.NewKafkaEventPublisher(cfg.KafkaBrokers, slogLogger)
		if err != nil {
			log.Fatalf("Failed to initialize Kafka publisher: %v", err)
		}
	} else {
		eventPublisher = events.NewGoChannelEventPublisher(slogLogger)
	}

	// Initialize validator
	v := validator.New()

	// Initialize services
	serviceManager := services.NewServiceManager(services.ServiceManagerConfig{
		DB:             db,
		Repo:           repo,
		Sessions:       sessions,
		Store:          store,
		EventPublisher: eventPublisher,
		Logger:         slogLogger,
		Validator:      v,
	})
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, sessions, logger)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadSize

	handlers.SetupMiddleware(router, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := serviceManager.Shutdown(ctx); err != nil {
		log.Printf("Service shutdown error: %v", err)
	}

	if err := repo.Close(); err != nil {
		log.Printf("Repository close error: %v", err)
	}

	logger.Info("Server stopped")
}
