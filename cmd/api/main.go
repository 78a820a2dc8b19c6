package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/movies-backend/config"
	"github.com/dustin/movies-backend/internal/auth"
	"github.com/dustin/movies-backend/internal/cache"
	"github.com/dustin/movies-backend/internal/movie"
	"github.com/dustin/movies-backend/internal/rating"
	"github.com/dustin/movies-backend/internal/repository"
	"github.com/dustin/movies-backend/internal/worker"
	"github.com/dustin/movies-backend/pkg/database"
	"github.com/dustin/movies-backend/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration from environment variables
	cfg := config.Load()

	// Initialize logger with validation and defaults
	appLogger, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	appLogger.Info("Starting movies backend service")

	// Connect to database with validation and defaults
	db, err := database.NewConnection(&cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database: " + err.Error())
	}

	appLogger.Info("Database connection established")

	// Create tables and indexes before serving traffic
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	if err := repository.NewSchemaBootstrapper(db, appLogger).Initialize(startupCtx); err != nil {
		appLogger.Fatal("Failed to initialize database schema: " + err.Error())
	}
	cancelStartup()

	// Response cache; no-op when REDIS_ADDR is unset
	cacheStore, err := cache.New(&cfg.Cache, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize cache: " + err.Error())
	}

	// Initialize GORM-based repositories
	movieRepo := repository.NewGORMMovieRepository(db, appLogger)
	ratingRepo := repository.NewGORMRatingRepository(db, appLogger)

	// Initialize business services with dependency injection
	movieService := movie.NewService(movieRepo, ratingRepo, movie.NewValidator(), cacheStore, appLogger)
	ratingService := rating.NewService(ratingRepo, movieRepo, cacheStore, appLogger)

	// Initialize HTTP handlers
	movieHandler := movie.NewHandler(movieService)
	ratingHandler := rating.NewHandler(ratingService)

	// Initialize background worker for orphaned rating cleanup
	purgeWorker, err := worker.NewScheduledWorker(
		&cfg.Worker,
		"rating-purge",
		ratingService.PurgeOrphans,
		appLogger,
	)
	if err != nil {
		appLogger.Fatal("Failed to initialize purge worker: " + err.Error())
	}

	if err := purgeWorker.Start(); err != nil {
		appLogger.Error("Failed to start purge worker: " + err.Error())
	}

	authenticator := auth.NewAuthenticator(&cfg.JWT, appLogger)

	serverEnvironment := cfg.Server.Environment
	if serverEnvironment == "" {
		serverEnvironment = "development" // default
	}
	if serverEnvironment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup HTTP router with middleware
	router := gin.New()

	// Configure standard middleware stack
	router.Use(requestid.New())
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", auth.APIKeyHeader},
		ExposeHeaders: []string{"X-Request-ID", "Location", cache.Header},
	}))

	// Health check endpoints
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "movies-backend",
		})
	})

	router.GET("/health/detailed", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status, overall := http.StatusOK, "healthy"
		databaseStatus := "connected"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			status, overall = http.StatusServiceUnavailable, "degraded"
			databaseStatus = "unreachable"
		}

		// The API keeps serving without redis
		cacheStatus := "connected"
		if err := cacheStore.Ping(ctx); err != nil {
			cacheStatus = "unreachable"
		}

		c.JSON(status, gin.H{
			"status":       overall,
			"timestamp":    time.Now(),
			"service":      "movies-backend",
			"database":     databaseStatus,
			"cache":        cacheStatus,
			"purge_worker": purgeWorker.Status(),
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Register feature routes - each feature manages its own routes
		movieHandler.RegisterRoutes(v1, movie.Guards{
			Authenticate:  authenticator.Authenticate(),
			TrustedMember: authenticator.RequireTrustedMember(),
			Admin:         authenticator.RequireAdmin(),
			CacheRead:     cache.Middleware(cacheStore, movie.CacheTag, appLogger),
		})
		ratingHandler.RegisterRoutes(v1, authenticator.Authenticate(), authenticator.RequireUser())
	}

	// Parse server configuration with defaults
	serverPort := cfg.Server.Port
	if serverPort == "" {
		serverPort = "8080" // default
	}

	serverReadTimeout := 30 * time.Second // default
	if cfg.Server.ReadTimeout != "" {
		if duration, err := time.ParseDuration(cfg.Server.ReadTimeout); err == nil {
			serverReadTimeout = duration
		}
	}

	serverWriteTimeout := 30 * time.Second // default
	if cfg.Server.WriteTimeout != "" {
		if duration, err := time.ParseDuration(cfg.Server.WriteTimeout); err == nil {
			serverWriteTimeout = duration
		}
	}

	// Start HTTP server
	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
	}

	// Start server in goroutine for graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server: " + err.Error())
		}
	}()

	appLogger.Info("Server started successfully on port " + serverPort + " (" + serverEnvironment + " environment)")

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Stop purge worker first
	if err := purgeWorker.Stop(); err != nil {
		appLogger.Error("Error stopping purge worker: " + err.Error())
	}

	// Shutdown server with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown: " + err.Error())
	}

	if err := cacheStore.Close(); err != nil {
		appLogger.Error("Error closing cache: " + err.Error())
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	appLogger.Info("Server shutdown complete")
}
