package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SubhanAlom009/realtime-kanban-backend/internal/api/handlers"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/api/middleware"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/api/routes"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/domain/auditlog"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/domain/task"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/domain/user"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/infrastructure/cache"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/infrastructure/persistence/postgres/connection"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/infrastructure/persistence/postgres/migrations"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/infrastructure/realtime"
	"github.com/SubhanAlom009/realtime-kanban-backend/pkg/config"
	"github.com/SubhanAlom009/realtime-kanban-backend/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLoggerMiddleware logs all incoming HTTP requests
func RequestLoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info("Request completed",
			zap.String("path", path),
			zap.String("method", method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("") // Empty string will make it search in default locations
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	log := logger.NewLogger(cfg.Logging.Level)
	defer log.Sync()

	log.Info("Configuration loaded successfully")
	log.Info("Server mode: " + cfg.Server.Mode)

	// Set up Gin
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	gin.DefaultWriter = os.Stdout

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(RequestLoggerMiddleware(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowMethods: cfg.CORS.AllowedMethods,
		AllowHeaders: append(cfg.CORS.AllowedHeaders,
			"Accept-Encoding",
			"Content-Type",
			"Authorization",
		),
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	// Connect to database
	db, err := connection.NewDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if err := migrations.AutoMigrate(db, log.Logger); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize Redis
	redisConfig := cache.NewConfigFromEnv(cfg)
	redisClient, err := cache.NewRedisClient(redisConfig)
	if err != nil {
		// The board still works without Redis; reads skip the cache and
		// cross-instance invalidation is off.
		log.Warn("Redis unavailable, running without response cache", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// Broadcast hub for connected board clients
	hub := realtime.NewHub(16)

	// Initialize repositories
	userRepo := user.NewRepository(db)
	taskRepo := task.NewRepository(db)
	logRepo := auditlog.NewRepository(db)

	// Initialize services
	userService := user.NewService(userRepo, log.Logger)
	auditService := auditlog.NewService(logRepo, userRepo, hub, log.Logger)

	var boardPublisher task.BoardPublisher
	if redisClient != nil {
		boardPublisher = redisClient
	}
	taskService := task.NewService(taskRepo, userRepo, auditService, hub, boardPublisher, log.Logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, cfg.Auth)
	taskHandler := handlers.NewTaskHandler(taskService)
	logHandler := handlers.NewLogHandler(auditService)
	boardHandler := handlers.NewBoardHandler(hub, cfg.Auth.JWTSecret, log.Logger)

	// Cache middleware shared by the read endpoints
	cacheMiddleware := middleware.NewCacheMiddleware(redisClient, "kanban", 5*time.Minute)

	// Register routes
	routes.NewAuthRoutes(authHandler, cfg.Auth.JWTSecret).RegisterRoutes(router)
	routes.NewTaskRoutes(taskHandler, cfg.Auth.JWTSecret).RegisterRoutes(router, cacheMiddleware)
	routes.NewLogRoutes(logHandler, cfg.Auth.JWTSecret).RegisterRoutes(router)
	routes.NewBoardRoutes(boardHandler).RegisterRoutes(router)
	routes.SetupHealthRoutes(router, db, redisClient)

	for _, route := range router.Routes() {
		log.Info("Route registered",
			zap.String("method", route.Method),
			zap.String("path", route.Path),
		)
	}

	// Start server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info(fmt.Sprintf("Server starting on port %d", cfg.Server.Port))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited properly")
}
