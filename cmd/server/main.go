package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/pulzar/backend/internal/application/catalog"
	scanapp "github.com/pulzar/backend/internal/application/scan"
	tradeapp "github.com/pulzar/backend/internal/application/trade"
	"github.com/pulzar/backend/internal/infrastructure/auth"
	"github.com/pulzar/backend/internal/infrastructure/cache"
	"github.com/pulzar/backend/internal/infrastructure/config"
	"github.com/pulzar/backend/internal/infrastructure/enrichment"
	"github.com/pulzar/backend/internal/infrastructure/llm"
	"github.com/pulzar/backend/internal/infrastructure/logger"
	"github.com/pulzar/backend/internal/infrastructure/persistence"
	"github.com/pulzar/backend/internal/infrastructure/storage"
	"github.com/pulzar/backend/internal/interfaces/http/handler"
	"github.com/pulzar/backend/internal/interfaces/http/middleware"
	"github.com/pulzar/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Pulzar Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	identifierRepo := persistence.NewGormIdentifierRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	attachmentRepo := persistence.NewGormAttachmentRepository(db.DB)
	eventRepo := persistence.NewGormEventRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	// Product lookup cache: Redis when reachable, in-process otherwise
	var lookupCache enrichment.LookupCache
	redisCache, err := cache.NewRedisLookupCache(cfg.Redis, cfg.Enrichment.CacheTTL, log)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory lookup cache", zap.Error(err))
		lookupCache = cache.NewInMemoryLookupCache(cfg.Enrichment.CacheTTL)
	} else {
		lookupCache = redisCache
		defer func() {
			_ = redisCache.Close()
		}()
	}

	// Enrichment providers
	llmClient := llm.NewClient(cfg.Enrichment, log)
	openFoodFacts := enrichment.NewOpenFoodFactsClient(cfg.Enrichment, log)
	openLibrary := enrichment.NewOpenLibraryClient(cfg.Enrichment, log)
	googleBooks := enrichment.NewGoogleBooksClient(cfg.Enrichment, log)

	var fallbacks []enrichment.Provider
	if llmClient.Enabled() {
		if cfg.Enrichment.ExaAPIKey != "" {
			exa := enrichment.NewExaClient(cfg.Enrichment, log)
			fallbacks = append(fallbacks, enrichment.NewAIWebProvider(llmClient, exa, log))
		}
		fallbacks = append(fallbacks, enrichment.NewAIProvider(llmClient, log))
	} else {
		log.Warn("LLM API key not configured, AI enrichment disabled")
	}

	lookupChain := enrichment.NewChain(log,
		enrichment.WithBooks(openLibrary, googleBooks),
		enrichment.WithFood(openFoodFacts),
		enrichment.WithFallbacks(fallbacks...),
		enrichment.WithCache(lookupCache),
	)

	// Object storage for attachments
	var objectStorage catalogapp.ObjectStorageService
	if cfg.Storage.AccessKeyID != "" && cfg.Storage.SecretAccessKey != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		bucketCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3Storage.EnsureBucket(bucketCtx); err != nil {
			cancel()
			log.Fatal("Failed to ensure storage bucket", zap.Error(err))
		}
		cancel()
		objectStorage = s3Storage
		log.Info("Object storage connected", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		log.Warn("Object storage credentials not configured, using stub storage")
		objectStorage = storage.NewStubObjectStorage()
	}

	// Initialize application services
	scanService := scanapp.NewService(eventRepo, identifierRepo, itemRepo, lookupChain, cfg.Scan.PipelineTimeout, log)
	itemService := catalogapp.NewItemService(itemRepo, identifierRepo, log)
	attachmentService := catalogapp.NewAttachmentService(attachmentRepo, itemRepo, objectStorage, log)
	orderService := tradeapp.NewOrderService(orderRepo, identifierRepo, itemRepo, log)

	// Initialize auth
	jwtService := auth.NewJWTService(cfg.JWT)

	// Setup gin
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	authConfig := middleware.DefaultAuthConfig(jwtService)
	authConfig.AllowHeaderFallback = cfg.App.Env != "production"
	authConfig.Logger = log
	engine.Use(middleware.AuthWithConfig(authConfig))

	engine.GET("/health", healthHandler(db))

	// Register routes
	r := router.NewRouter(engine)
	r.Register(handler.NewSystemHandler()).
		Register(handler.NewScanHandler(scanService)).
		Register(handler.NewItemHandler(itemService)).
		Register(handler.NewAttachmentHandler(attachmentService)).
		Register(handler.NewOrderHandler(orderService))
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	// Let in-flight scan pipelines finish before closing the database
	scanService.Wait()

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
