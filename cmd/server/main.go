package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/noltshop/backend/internal/application/catalog"
	shopapp "github.com/noltshop/backend/internal/application/shop"
	syncapp "github.com/noltshop/backend/internal/application/sync"
	"github.com/noltshop/backend/internal/infrastructure/cache"
	"github.com/noltshop/backend/internal/infrastructure/config"
	"github.com/noltshop/backend/internal/infrastructure/dolibarr"
	"github.com/noltshop/backend/internal/infrastructure/logger"
	"github.com/noltshop/backend/internal/infrastructure/persistence"
	"github.com/noltshop/backend/internal/infrastructure/scheduler"
	"github.com/noltshop/backend/internal/interfaces/http/handler"
	"github.com/noltshop/backend/internal/interfaces/http/middleware"
	"github.com/noltshop/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is overridden at build time via -ldflags
var version = "dev"

// readinessProbe adapts the database wrapper to the handler's Pinger
type readinessProbe struct {
	db *persistence.Database
}

func (p readinessProbe) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	// Database
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	// Repositories
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	imageRepo := persistence.NewGormImageRepository(db.DB)
	associationRepo := persistence.NewGormAssociationRepository(db.DB, log)
	shopRepo := persistence.NewGormShopRepository(db.DB)
	metadataRepo := persistence.NewGormProductMetadataRepository(db.DB)

	// Dolibarr client
	dolCfg := dolibarr.NewConfig(cfg.Dolibarr.BaseURL, cfg.Dolibarr.APIKey)
	if cfg.Dolibarr.Timeout > 0 {
		dolCfg.Timeout = cfg.Dolibarr.Timeout
	}
	erpClient, err := dolibarr.NewClient(dolCfg, log)
	if err != nil {
		log.Fatal("Failed to create Dolibarr client", zap.Error(err))
	}

	// Read-side cache. A Redis failure at startup degrades to no caching
	// rather than a dead process.
	var catalogCache cache.CatalogCache = cache.NewNoopCatalogCache()
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisCatalogCache(cfg.Redis, cfg.Cache.TTL, log)
		if err != nil {
			log.Warn("Redis unavailable, catalog cache disabled", zap.Error(err))
		} else {
			catalogCache = redisCache
			log.Info("Catalog cache enabled",
				zap.String("addr", cfg.Redis.Addr()),
				zap.Duration("ttl", cfg.Cache.TTL),
			)
		}
	}

	// Sync engine and scheduler
	syncService := syncapp.NewReconciliationService(
		erpClient, categoryRepo, productRepo, associationRepo, catalogCache, log,
	)

	schedCfg := scheduler.DefaultConfig()
	if cfg.Sync.DailyCronSchedule != "" {
		schedCfg.Schedule = cfg.Sync.DailyCronSchedule
	}
	if cfg.Sync.JobTimeout > 0 {
		schedCfg.JobTimeout = cfg.Sync.JobTimeout
	}
	if cfg.Sync.HistoryLimit > 0 {
		schedCfg.HistoryLimit = cfg.Sync.HistoryLimit
	}
	schedCfg.RootCategoryID = cfg.Dolibarr.RootCategoryID

	syncScheduler, err := scheduler.NewCatalogSyncScheduler(schedCfg, syncService, log)
	if err != nil {
		log.Fatal("Failed to create sync scheduler", zap.Error(err))
	}
	if cfg.Sync.Enabled {
		if err := syncScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sync scheduler", zap.Error(err))
		}
		log.Info("Sync scheduler started",
			zap.String("schedule", schedCfg.Schedule),
			zap.String("root_category_id", schedCfg.RootCategoryID),
		)
	}

	// Application services
	productService := catalogapp.NewProductService(productRepo, shopRepo, metadataRepo, catalogCache, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, associationRepo, catalogCache, log)
	shopService := shopapp.NewShopService(shopRepo, metadataRepo, productRepo, catalogCache, log)
	imageService := shopapp.NewImageService(imageRepo, productRepo, catalogCache, log)

	// Handlers
	productHandler := handler.NewProductHandler(productService, categoryService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	shopHandler := handler.NewShopHandler(shopService)
	imageHandler := handler.NewImageHandler(imageService)
	syncHandler := handler.NewSyncHandler(syncScheduler)
	systemHandler := handler.NewSystemHandler(readinessProbe{db: db}, version)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.ShopCode())
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Unversioned liveness endpoint for load balancers
	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(productHandler).
		Register(categoryHandler).
		Register(shopHandler).
		Register(imageHandler).
		Register(syncHandler).
		Register(systemHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

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

	if cfg.Sync.Enabled {
		if err := syncScheduler.Stop(ctx); err != nil {
			log.Warn("Sync scheduler did not stop cleanly", zap.Error(err))
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
