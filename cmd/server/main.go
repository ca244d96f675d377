package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	analyticsapp "github.com/oceanerp/backend/internal/application/analytics"
	chatapp "github.com/oceanerp/backend/internal/application/chat"
	"github.com/oceanerp/backend/internal/application/fulfillment"
	"github.com/oceanerp/backend/internal/application/ordersync"
	"github.com/oceanerp/backend/internal/application/stocksync"
	"github.com/oceanerp/backend/internal/infrastructure/cache"
	"github.com/oceanerp/backend/internal/infrastructure/config"
	"github.com/oceanerp/backend/internal/infrastructure/logger"
	"github.com/oceanerp/backend/internal/infrastructure/marketplace"
	"github.com/oceanerp/backend/internal/infrastructure/persistence"
	"github.com/oceanerp/backend/internal/infrastructure/scheduler"
	"github.com/oceanerp/backend/internal/infrastructure/telemetry"
	"github.com/oceanerp/backend/internal/interfaces/http/handler"
	"github.com/oceanerp/backend/internal/interfaces/http/middleware"
	"github.com/oceanerp/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting OceanERP Sync",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Telemetry: traces and metrics over OTLP gRPC. Both providers degrade
	// to no-ops when disabled.
	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	syncMetrics, err := telemetry.NewSyncMetrics(meterProvider.Meter("oceanerp/sync"))
	if err != nil {
		log.Fatal("Failed to create sync metrics", zap.Error(err))
	}

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.RegisterGormTracing(db.DB, cfg.Database.DBName); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Redis backs the sync locks, pull cursors and report cache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis", zap.Error(err))
		}
	}()
	log.Info("Redis connected successfully")

	// Initialize repositories
	storefrontRepo := persistence.NewGormStorefrontRepository(db.DB)
	mappingRepo := persistence.NewGormMappingRepository(db.DB)
	syncLogRepo := persistence.NewGormSyncLogRepository(db.DB)
	stockRepo := persistence.NewGormStockRepository(db.DB)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	shippingOrderRepo := persistence.NewGormShippingOrderRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	statsReader := persistence.NewGormStatsReader(db.DB)
	syncState := cache.NewRedisSyncStateStore(redisClient)
	reportCache := cache.NewRedisReportCache(redisClient)

	// Platform clients, instrumented so every marketplace call lands in the
	// sync metrics
	factory := telemetry.InstrumentFactory(
		marketplace.NewFactory(cfg.Marketplace.Sandbox),
		syncMetrics,
	)

	// Initialize application services
	orderSyncOpts := ordersync.DefaultOptions()
	orderSyncOpts.PullWindow = cfg.Sync.OrderPullWindow
	orderSyncOpts.PageSize = cfg.Sync.OrderPullPageSize

	analyticsOpts := analyticsapp.DefaultOptions()
	analyticsOpts.LowStockThreshold = cfg.Sync.LowStockThreshold

	stockSyncService := stocksync.NewService(stockRepo, mappingRepo, storefrontRepo, factory, syncLogRepo, log)
	orderSyncService := ordersync.NewService(storefrontRepo, mappingRepo, salesOrderRepo, syncState, factory, syncLogRepo, orderSyncOpts, log)
	fulfillmentService := fulfillment.NewService(salesOrderRepo, shippingOrderRepo, mappingRepo, storefrontRepo, factory, syncLogRepo, log)
	analyticsService := analyticsapp.NewService(storefrontRepo, mappingRepo, salesOrderRepo, statsReader, warehouseRepo, reportCache, factory, analyticsOpts, log)
	chatService := chatapp.NewService(storefrontRepo, factory, syncState, log)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - Span per request (when telemetry is enabled)
	// 5. CORS - Handle cross-origin requests
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		MaxAge:       12 * time.Hour,
	}))

	// Register routes
	router.NewRouter(engine).
		Register(handler.NewSyncHandler(stockSyncService, orderSyncService)).
		Register(handler.NewFulfillmentHandler(fulfillmentService)).
		Register(handler.NewAnalyticsHandler(analyticsService)).
		Register(handler.NewChatHandler(chatService)).
		Register(handler.NewSystemHandler()).
		Setup()

	// Liveness probe with a database ping, outside the versioned API
	engine.GET("/healthz", healthHandler(db, log))

	// Background sync jobs
	sched := scheduler.NewScheduler(log).
		AddJob(scheduler.OrderPullJob(orderSyncService, syncMetrics, cfg.Sync.OrderPullInterval)).
		AddJob(scheduler.ChatPollJob(chatService, cfg.Sync.ChatPollInterval)).
		AddJob(scheduler.WarehouseSyncJob(analyticsService, cfg.Sync.WarehouseSyncInterval, cfg.Sync.WarehouseSyncWindow))
	if err := sched.Start(ctx); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		log.Error("Scheduler forced to shutdown", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
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
