package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appreturns "github.com/IdrisInc/smartbz/internal/application/returns"
	"github.com/IdrisInc/smartbz/internal/infrastructure/config"
	"github.com/IdrisInc/smartbz/internal/infrastructure/event"
	"github.com/IdrisInc/smartbz/internal/infrastructure/logger"
	"github.com/IdrisInc/smartbz/internal/infrastructure/persistence"
	"github.com/IdrisInc/smartbz/internal/infrastructure/telemetry"
	"github.com/IdrisInc/smartbz/internal/interfaces/http/handler"
	"github.com/IdrisInc/smartbz/internal/interfaces/http/middleware"
	"github.com/IdrisInc/smartbz/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			Returns Reconciliation API
//	@version		1.0
//	@description	Return and financial-adjustment reconciliation engine

//	@host		localhost:8080
//	@BasePath	/api/v1

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

	log.Info("Starting returns reconciliation engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection
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

	// Initialize repositories
	returnRepo := persistence.NewGormReturnRepository(db.DB)
	originRepo := persistence.NewGormOriginRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	noteRepo := persistence.NewGormNoteRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	returnRepo.SetNumberPadding(cfg.Engine.NumberPadding)
	noteRepo.SetNumberPadding(cfg.Engine.NumberPadding)
	txScope.SetNumberPadding(cfg.Engine.NumberPadding)

	// Initialize application services
	returnService := appreturns.NewReturnService(
		txScope, returnRepo, originRepo, movementRepo,
		cfg.Engine.ScrapDamagedReturns,
	)
	returnService.SetLogger(log)
	noteService := appreturns.NewNoteService(noteRepo)
	noteService.SetLogger(log)
	originService := appreturns.NewOriginService(originRepo)
	originService.SetLogger(log)

	// Initialize event bus and audit handler
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(appreturns.NewDecisionAuditHandler(log))
	returnService.SetEventPublisher(eventBus)

	// Initialize OpenTelemetry metrics
	ctx := context.Background()
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		ExportInterval:    cfg.Telemetry.ExportInterval,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	if meterProvider.IsEnabled() {
		engineMetrics, err := telemetry.NewEngineMetrics(telemetry.EngineMetricsConfig{
			Meter:           meterProvider.Meter("smartbz/engine"),
			Logger:          log,
			PendingProvider: returnRepo,
		})
		if err != nil {
			log.Fatal("Failed to initialize engine metrics", zap.Error(err))
		}
		returnService.SetEngineMetrics(engineMetrics)
		engineMetrics.StartPeriodicCollection(ctx, returnRepo, 5*time.Minute)
		defer engineMetrics.Stop()
		log.Info("Engine metrics enabled",
			zap.String("collector", cfg.Telemetry.CollectorEndpoint),
		)
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tenant())

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewReturnHandler(returnService))
	r.Register(handler.NewNoteHandler(noteService))
	r.Register(handler.NewOriginHandler(originService))
	r.Register(handler.NewSystemHandler())
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
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
