package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	accountingapp "github.com/forwardops/backend/internal/application/accounting"
	ledgerapp "github.com/forwardops/backend/internal/application/ledger"
	partnerapp "github.com/forwardops/backend/internal/application/partner"
	shippingapp "github.com/forwardops/backend/internal/application/shipping"
	"github.com/forwardops/backend/internal/infrastructure/config"
	"github.com/forwardops/backend/internal/infrastructure/logger"
	"github.com/forwardops/backend/internal/infrastructure/persistence"
	"github.com/forwardops/backend/internal/infrastructure/scheduler"
	"github.com/forwardops/backend/internal/interfaces/http/handler"
	"github.com/forwardops/backend/internal/interfaces/http/middleware"
	"github.com/forwardops/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting ForwardOps Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel(cfg.Log.Level))
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
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	vendorRepo := persistence.NewGormVendorRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	creditNoteRepo := persistence.NewGormCreditNoteRepository(db.DB)
	shipmentRepo := persistence.NewGormShipmentRepository(db.DB)
	journalEntryRepo := persistence.NewGormJournalEntryRepository(db.DB)
	accountRepo := persistence.NewGormChartOfAccountRepository(db.DB)
	txManager := persistence.NewGormTransactionManager(db.DB)

	// Seed the chart of accounts the posting rules depend on
	if err := accountRepo.SeedDefaults(context.Background()); err != nil {
		log.Fatal("Failed to seed chart of accounts", zap.Error(err))
	}

	// Initialize application services
	customerService := partnerapp.NewCustomerService(customerRepo, log)
	vendorService := partnerapp.NewVendorService(vendorRepo, log)
	journalService := accountingapp.NewJournalService(journalEntryRepo, txManager, log)
	recorder := ledgerapp.NewTransactionRecorder(transactionRepo, customerRepo, vendorRepo, journalService, txManager, log)
	reconciliationService := ledgerapp.NewReconciliationService(
		transactionRepo, customerRepo, vendorRepo,
		creditNoteRepo, paymentRepo, shipmentRepo,
		txManager, log,
	)
	shipmentService := shippingapp.NewShipmentService(
		shipmentRepo, invoiceRepo, paymentRepo, transactionRepo,
		customerRepo, vendorRepo, journalService, txManager, log,
	)

	// Nightly reconciliation audit (if enabled)
	if cfg.Scheduler.Enabled {
		audit := scheduler.NewReconciliationAudit(scheduler.AuditConfig{
			CronSchedule: cfg.Scheduler.AuditCronSchedule,
			JobTimeout:   cfg.Scheduler.JobTimeout,
		}, customerRepo, vendorRepo, reconciliationService, log)
		if err := audit.Start(); err != nil {
			log.Fatal("Failed to start reconciliation audit", zap.Error(err))
		}
		defer func() {
			if err := audit.Stop(context.Background()); err != nil {
				log.Error("Error stopping reconciliation audit", zap.Error(err))
			}
		}()
	}

	// Initialize HTTP handlers
	customerHandler := handler.NewCustomerHandler(customerService)
	vendorHandler := handler.NewVendorHandler(vendorService)
	ledgerHandler := handler.NewLedgerHandler(reconciliationService, recorder)
	shipmentHandler := handler.NewShipmentHandler(shipmentService)
	journalHandler := handler.NewJournalHandler(journalService, accountRepo)
	systemHandler := handler.NewSystemHandler(db)

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
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Partner domain (customers, vendors)
	partnerRoutes := router.NewDomainGroup("partner", "/partner")
	partnerRoutes.POST("/customers", customerHandler.Create)
	partnerRoutes.GET("/customers", customerHandler.List)
	partnerRoutes.GET("/customers/:id", customerHandler.GetByID)
	partnerRoutes.POST("/vendors", vendorHandler.Create)
	partnerRoutes.GET("/vendors", vendorHandler.List)
	partnerRoutes.GET("/vendors/:id", vendorHandler.GetByID)

	// Ledger domain (reconciled transaction histories)
	ledgerRoutes := router.NewDomainGroup("ledger", "/ledger")
	ledgerRoutes.GET("/customers/:id/transactions", ledgerHandler.ListCustomerTransactions)
	ledgerRoutes.POST("/customers/:id/transactions", ledgerHandler.RecordCustomerTransaction)
	ledgerRoutes.GET("/vendors/:id/transactions", ledgerHandler.ListVendorTransactions)
	ledgerRoutes.POST("/vendors/:id/transactions", ledgerHandler.RecordVendorTransaction)

	// Shipping domain (bookings)
	shipmentRoutes := router.NewDomainGroup("shipping", "/shipments")
	shipmentRoutes.POST("", shipmentHandler.Create)
	shipmentRoutes.GET("", shipmentHandler.List)
	shipmentRoutes.GET("/:id", shipmentHandler.GetByID)
	shipmentRoutes.PUT("/:id", shipmentHandler.Update)

	// Accounting domain (journal review)
	accountingRoutes := router.NewDomainGroup("accounting", "/accounting")
	accountingRoutes.GET("/journal-entries", journalHandler.ListEntries)
	accountingRoutes.GET("/accounts", journalHandler.ListAccounts)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/health", systemHandler.Health)

	r.Register(partnerRoutes).
		Register(ledgerRoutes).
		Register(shipmentRoutes).
		Register(accountingRoutes).
		Register(systemRoutes)

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

	log.Info("Server exited")
}

// gormLogLevel maps the application log level to GORM's logger levels.
// SQL logging only turns on for debug.
func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "warn", "warning":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}
