package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/dcastellanos/obrax-api/docs" // Swagger docs
	"github.com/dcastellanos/obrax-api/internal/config"
	"github.com/dcastellanos/obrax-api/internal/database"
	"github.com/dcastellanos/obrax-api/internal/handlers"
	"github.com/dcastellanos/obrax-api/internal/jobs"
	"github.com/dcastellanos/obrax-api/internal/middleware"
	"github.com/dcastellanos/obrax-api/internal/repository"
	"github.com/dcastellanos/obrax-api/internal/services"
	"github.com/dcastellanos/obrax-api/internal/storage"
	"github.com/dcastellanos/obrax-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Obrax API
// @version 1.0
// @description REST API for Obrax Construction Contract Management

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Initialize storage
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, store, cfg, db)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, worker)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", h.Health.Check)

		// Quotes
		quotes := v1.Group("/quotes")
		{
			quotes.GET("", h.Quote.Index)
			quotes.POST("", h.Quote.Create)
			quotes.GET("/:quote_id", h.Quote.Show)
			quotes.PUT("/:quote_id", h.Quote.Update)
			quotes.DELETE("/:quote_id", h.Quote.Delete)
			quotes.POST("/:quote_id/convert", h.Quote.Convert)
		}

		// Contracts
		contracts := v1.Group("/contracts")
		{
			contracts.GET("", h.Contract.Index)
			contracts.GET("/:contract_id", h.Contract.Show)
			contracts.PATCH("/:contract_id", h.Contract.Update)
			contracts.DELETE("/:contract_id", h.Contract.Delete)
			contracts.PUT("/:contract_id/schedule", h.Contract.ReplaceSchedule)
			contracts.POST("/:contract_id/hold", h.Contract.Hold)
			contracts.POST("/:contract_id/complete", h.Contract.Complete)
			contracts.POST("/:contract_id/cancel", h.Contract.Cancel)
			contracts.POST("/:contract_id/reactivate", h.Contract.Reactivate)
			contracts.GET("/:contract_id/statement.pdf", h.Contract.StatementPDF)
			contracts.GET("/:contract_id/expenses.csv", h.Contract.ExpensesCSV)
		}

		// Received payments
		payments := v1.Group("/payments")
		{
			payments.GET("", h.Payment.Index)
			payments.POST("", h.Payment.Create)
			payments.GET("/:payment_id", h.Payment.Show)
			payments.PUT("/:payment_id", h.Payment.Update)
			payments.DELETE("/:payment_id", h.Payment.Delete)
			payments.POST("/:payment_id/receipt", h.Payment.UploadReceipt)
			payments.GET("/:payment_id/receipt", h.Payment.DownloadReceipt)
		}

		// Expenses and debt settlements
		expenses := v1.Group("/expenses")
		{
			expenses.GET("", h.Expense.Index)
			expenses.POST("", h.Expense.Create)
			expenses.GET("/:expense_id", h.Expense.Show)
			expenses.PUT("/:expense_id", h.Expense.Update)
			expenses.DELETE("/:expense_id", h.Expense.Delete)
			expenses.POST("/:expense_id/payments", h.Expense.PayDebt)
			expenses.POST("/:expense_id/receipt", h.Expense.UploadReceipt)
			expenses.GET("/:expense_id/receipt", h.Expense.DownloadReceipt)
		}

		// Beneficiaries
		suppliers := v1.Group("/suppliers")
		{
			suppliers.GET("", h.Beneficiary.IndexSuppliers)
			suppliers.POST("", h.Beneficiary.CreateSupplier)
			suppliers.GET("/:supplier_id", h.Beneficiary.ShowSupplier)
			suppliers.PUT("/:supplier_id", h.Beneficiary.UpdateSupplier)
			suppliers.DELETE("/:supplier_id", h.Beneficiary.DeleteSupplier)
			suppliers.GET("/:supplier_id/balance", h.Beneficiary.SupplierBalance)
		}
		workers := v1.Group("/workers")
		{
			workers.GET("", h.Beneficiary.IndexWorkers)
			workers.POST("", h.Beneficiary.CreateWorker)
			workers.GET("/:worker_id", h.Beneficiary.ShowWorker)
			workers.PUT("/:worker_id", h.Beneficiary.UpdateWorker)
			workers.DELETE("/:worker_id", h.Beneficiary.DeleteWorker)
			workers.GET("/:worker_id/balance", h.Beneficiary.WorkerBalance)
		}
		subcontractors := v1.Group("/subcontractors")
		{
			subcontractors.GET("", h.Beneficiary.IndexSubcontractors)
			subcontractors.POST("", h.Beneficiary.CreateSubcontractor)
			subcontractors.GET("/:subcontractor_id", h.Beneficiary.ShowSubcontractor)
			subcontractors.PUT("/:subcontractor_id", h.Beneficiary.UpdateSubcontractor)
			subcontractors.DELETE("/:subcontractor_id", h.Beneficiary.DeleteSubcontractor)
			subcontractors.GET("/:subcontractor_id/balance", h.Beneficiary.SubcontractorBalance)
		}

		// Subcontractor agreements
		agreements := v1.Group("/agreements")
		{
			agreements.GET("", h.Agreement.Index)
			agreements.POST("", h.Agreement.Create)
			agreements.GET("/:agreement_id", h.Agreement.Show)
			agreements.PUT("/:agreement_id", h.Agreement.Update)
			agreements.DELETE("/:agreement_id", h.Agreement.Delete)
			agreements.GET("/:agreement_id/progress", h.Agreement.Progress)
		}

		// Ledger summaries and exports
		ledger := v1.Group("/ledger")
		{
			ledger.GET("/summary", h.Ledger.Summary)
			ledger.GET("/summary.csv", h.Ledger.ExportCSV)
			ledger.GET("/summary.xlsx", h.Ledger.ExportXLSX)
			ledger.GET("/summary.pdf", h.Ledger.ExportPDF)
		}

		// Snapshots
		snapshots := v1.Group("/snapshots")
		{
			snapshots.GET("/export", h.Snapshot.Export)
			snapshots.POST("/import", h.Snapshot.Import)
		}

		// Audit trail
		v1.GET("/audit_logs", h.Audit.Index)
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Reconcile ledger invariants every hour
	worker.ScheduleEvery(1*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Reconciling ledger...")
		return svcs.Ledger.Reconcile(ctx)
	})

	logger.Info("Scheduled recurring jobs")
}
