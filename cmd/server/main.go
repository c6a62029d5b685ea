package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erp/stockledger/internal/application/ledgerreport"
	stockapp "github.com/erp/stockledger/internal/application/stock"
	voucherapp "github.com/erp/stockledger/internal/application/voucher"
	"github.com/erp/stockledger/internal/domain/shared"
	voucherdomain "github.com/erp/stockledger/internal/domain/voucher"
	"github.com/erp/stockledger/internal/infrastructure/config"
	"github.com/erp/stockledger/internal/infrastructure/event"
	"github.com/erp/stockledger/internal/infrastructure/logger"
	"github.com/erp/stockledger/internal/infrastructure/persistence"
	"github.com/erp/stockledger/internal/interfaces/http/handler"
	"github.com/erp/stockledger/internal/interfaces/http/middleware"
	"github.com/erp/stockledger/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// defaultCurrency is the book currency every GL posting template assumes
// absent a per-tenant currency configuration.
const defaultCurrency = "USD"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

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

	log.Info("Starting ERP Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- domain dependency graph --------------------------------------
	//
	// GormStockTransactionScope bundles the stock + GL repositories that
	// Engine, CancellationEngine, and every voucher orchestrator need
	// inside one database transaction, per §4.3's advisory-lock gate.
	txScope := persistence.NewGormStockTransactionScope(db.DB)

	itemLookup := persistence.NewCatalogItemLookup(
		persistence.NewGormProductRepository(db.DB),
		persistence.NewGormProductUnitRepository(db.DB),
	)
	warehouseLookup := persistence.NewWarehouseLocationLookup(
		persistence.NewGormWarehouseRepository(db.DB),
		persistence.NewGormLocationRepository(db.DB),
	)

	eventBus := event.NewInMemoryEventBus(log)
	clock := shared.SystemClock{}

	engine := stockapp.NewEngine(itemLookup, warehouseLookup, txScope, eventBus, clock)
	canceller := stockapp.NewCancellationEngine(txScope, eventBus, clock)

	invoiceLedger := persistence.NewGormInvoiceLedger(db.DB)

	registry := voucherapp.NewRegistry(engine, canceller, txScope, invoiceLedger, clock, defaultCurrency)

	reportService := ledgerreport.NewService(
		persistence.NewGormAccountRepository(db.DB),
		persistence.NewGormGlEntryRepository(db.DB),
		invoiceLedger,
	)

	// --- HTTP layer -----------------------------------------------------
	ginEngine := gin.New()
	ginEngine.Use(middleware.RequestID())
	ginEngine.Use(logger.Recovery(log))
	ginEngine.Use(logger.GinMiddleware(log))
	ginEngine.Use(middleware.CORS())
	ginEngine.Use(middleware.Tracing())
	ginEngine.Use(middleware.ActingUser())
	ginEngine.Use(middleware.SpanErrorMarker())

	ginEngine.GET("/health", func(c *gin.Context) {
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
	})

	apiRouter := router.NewRouter(ginEngine, router.WithAPIVersion("v1"))

	apiRouter.
		Register(router.NewVoucherRegistrar("purchase-receipts", handler.NewVoucherHandler[voucherdomain.PurchaseReceipt, *voucherdomain.PurchaseReceipt](
			persistence.NewGormVoucherDocumentRepository[voucherdomain.PurchaseReceipt](db.DB), registry, "Purchase Receipt"))).
		Register(router.NewVoucherRegistrar("delivery-notes", handler.NewVoucherHandler[voucherdomain.DeliveryNote, *voucherdomain.DeliveryNote](
			persistence.NewGormVoucherDocumentRepository[voucherdomain.DeliveryNote](db.DB), registry, "Delivery Note"))).
		Register(router.NewVoucherRegistrar("stock-transfers", handler.NewVoucherHandler[voucherdomain.StockTransfer, *voucherdomain.StockTransfer](
			persistence.NewGormVoucherDocumentRepository[voucherdomain.StockTransfer](db.DB), registry, "Stock Transfer"))).
		Register(router.NewVoucherRegistrar("stock-reconciliations", handler.NewVoucherHandler[voucherdomain.StockReconciliation, *voucherdomain.StockReconciliation](
			persistence.NewGormVoucherDocumentRepository[voucherdomain.StockReconciliation](db.DB), registry, "Stock Reconciliation"))).
		Register(router.NewVoucherRegistrar("stock-reservations", handler.NewVoucherHandler[voucherdomain.StockReservation, *voucherdomain.StockReservation](
			persistence.NewGormVoucherDocumentRepository[voucherdomain.StockReservation](db.DB), registry, "Stock Reservation"))).
		Register(router.NewVoucherRegistrar("pick-lists", handler.NewVoucherHandler[voucherdomain.PickList, *voucherdomain.PickList](
			persistence.NewGormVoucherDocumentRepository[voucherdomain.PickList](db.DB), registry, "Pick List"))).
		Register(router.NewVoucherRegistrar("pack-lists", handler.NewVoucherHandler[voucherdomain.PackList, *voucherdomain.PackList](
			persistence.NewGormVoucherDocumentRepository[voucherdomain.PackList](db.DB), registry, "Pack List"))).
		Register(router.NewVoucherRegistrar("sales-orders", handler.NewVoucherHandler[voucherdomain.SalesOrder, *voucherdomain.SalesOrder](
			persistence.NewGormVoucherDocumentRepository[voucherdomain.SalesOrder](db.DB), registry, "Sales Order"))).
		Register(router.NewVoucherRegistrar("purchase-orders", handler.NewVoucherHandler[voucherdomain.PurchaseOrder, *voucherdomain.PurchaseOrder](
			persistence.NewGormVoucherDocumentRepository[voucherdomain.PurchaseOrder](db.DB), registry, "Purchase Order"))).
		Register(router.NewVoucherRegistrar("invoices", handler.NewVoucherHandler[voucherdomain.Invoice, *voucherdomain.Invoice](
			persistence.NewGormVoucherDocumentRepository[voucherdomain.Invoice](db.DB), registry, "Invoice"))).
		Register(router.NewVoucherRegistrar("purchase-invoices", handler.NewVoucherHandler[voucherdomain.PurchaseInvoice, *voucherdomain.PurchaseInvoice](
			persistence.NewGormVoucherDocumentRepository[voucherdomain.PurchaseInvoice](db.DB), registry, "Purchase Invoice"))).
		Register(router.NewVoucherRegistrar("payment-entries", handler.NewVoucherHandler[voucherdomain.PaymentEntry, *voucherdomain.PaymentEntry](
			persistence.NewGormVoucherDocumentRepository[voucherdomain.PaymentEntry](db.DB), registry, "Payment Entry"))).
		Register(router.NewVoucherRegistrar("journal-entries", handler.NewVoucherHandler[voucherdomain.JournalEntry, *voucherdomain.JournalEntry](
			persistence.NewGormVoucherDocumentRepository[voucherdomain.JournalEntry](db.DB), registry, "Journal Entry"))).
		Register(router.NewVoucherRegistrar("quotations", handler.NewVoucherHandler[voucherdomain.Quotation, *voucherdomain.Quotation](
			persistence.NewGormVoucherDocumentRepository[voucherdomain.Quotation](db.DB), registry, "Quotation"))).
		Register(router.NewReportRegistrar(handler.NewReportHandler(reportService)))

	apiRouter.Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      ginEngine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
