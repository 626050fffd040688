package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/wallforfry/associsse/internal/activity"
	"github.com/wallforfry/associsse/internal/bankimport"
	"github.com/wallforfry/associsse/internal/config"
	"github.com/wallforfry/associsse/internal/handler"
	"github.com/wallforfry/associsse/internal/middleware"
	"github.com/wallforfry/associsse/internal/recon"
	"github.com/wallforfry/associsse/internal/store"
)

// SetupRouter configures the Gin engine and wires the reconciliation
// services to their routes.
func SetupRouter(cfg *config.Config, db *gorm.DB, log zerolog.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// stores
	txns := store.NewTransactionStore(db)
	expenses := store.NewExpenseStore(db)
	associations := store.NewAssociationStore(db)

	// services
	headers := bankimport.Headers{
		Date:        cfg.Import.DateHeader,
		ValueDate:   cfg.Import.ValueDateHeader,
		Amount:      cfg.Import.AmountHeader,
		Description: cfg.Import.DescriptionHeader,
		Balance:     cfg.Import.BalanceHeader,
	}
	importer := bankimport.NewImporter(txns, headers, log)
	ledger := recon.NewLedger(txns, expenses, associations)
	recorder := activity.NewRecorder(db, log)

	// ====== API ======
	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret, db))

	transactionHandler := handler.NewTransactionHandler(txns, importer, recorder, cfg.Import.MaxUploadBytes, log)
	protected.GET("/bank-transactions", transactionHandler.ListTransactions)
	protected.POST("/bank-transactions/import", transactionHandler.ImportTransactions)
	protected.POST("/bank-transactions/recompute-fingerprints", transactionHandler.RecomputeFingerprints)

	associationHandler := handler.NewAssociationHandler(ledger, recorder, log)
	protected.POST("/bank-transactions/:id/associate", associationHandler.Associate)
	protected.DELETE("/bank-transactions/associations/:id", associationHandler.RemoveAssociation)

	activityHandler := handler.NewActivityHandler(recorder)
	protected.GET("/activities", activityHandler.ListActivities)

	exportHandler := handler.NewExportHandler(txns)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	return r
}
