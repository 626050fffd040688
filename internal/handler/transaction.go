package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wallforfry/associsse/internal/activity"
	"github.com/wallforfry/associsse/internal/bankimport"
	"github.com/wallforfry/associsse/internal/middleware"
	"github.com/wallforfry/associsse/internal/models"
	"github.com/wallforfry/associsse/internal/recon"
	"github.com/wallforfry/associsse/internal/store"
	"github.com/wallforfry/associsse/internal/util"
)

// TransactionHandler serves the bank transaction endpoints: listing with
// reconciliation state, CSV import and fingerprint recompute.
type TransactionHandler struct {
	Txns           *store.TransactionStore
	Importer       *bankimport.Importer
	Activity       *activity.Recorder
	MaxUploadBytes int64
	Log            zerolog.Logger
}

func NewTransactionHandler(txns *store.TransactionStore, importer *bankimport.Importer, recorder *activity.Recorder, maxUploadBytes int64, log zerolog.Logger) *TransactionHandler {
	return &TransactionHandler{
		Txns:           txns,
		Importer:       importer,
		Activity:       recorder,
		MaxUploadBytes: maxUploadBytes,
		Log:            log,
	}
}

// ---------- response structures ----------

type expenseResp struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	AmountTTC   string    `json:"amountTTC"`
	Status      string    `json:"status"`
	Date        time.Time `json:"date"`
}

type associationResp struct {
	ID        string      `json:"id"`
	Amount    string      `json:"amount"`
	CreatedAt time.Time   `json:"createdAt"`
	Expense   expenseResp `json:"expense"`
}

type transactionResp struct {
	ID               string            `json:"id"`
	Date             time.Time         `json:"date"`
	ValueDate        time.Time         `json:"valueDate"`
	Amount           string            `json:"amount"`
	Description      string            `json:"description"`
	Balance          string            `json:"balance"`
	Fingerprint      string            `json:"fingerprint"`
	AssociatedAmount string            `json:"associatedAmount"`
	RemainingAmount  string            `json:"remainingAmount"`
	State            string            `json:"state"`
	Associable       bool              `json:"associable"`
	Associations     []associationResp `json:"associations"`
	CreatedAt        time.Time         `json:"createdAt"`
}

func toTransactionResp(txn *models.BankTransaction) transactionResp {
	associations := make([]associationResp, 0, len(txn.Associations))
	for i := range txn.Associations {
		link := &txn.Associations[i]
		associations = append(associations, associationResp{
			ID:        link.ID,
			Amount:    link.Amount.StringFixed(2),
			CreatedAt: link.CreatedAt,
			Expense: expenseResp{
				ID:          link.Expense.ID,
				Description: link.Expense.Description,
				AmountTTC:   link.Expense.AmountTTC.StringFixed(2),
				Status:      link.Expense.Status,
				Date:        link.Expense.Date,
			},
		})
	}

	return transactionResp{
		ID:               txn.ID,
		Date:             txn.Date,
		ValueDate:        txn.ValueDate,
		Amount:           txn.Amount.StringFixed(2),
		Description:      txn.Description,
		Balance:          txn.Balance.StringFixed(2),
		Fingerprint:      txn.Fingerprint,
		AssociatedAmount: recon.AssociatedAmount(txn.Associations).StringFixed(2),
		RemainingAmount:  recon.RemainingToReconcile(txn, txn.Associations).StringFixed(2),
		State:            string(recon.State(txn, txn.Associations)),
		Associable:       recon.IsAssociable(txn),
		Associations:     associations,
		CreatedAt:        txn.CreatedAt,
	}
}

// ListTransactions returns all transactions of the caller's organization,
// newest first, with association detail and reconciliation state.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	org, ok := middleware.CurrentOrganization(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Unauthorized")
		return
	}

	txns, err := h.Txns.ListWithAssociations(org.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to fetch bank transactions")
		return
	}

	items := make([]transactionResp, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResp(&txns[i]))
	}

	util.Success(c, util.Response{
		"transactions": items,
		"total":        len(items),
	})
}

// ImportTransactions ingests an uploaded CSV statement. The whole file is
// accepted or rejected; duplicate lines are skipped via their fingerprint.
func (h *TransactionHandler) ImportTransactions(c *gin.Context) {
	org, ok := middleware.CurrentOrganization(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Unauthorized")
		return
	}
	user, _ := middleware.CurrentUser(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "No file provided")
		return
	}
	if h.MaxUploadBytes > 0 && fileHeader.Size > h.MaxUploadBytes {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "File too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to read file")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to read file")
		return
	}

	summary, err := h.Importer.Import(org.ID, fileHeader.Filename, raw)
	if err != nil {
		var vErr *bankimport.ValidationError
		if errors.As(err, &vErr) {
			util.ErrorWithDetails(c, http.StatusBadRequest, util.CodeInvalidParam, vErr.Message, vErr.Issues)
			return
		}
		h.Log.Error().Err(err).Str("organization", org.ID).Msg("import failed")
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to import bank transactions")
		return
	}

	var userID string
	if user != nil {
		userID = user.ID
	}
	h.Activity.Record(activity.Entry{
		OrganizationID: org.ID,
		UserID:         userID,
		Type:           activity.TypeTransactionsImported,
		EntityType:     "bank_transaction",
		Description:    "Imported bank transactions from CSV",
		Metadata: map[string]interface{}{
			"importedCount": summary.ImportedCount,
			"skippedCount":  summary.SkippedCount,
			"fileName":      summary.FileName,
		},
	})

	util.Success(c, util.Response{
		"message":       "Import completed successfully",
		"importedCount": summary.ImportedCount,
		"skippedCount":  summary.SkippedCount,
		"fileName":      summary.FileName,
	})
}

// RecomputeFingerprints rewrites every transaction fingerprint under the
// current contract. Collisions are counted, never overwritten; the run
// always completes and reports.
func (h *TransactionHandler) RecomputeFingerprints(c *gin.Context) {
	org, ok := middleware.CurrentOrganization(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Unauthorized")
		return
	}
	user, _ := middleware.CurrentUser(c)

	summary, err := h.Importer.Recompute(org.ID)
	if err != nil {
		h.Log.Error().Err(err).Str("organization", org.ID).Msg("recompute failed")
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to recompute fingerprints")
		return
	}

	var userID string
	if user != nil {
		userID = user.ID
	}
	h.Activity.Record(activity.Entry{
		OrganizationID: org.ID,
		UserID:         userID,
		Type:           activity.TypeFingerprintsRecomputed,
		EntityType:     "bank_transaction",
		Description:    "Recomputed bank transaction fingerprints",
		Metadata: map[string]interface{}{
			"updatedCount":      summary.UpdatedCount,
			"errorCount":        summary.ErrorCount,
			"totalTransactions": summary.TotalTransactions,
		},
	})

	util.Success(c, util.Response{
		"message":           "Fingerprint recomputation completed",
		"updatedCount":      summary.UpdatedCount,
		"errorCount":        summary.ErrorCount,
		"totalTransactions": summary.TotalTransactions,
	})
}
