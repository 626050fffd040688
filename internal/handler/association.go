package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/wallforfry/associsse/internal/activity"
	"github.com/wallforfry/associsse/internal/middleware"
	"github.com/wallforfry/associsse/internal/recon"
	"github.com/wallforfry/associsse/internal/util"
)

// AssociationHandler serves creation and removal of transaction/expense
// associations.
type AssociationHandler struct {
	Ledger   *recon.Ledger
	Activity *activity.Recorder
	Log      zerolog.Logger
}

func NewAssociationHandler(ledger *recon.Ledger, recorder *activity.Recorder, log zerolog.Logger) *AssociationHandler {
	return &AssociationHandler{Ledger: ledger, Activity: recorder, Log: log}
}

type associateReq struct {
	ExpenseID string          `json:"expenseId" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
}

// Associate allocates part of a transaction's amount to an expense.
func (h *AssociationHandler) Associate(c *gin.Context) {
	org, ok := middleware.CurrentOrganization(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Unauthorized")
		return
	}
	user, _ := middleware.CurrentUser(c)

	transactionID := c.Param("id")

	var req associateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid request data")
		return
	}

	link, err := h.Ledger.Associate(org.ID, transactionID, req.ExpenseID, req.Amount)
	if err != nil {
		h.writeLedgerError(c, err)
		return
	}

	var userID string
	if user != nil {
		userID = user.ID
	}
	h.Activity.Record(activity.Entry{
		OrganizationID: org.ID,
		UserID:         userID,
		Type:           activity.TypeExpenseAssociated,
		EntityType:     "bank_transaction",
		EntityID:       transactionID,
		Description:    "Associated expense with bank transaction",
		Metadata: map[string]interface{}{
			"bankTransactionId": transactionID,
			"expenseId":         req.ExpenseID,
			"amount":            req.Amount.StringFixed(2),
		},
	})

	util.Success(c, util.Response{
		"message": "Expense associated successfully",
		"association": gin.H{
			"id":                link.ID,
			"bankTransactionId": link.BankTransactionID,
			"expenseId":         link.ExpenseID,
			"amount":            link.Amount.StringFixed(2),
		},
	})
}

// RemoveAssociation deletes an association owned by the caller's
// organization.
func (h *AssociationHandler) RemoveAssociation(c *gin.Context) {
	org, ok := middleware.CurrentOrganization(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Unauthorized")
		return
	}

	if err := h.Ledger.Remove(org.ID, c.Param("id")); err != nil {
		if errors.Is(err, recon.ErrAssociationNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Association not found")
			return
		}
		h.Log.Error().Err(err).Msg("remove association failed")
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to remove association")
		return
	}

	util.Success(c, util.Response{
		"success": true,
	})
}

// writeLedgerError maps the ledger's typed rejections onto HTTP replies.
func (h *AssociationHandler) writeLedgerError(c *gin.Context, err error) {
	var exceedsRemaining *recon.AmountExceedsRemainingError
	var exceedsExpense *recon.AmountExceedsExpenseError

	switch {
	case errors.Is(err, recon.ErrTransactionNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Bank transaction not found")
	case errors.Is(err, recon.ErrExpenseNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Expense not found")
	case errors.Is(err, recon.ErrAmountNotPositive):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Amount must be positive")
	case errors.Is(err, recon.ErrTransactionNotDebit):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Only debit transactions can be associated with expenses")
	case errors.Is(err, recon.ErrDuplicateAssociation):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Expense is already associated with this transaction")
	case errors.As(err, &exceedsRemaining):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam,
			"Amount exceeds remaining transaction amount ("+exceedsRemaining.Remaining.StringFixed(2)+")")
	case errors.As(err, &exceedsExpense):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam,
			"Amount exceeds expense amount ("+exceedsExpense.Total.StringFixed(2)+")")
	default:
		h.Log.Error().Err(err).Msg("associate failed")
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to associate expense")
	}
}
