package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/wallforfry/associsse/internal/middleware"
	"github.com/wallforfry/associsse/internal/models"
	"github.com/wallforfry/associsse/internal/recon"
	"github.com/wallforfry/associsse/internal/store"
	"github.com/wallforfry/associsse/internal/util"
)

// ExportHandler streams the reconciliation ledger as CSV or XLSX.
type ExportHandler struct {
	Txns *store.TransactionStore
}

func NewExportHandler(txns *store.TransactionStore) *ExportHandler {
	return &ExportHandler{Txns: txns}
}

var exportColumns = []string{"Date", "Date de valeur", "Montant", "Libellé", "Solde", "Associé", "Restant", "Statut"}

func exportRow(txn *models.BankTransaction) []string {
	return []string{
		txn.Date.Format("02/01/2006"),
		txn.ValueDate.Format("02/01/2006"),
		txn.Amount.StringFixed(2),
		txn.Description,
		txn.Balance.StringFixed(2),
		recon.AssociatedAmount(txn.Associations).StringFixed(2),
		recon.RemainingToReconcile(txn, txn.Associations).StringFixed(2),
		string(recon.State(txn, txn.Associations)),
	}
}

// ExportCSV exports the organization's transactions with their
// reconciliation state as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
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

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	// UTF-8 BOM so spreadsheet tools pick up accented characters
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportColumns)
	for i := range txns {
		writer.Write(exportRow(&txns[i]))
	}
}

// ExportXLSX exports the same ledger as an XLSX workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
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

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Transactions"
	f.SetSheetName("Sheet1", sheet)

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, col)
	}
	for rowIdx := range txns {
		values := exportRow(&txns[rowIdx])
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to write export")
	}
}
