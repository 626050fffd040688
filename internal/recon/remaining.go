package recon

import (
	"github.com/shopspring/decimal"

	"github.com/wallforfry/associsse/internal/models"
)

// ReconciliationState is the display state of a transaction.
type ReconciliationState string

const (
	StateNone      ReconciliationState = "none"
	StatePartially ReconciliationState = "partially_associated"
	StateFully     ReconciliationState = "fully_associated"
)

// reconciledEpsilon absorbs sub-cent residue when deciding whether a
// transaction is fully reconciled.
var reconciledEpsilon = decimal.RequireFromString("0.01")

// AssociatedAmount sums the amounts of the given associations.
func AssociatedAmount(links []models.ExpenseAssociation) decimal.Decimal {
	total := decimal.Zero
	for _, link := range links {
		total = total.Add(link.Amount)
	}
	return total
}

// RemainingToReconcile is the part of the transaction's absolute amount not
// yet allocated to any expense.
func RemainingToReconcile(txn *models.BankTransaction, links []models.ExpenseAssociation) decimal.Decimal {
	return txn.Amount.Abs().Sub(AssociatedAmount(links))
}

// SuggestedAmount pre-fills an association form: the smaller of the expense
// total and the transaction's remaining amount.
func SuggestedAmount(expense *models.Expense, txn *models.BankTransaction, links []models.ExpenseAssociation) decimal.Decimal {
	remaining := RemainingToReconcile(txn, links)
	if expense.AmountTTC.LessThan(remaining) {
		return expense.AmountTTC
	}
	return remaining
}

// IsAssociable reports whether the transaction may be associated with
// expenses at all. Only debits qualify: a credit is money received, not an
// expense payment.
func IsAssociable(txn *models.BankTransaction) bool {
	return txn.Amount.IsNegative()
}

// State classifies a transaction for display.
func State(txn *models.BankTransaction, links []models.ExpenseAssociation) ReconciliationState {
	associated := AssociatedAmount(links)
	if RemainingToReconcile(txn, links).LessThan(reconciledEpsilon) {
		return StateFully
	}
	if associated.Sign() > 0 {
		return StatePartially
	}
	return StateNone
}
