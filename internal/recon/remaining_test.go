package recon

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/wallforfry/associsse/internal/models"
)

func debit(amount string) *models.BankTransaction {
	return &models.BankTransaction{ID: "txn-1", Amount: decimal.RequireFromString(amount)}
}

func linksOf(amounts ...string) []models.ExpenseAssociation {
	out := make([]models.ExpenseAssociation, 0, len(amounts))
	for _, a := range amounts {
		out = append(out, models.ExpenseAssociation{Amount: decimal.RequireFromString(a)})
	}
	return out
}

func TestAssociatedAmount(t *testing.T) {
	assert.True(t, AssociatedAmount(nil).IsZero())
	assert.True(t, AssociatedAmount(linksOf("10.50", "20.25")).Equal(amt("30.75")))
}

func TestRemainingToReconcile(t *testing.T) {
	txn := debit("-100.00")

	assert.True(t, RemainingToReconcile(txn, nil).Equal(amt("100.00")))
	assert.True(t, RemainingToReconcile(txn, linksOf("60.00")).Equal(amt("40.00")))
	assert.True(t, RemainingToReconcile(txn, linksOf("60.00", "40.00")).IsZero())
}

func TestSuggestedAmount_TakesTheSmallerSide(t *testing.T) {
	txn := debit("-100.00")

	small := &models.Expense{AmountTTC: amt("30.00")}
	assert.True(t, SuggestedAmount(small, txn, nil).Equal(amt("30.00")))

	large := &models.Expense{AmountTTC: amt("250.00")}
	assert.True(t, SuggestedAmount(large, txn, nil).Equal(amt("100.00")))

	// remaining shrinks as associations accumulate
	assert.True(t, SuggestedAmount(large, txn, linksOf("80.00")).Equal(amt("20.00")))
}

func TestIsAssociable(t *testing.T) {
	assert.True(t, IsAssociable(debit("-50.00")))
	assert.False(t, IsAssociable(debit("50.00")))
	assert.False(t, IsAssociable(debit("0")))
}

func TestState(t *testing.T) {
	txn := debit("-100.00")

	assert.Equal(t, StateNone, State(txn, nil))
	assert.Equal(t, StatePartially, State(txn, linksOf("40.00")))
	assert.Equal(t, StateFully, State(txn, linksOf("40.00", "60.00")))
}

func TestState_SubCentResidueIsFullyReconciled(t *testing.T) {
	txn := debit("-100.00")

	assert.Equal(t, StateFully, State(txn, linksOf("99.995")))
	assert.Equal(t, StatePartially, State(txn, linksOf("99.98")))
}
