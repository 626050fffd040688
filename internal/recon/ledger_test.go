package recon

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallforfry/associsse/internal/models"
)

// fakeLedgerStore backs all three ledger dependencies in memory.
type fakeLedgerStore struct {
	txns     map[string]*models.BankTransaction
	expenses map[string]*models.Expense
	links    []*models.ExpenseAssociation
	nextID   int
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{
		txns:     map[string]*models.BankTransaction{},
		expenses: map[string]*models.Expense{},
	}
}

func (f *fakeLedgerStore) addTxn(organizationID, id, amount string) {
	f.txns[id] = &models.BankTransaction{
		ID:             id,
		OrganizationID: organizationID,
		Amount:         decimal.RequireFromString(amount),
	}
}

func (f *fakeLedgerStore) addExpense(organizationID, id, amountTTC string) {
	f.expenses[id] = &models.Expense{
		ID:             id,
		OrganizationID: organizationID,
		AmountTTC:      decimal.RequireFromString(amountTTC),
	}
}

// txnReader and expenseReader disambiguate the two Find signatures.
type txnReader struct{ store *fakeLedgerStore }

func (r txnReader) Find(organizationID, id string) (*models.BankTransaction, error) {
	txn, ok := r.store.txns[id]
	if !ok || txn.OrganizationID != organizationID {
		return nil, nil
	}
	return txn, nil
}

type expenseReader struct{ store *fakeLedgerStore }

func (r expenseReader) Find(organizationID, id string) (*models.Expense, error) {
	expense, ok := r.store.expenses[id]
	if !ok || expense.OrganizationID != organizationID {
		return nil, nil
	}
	return expense, nil
}

type associationStore struct{ store *fakeLedgerStore }

func (s associationStore) Find(transactionID, expenseID string) (*models.ExpenseAssociation, error) {
	for _, link := range s.store.links {
		if link.BankTransactionID == transactionID && link.ExpenseID == expenseID {
			return link, nil
		}
	}
	return nil, nil
}

func (s associationStore) FindByID(id string) (*models.ExpenseAssociation, error) {
	for _, link := range s.store.links {
		if link.ID == id {
			return link, nil
		}
	}
	return nil, nil
}

func (s associationStore) ListByTransaction(transactionID string) ([]models.ExpenseAssociation, error) {
	var out []models.ExpenseAssociation
	for _, link := range s.store.links {
		if link.BankTransactionID == transactionID {
			out = append(out, *link)
		}
	}
	return out, nil
}

func (s associationStore) ListByExpense(expenseID string) ([]models.ExpenseAssociation, error) {
	var out []models.ExpenseAssociation
	for _, link := range s.store.links {
		if link.ExpenseID == expenseID {
			out = append(out, *link)
		}
	}
	return out, nil
}

func (s associationStore) Create(link *models.ExpenseAssociation) error {
	s.store.nextID++
	link.ID = fmt.Sprintf("assoc-%d", s.store.nextID)
	s.store.links = append(s.store.links, link)
	return nil
}

func (s associationStore) Delete(id string) error {
	for i, link := range s.store.links {
		if link.ID == id {
			s.store.links = append(s.store.links[:i], s.store.links[i+1:]...)
			return nil
		}
	}
	return nil
}

func newTestLedger(store *fakeLedgerStore) *Ledger {
	return NewLedger(txnReader{store}, expenseReader{store}, associationStore{store})
}

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAssociate_CreatesLink(t *testing.T) {
	store := newFakeLedgerStore()
	store.addTxn("org-1", "txn-1", "-100.00")
	store.addExpense("org-1", "exp-1", "60.00")
	ledger := newTestLedger(store)

	link, err := ledger.Associate("org-1", "txn-1", "exp-1", amt("60.00"))
	require.NoError(t, err)

	assert.Equal(t, "txn-1", link.BankTransactionID)
	assert.Equal(t, "exp-1", link.ExpenseID)
	assert.True(t, link.Amount.Equal(amt("60.00")))
	assert.NotEmpty(t, link.ID)
}

func TestAssociate_RejectsNonPositiveAmount(t *testing.T) {
	store := newFakeLedgerStore()
	store.addTxn("org-1", "txn-1", "-100.00")
	store.addExpense("org-1", "exp-1", "60.00")
	ledger := newTestLedger(store)

	for _, amount := range []string{"0", "-10.00"} {
		_, err := ledger.Associate("org-1", "txn-1", "exp-1", amt(amount))
		assert.ErrorIs(t, err, ErrAmountNotPositive, "amount %s", amount)
	}
	assert.Empty(t, store.links)
}

func TestAssociate_TransactionNotFound(t *testing.T) {
	store := newFakeLedgerStore()
	store.addExpense("org-1", "exp-1", "60.00")
	ledger := newTestLedger(store)

	_, err := ledger.Associate("org-1", "missing", "exp-1", amt("10.00"))
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestAssociate_ForeignOrganizationTransaction(t *testing.T) {
	store := newFakeLedgerStore()
	store.addTxn("org-2", "txn-1", "-100.00")
	store.addExpense("org-1", "exp-1", "60.00")
	ledger := newTestLedger(store)

	_, err := ledger.Associate("org-1", "txn-1", "exp-1", amt("10.00"))
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestAssociate_RejectsCreditTransaction(t *testing.T) {
	store := newFakeLedgerStore()
	store.addTxn("org-1", "txn-1", "100.00")
	store.addExpense("org-1", "exp-1", "60.00")
	ledger := newTestLedger(store)

	_, err := ledger.Associate("org-1", "txn-1", "exp-1", amt("10.00"))
	assert.ErrorIs(t, err, ErrTransactionNotDebit)
}

func TestAssociate_ExpenseNotFound(t *testing.T) {
	store := newFakeLedgerStore()
	store.addTxn("org-1", "txn-1", "-100.00")
	ledger := newTestLedger(store)

	_, err := ledger.Associate("org-1", "txn-1", "missing", amt("10.00"))
	assert.ErrorIs(t, err, ErrExpenseNotFound)
}

func TestAssociate_DuplicatePair(t *testing.T) {
	store := newFakeLedgerStore()
	store.addTxn("org-1", "txn-1", "-100.00")
	store.addExpense("org-1", "exp-1", "60.00")
	ledger := newTestLedger(store)

	_, err := ledger.Associate("org-1", "txn-1", "exp-1", amt("20.00"))
	require.NoError(t, err)

	_, err = ledger.Associate("org-1", "txn-1", "exp-1", amt("20.00"))
	assert.ErrorIs(t, err, ErrDuplicateAssociation)
	assert.Len(t, store.links, 1)
}

func TestAssociate_ReportsTransactionHeadroom(t *testing.T) {
	store := newFakeLedgerStore()
	store.addTxn("org-1", "txn-1", "-100.00")
	store.addExpense("org-1", "exp-1", "70.00")
	store.addExpense("org-1", "exp-2", "70.00")
	ledger := newTestLedger(store)

	_, err := ledger.Associate("org-1", "txn-1", "exp-1", amt("70.00"))
	require.NoError(t, err)

	_, err = ledger.Associate("org-1", "txn-1", "exp-2", amt("40.00"))

	var exceeds *AmountExceedsRemainingError
	require.ErrorAs(t, err, &exceeds)
	assert.True(t, exceeds.Remaining.Equal(amt("30.00")), "got %s", exceeds.Remaining)
}

func TestAssociate_ExactRemainingSucceeds(t *testing.T) {
	store := newFakeLedgerStore()
	store.addTxn("org-1", "txn-1", "-100.00")
	store.addExpense("org-1", "exp-1", "70.00")
	store.addExpense("org-1", "exp-2", "30.00")
	ledger := newTestLedger(store)

	_, err := ledger.Associate("org-1", "txn-1", "exp-1", amt("70.00"))
	require.NoError(t, err)
	_, err = ledger.Associate("org-1", "txn-1", "exp-2", amt("30.00"))
	require.NoError(t, err)

	txn := store.txns["txn-1"]
	links, _ := associationStore{store}.ListByTransaction("txn-1")
	assert.True(t, RemainingToReconcile(txn, links).IsZero())
}

func TestAssociate_ExceedsExpenseTotal(t *testing.T) {
	store := newFakeLedgerStore()
	store.addTxn("org-1", "txn-1", "-100.00")
	store.addExpense("org-1", "exp-1", "40.00")
	ledger := newTestLedger(store)

	_, err := ledger.Associate("org-1", "txn-1", "exp-1", amt("50.00"))

	var exceeds *AmountExceedsExpenseError
	require.ErrorAs(t, err, &exceeds)
	assert.True(t, exceeds.Total.Equal(amt("40.00")))
}

func TestAssociate_ExpenseTotalNotRemaining(t *testing.T) {
	// the expense-side limit is the full TTC total per association, so the
	// same expense can absorb its total from several transactions
	store := newFakeLedgerStore()
	store.addTxn("org-1", "txn-1", "-100.00")
	store.addTxn("org-1", "txn-2", "-100.00")
	store.addExpense("org-1", "exp-1", "40.00")
	ledger := newTestLedger(store)

	_, err := ledger.Associate("org-1", "txn-1", "exp-1", amt("40.00"))
	require.NoError(t, err)

	_, err = ledger.Associate("org-1", "txn-2", "exp-1", amt("40.00"))
	require.NoError(t, err)

	expense := store.expenses["exp-1"]
	remaining, err := ledger.ExpenseRemaining(expense)
	require.NoError(t, err)
	assert.True(t, remaining.Equal(amt("-40.00")), "got %s", remaining)
}

func TestRemove_DeletesLink(t *testing.T) {
	store := newFakeLedgerStore()
	store.addTxn("org-1", "txn-1", "-100.00")
	store.addExpense("org-1", "exp-1", "60.00")
	ledger := newTestLedger(store)

	link, err := ledger.Associate("org-1", "txn-1", "exp-1", amt("60.00"))
	require.NoError(t, err)

	require.NoError(t, ledger.Remove("org-1", link.ID))
	assert.Empty(t, store.links)
}

func TestRemove_FreesHeadroom(t *testing.T) {
	store := newFakeLedgerStore()
	store.addTxn("org-1", "txn-1", "-100.00")
	store.addExpense("org-1", "exp-1", "100.00")
	store.addExpense("org-1", "exp-2", "100.00")
	ledger := newTestLedger(store)

	link, err := ledger.Associate("org-1", "txn-1", "exp-1", amt("100.00"))
	require.NoError(t, err)
	require.NoError(t, ledger.Remove("org-1", link.ID))

	_, err = ledger.Associate("org-1", "txn-1", "exp-2", amt("100.00"))
	assert.NoError(t, err)
}

func TestRemove_NotFound(t *testing.T) {
	ledger := newTestLedger(newFakeLedgerStore())

	err := ledger.Remove("org-1", "missing")
	assert.ErrorIs(t, err, ErrAssociationNotFound)
}

func TestRemove_ForeignOrganization(t *testing.T) {
	store := newFakeLedgerStore()
	store.addTxn("org-1", "txn-1", "-100.00")
	store.addExpense("org-1", "exp-1", "60.00")
	ledger := newTestLedger(store)

	link, err := ledger.Associate("org-1", "txn-1", "exp-1", amt("60.00"))
	require.NoError(t, err)

	err = ledger.Remove("org-2", link.ID)
	assert.ErrorIs(t, err, ErrAssociationNotFound)
	assert.Len(t, store.links, 1)
}

func TestExpenseRemaining(t *testing.T) {
	store := newFakeLedgerStore()
	store.addTxn("org-1", "txn-1", "-100.00")
	store.addExpense("org-1", "exp-1", "80.00")
	ledger := newTestLedger(store)

	_, err := ledger.Associate("org-1", "txn-1", "exp-1", amt("30.00"))
	require.NoError(t, err)

	remaining, err := ledger.ExpenseRemaining(store.expenses["exp-1"])
	require.NoError(t, err)
	assert.True(t, remaining.Equal(amt("50.00")))
}
