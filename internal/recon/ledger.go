package recon

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wallforfry/associsse/internal/models"
)

// Typed rejections of a single association attempt. They are user-facing and
// non-fatal: one failed association never affects the others.
var (
	ErrTransactionNotFound  = errors.New("bank transaction not found")
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrAssociationNotFound  = errors.New("association not found")
	ErrAmountNotPositive    = errors.New("amount must be positive")
	ErrDuplicateAssociation = errors.New("expense is already associated with this transaction")
	ErrTransactionNotDebit  = errors.New("only debit transactions can be associated with expenses")
)

// AmountExceedsRemainingError reports the transaction's actual headroom when
// an association would over-reconcile it.
type AmountExceedsRemainingError struct {
	Remaining decimal.Decimal
}

func (e *AmountExceedsRemainingError) Error() string {
	return fmt.Sprintf("amount exceeds remaining transaction amount (%s)", e.Remaining)
}

// AmountExceedsExpenseError reports the expense total when a single
// association asks for more than the expense is worth.
type AmountExceedsExpenseError struct {
	Total decimal.Decimal
}

func (e *AmountExceedsExpenseError) Error() string {
	return fmt.Sprintf("amount exceeds expense amount (%s)", e.Total)
}

// TransactionReader looks up an organization's transaction; (nil, nil) when
// absent or owned by another organization.
type TransactionReader interface {
	Find(organizationID, id string) (*models.BankTransaction, error)
}

// ExpenseReader looks up an organization's expense; (nil, nil) when absent.
type ExpenseReader interface {
	Find(organizationID, id string) (*models.Expense, error)
}

// AssociationStore is the persistence surface of the ledger. Find methods
// return (nil, nil) when nothing matches.
type AssociationStore interface {
	Find(transactionID, expenseID string) (*models.ExpenseAssociation, error)
	FindByID(id string) (*models.ExpenseAssociation, error)
	ListByTransaction(transactionID string) ([]models.ExpenseAssociation, error)
	ListByExpense(expenseID string) ([]models.ExpenseAssociation, error)
	Create(link *models.ExpenseAssociation) error
	Delete(id string) error
}

// Ledger creates and removes transaction/expense associations while holding
// the reconciliation invariants:
//
//   - the sum of a transaction's association amounts never exceeds the
//     absolute transaction amount
//   - a single association never exceeds the expense's TTC total
//   - at most one association per (transaction, expense) pair
type Ledger struct {
	transactions TransactionReader
	expenses     ExpenseReader
	associations AssociationStore
}

// NewLedger creates a Ledger over the given stores.
func NewLedger(transactions TransactionReader, expenses ExpenseReader, associations AssociationStore) *Ledger {
	return &Ledger{transactions: transactions, expenses: expenses, associations: associations}
}

// Associate allocates amount of the transaction to the expense and returns
// the created association.
//
// The expense-side check is deliberately against the expense's full TTC
// total, not its remaining balance across other transactions; the
// transaction-side check does use the running remaining amount. Changing
// either side is a product decision, not a bug fix.
func (l *Ledger) Associate(organizationID, transactionID, expenseID string, amount decimal.Decimal) (*models.ExpenseAssociation, error) {
	if amount.Sign() <= 0 {
		return nil, ErrAmountNotPositive
	}

	txn, err := l.transactions.Find(organizationID, transactionID)
	if err != nil {
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	if txn == nil {
		return nil, ErrTransactionNotFound
	}
	if !txn.Amount.IsNegative() {
		return nil, ErrTransactionNotDebit
	}

	expense, err := l.expenses.Find(organizationID, expenseID)
	if err != nil {
		return nil, fmt.Errorf("find expense: %w", err)
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}

	existing, err := l.associations.Find(transactionID, expenseID)
	if err != nil {
		return nil, fmt.Errorf("find association: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateAssociation
	}

	links, err := l.associations.ListByTransaction(transactionID)
	if err != nil {
		return nil, fmt.Errorf("list associations: %w", err)
	}
	remaining := txn.Amount.Abs().Sub(AssociatedAmount(links))
	if amount.GreaterThan(remaining) {
		return nil, &AmountExceedsRemainingError{Remaining: remaining}
	}

	if amount.GreaterThan(expense.AmountTTC) {
		return nil, &AmountExceedsExpenseError{Total: expense.AmountTTC}
	}

	link := &models.ExpenseAssociation{
		BankTransactionID: transactionID,
		ExpenseID:         expenseID,
		Amount:            amount,
	}
	if err := l.associations.Create(link); err != nil {
		return nil, fmt.Errorf("create association: %w", err)
	}
	return link, nil
}

// Remove deletes an association after verifying the caller's organization
// owns the underlying transaction. No invariant recheck is needed: removal
// can only relax the sums.
func (l *Ledger) Remove(organizationID, associationID string) error {
	link, err := l.associations.FindByID(associationID)
	if err != nil {
		return fmt.Errorf("find association: %w", err)
	}
	if link == nil {
		return ErrAssociationNotFound
	}

	txn, err := l.transactions.Find(organizationID, link.BankTransactionID)
	if err != nil {
		return fmt.Errorf("find transaction: %w", err)
	}
	if txn == nil {
		// foreign organization: report not-found rather than leak existence
		return ErrAssociationNotFound
	}

	if err := l.associations.Delete(associationID); err != nil {
		return fmt.Errorf("delete association: %w", err)
	}
	return nil
}

// ExpenseRemaining returns the expense's TTC total minus everything already
// associated with it across all transactions.
func (l *Ledger) ExpenseRemaining(expense *models.Expense) (decimal.Decimal, error) {
	links, err := l.associations.ListByExpense(expense.ID)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("list associations: %w", err)
	}
	return expense.AmountTTC.Sub(AssociatedAmount(links)), nil
}
