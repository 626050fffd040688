package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseAssociation allocates part of a bank transaction's amount to an
// expense. Amount is always positive. An association is never updated in
// place: to change the amount, remove and recreate.
type ExpenseAssociation struct {
	ID                string          `gorm:"primaryKey;size:36"`
	BankTransactionID string          `gorm:"size:36;index;not null;uniqueIndex:idx_transaction_expense"`
	ExpenseID         string          `gorm:"size:36;index;not null;uniqueIndex:idx_transaction_expense"`
	Amount            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt         time.Time

	BankTransaction BankTransaction `gorm:"constraint:OnDelete:CASCADE"`
	Expense         Expense         `gorm:"constraint:OnDelete:CASCADE"`
}

func (a *ExpenseAssociation) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
