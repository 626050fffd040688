package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense approval statuses.
const (
	ExpensePending  = "PENDING"
	ExpenseApproved = "APPROVED"
	ExpenseRejected = "REJECTED"
)

// Expense is an expense claim. Expense CRUD and the approval workflow are
// owned by a collaborating service; the reconciliation ledger only reads the
// identity, TTC amount and status.
type Expense struct {
	ID             string          `gorm:"primaryKey;size:36"`
	OrganizationID string          `gorm:"size:36;index;not null"`
	Description    string          `gorm:"size:255;not null"`
	AmountTTC      decimal.Decimal `gorm:"type:decimal(12,2);not null"` // total including tax
	Status         string          `gorm:"size:16;index;not null;default:PENDING"`
	Date           time.Time       `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Organization Organization `gorm:"constraint:OnDelete:CASCADE"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
