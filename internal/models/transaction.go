package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BankTransaction is one imported bank statement line. Rows are created only
// by the CSV import pipeline and are immutable afterwards, except for the
// fingerprint-recompute maintenance operation.
//
// Amount keeps the bank's sign convention: negative = debit, positive =
// credit. The fingerprint includes the organization id, so a global unique
// index is equivalent to per-organization uniqueness.
type BankTransaction struct {
	ID             string          `gorm:"primaryKey;size:36"`
	OrganizationID string          `gorm:"size:36;index;not null"`
	Fingerprint    string          `gorm:"size:64;uniqueIndex;not null"`
	Date           time.Time       `gorm:"index;not null"`
	ValueDate      time.Time       `gorm:"not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Description    string          `gorm:"type:text;not null"`
	Balance        decimal.Decimal `gorm:"type:decimal(12,2);not null"` // running balance after the line
	CreatedAt      time.Time       `gorm:"index"`

	Organization Organization         `gorm:"constraint:OnDelete:CASCADE"`
	Associations []ExpenseAssociation `gorm:"foreignKey:BankTransactionID"`
}

func (t *BankTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
