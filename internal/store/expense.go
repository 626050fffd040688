package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/wallforfry/associsse/internal/models"
)

// ExpenseStore reads expense records owned by the expense workflow
// collaborator; the reconciliation core never writes them.
type ExpenseStore struct {
	db *gorm.DB
}

func NewExpenseStore(db *gorm.DB) *ExpenseStore {
	return &ExpenseStore{db: db}
}

// Find returns the organization's expense, or (nil, nil) when absent.
func (s *ExpenseStore) Find(organizationID, id string) (*models.Expense, error) {
	var expense models.Expense
	err := s.db.Where("id = ? AND organization_id = ?", id, organizationID).First(&expense).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find expense: %w", err)
	}
	return &expense, nil
}
