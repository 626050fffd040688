package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/wallforfry/associsse/internal/models"
)

// AssociationStore is the gorm-backed persistence for expense associations.
type AssociationStore struct {
	db *gorm.DB
}

func NewAssociationStore(db *gorm.DB) *AssociationStore {
	return &AssociationStore{db: db}
}

// Find returns the association for the (transaction, expense) pair, or
// (nil, nil) when absent.
func (s *AssociationStore) Find(transactionID, expenseID string) (*models.ExpenseAssociation, error) {
	var link models.ExpenseAssociation
	err := s.db.Where("bank_transaction_id = ? AND expense_id = ?", transactionID, expenseID).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find association: %w", err)
	}
	return &link, nil
}

// FindByID returns the association, or (nil, nil) when absent.
func (s *AssociationStore) FindByID(id string) (*models.ExpenseAssociation, error) {
	var link models.ExpenseAssociation
	err := s.db.Where("id = ?", id).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find association: %w", err)
	}
	return &link, nil
}

// ListByTransaction returns all associations of a transaction.
func (s *AssociationStore) ListByTransaction(transactionID string) ([]models.ExpenseAssociation, error) {
	var links []models.ExpenseAssociation
	err := s.db.Where("bank_transaction_id = ?", transactionID).Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("list associations: %w", err)
	}
	return links, nil
}

// ListByExpense returns all associations of an expense across transactions.
func (s *AssociationStore) ListByExpense(expenseID string) ([]models.ExpenseAssociation, error) {
	var links []models.ExpenseAssociation
	err := s.db.Where("expense_id = ?", expenseID).Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("list associations: %w", err)
	}
	return links, nil
}

// Create inserts an association.
func (s *AssociationStore) Create(link *models.ExpenseAssociation) error {
	if err := s.db.Create(link).Error; err != nil {
		return fmt.Errorf("create association: %w", err)
	}
	return nil
}

// Delete removes an association by id.
func (s *AssociationStore) Delete(id string) error {
	if err := s.db.Delete(&models.ExpenseAssociation{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete association: %w", err)
	}
	return nil
}
