package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/wallforfry/associsse/internal/bankimport"
	"github.com/wallforfry/associsse/internal/models"
)

// TransactionStore is the gorm-backed persistence for bank transactions. It
// satisfies both bankimport.TransactionStore and recon.TransactionReader.
type TransactionStore struct {
	db *gorm.DB
}

func NewTransactionStore(db *gorm.DB) *TransactionStore {
	return &TransactionStore{db: db}
}

// Find returns the organization's transaction, or (nil, nil) when absent.
func (s *TransactionStore) Find(organizationID, id string) (*models.BankTransaction, error) {
	var txn models.BankTransaction
	err := s.db.Where("id = ? AND organization_id = ?", id, organizationID).First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	return &txn, nil
}

// FindByFingerprint returns the organization's transaction with the given
// fingerprint, or (nil, nil) when absent.
func (s *TransactionStore) FindByFingerprint(organizationID, fingerprint string) (*models.BankTransaction, error) {
	var txn models.BankTransaction
	err := s.db.Where("organization_id = ? AND fingerprint = ?", organizationID, fingerprint).First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by fingerprint: %w", err)
	}
	return &txn, nil
}

// Create inserts a transaction, mapping a fingerprint unique-index violation
// onto bankimport.ErrDuplicateFingerprint.
func (s *TransactionStore) Create(txn *models.BankTransaction) error {
	err := s.db.Create(txn).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return bankimport.ErrDuplicateFingerprint
	}
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// ListByCreation returns the organization's transactions in creation order,
// the iteration order of the fingerprint recompute.
func (s *TransactionStore) ListByCreation(organizationID string) ([]models.BankTransaction, error) {
	var txns []models.BankTransaction
	err := s.db.Where("organization_id = ?", organizationID).
		Order("created_at ASC, id ASC").
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}

// UpdateFingerprint rewrites a single transaction's fingerprint.
func (s *TransactionStore) UpdateFingerprint(id, fingerprint string) error {
	err := s.db.Model(&models.BankTransaction{}).
		Where("id = ?", id).
		Update("fingerprint", fingerprint).Error
	if err != nil {
		return fmt.Errorf("update fingerprint: %w", err)
	}
	return nil
}

// ListWithAssociations returns the organization's transactions newest first,
// with associations and their expenses preloaded for the accounting view.
func (s *TransactionStore) ListWithAssociations(organizationID string) ([]models.BankTransaction, error) {
	var txns []models.BankTransaction
	err := s.db.Where("organization_id = ?", organizationID).
		Preload("Associations").
		Preload("Associations.Expense").
		Order("date DESC, created_at DESC").
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}
