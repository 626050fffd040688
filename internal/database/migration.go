package database

import (
	"fmt"

	"github.com/wallforfry/associsse/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Membership{},
		&models.Expense{},
		&models.BankTransaction{},
		&models.ExpenseAssociation{},
		&models.Activity{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
