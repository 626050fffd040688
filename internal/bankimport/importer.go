package bankimport

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wallforfry/associsse/internal/models"
)

// ErrDuplicateFingerprint is returned by TransactionStore.Create when the
// fingerprint unique index rejects the insert.
var ErrDuplicateFingerprint = errors.New("duplicate transaction fingerprint")

// TransactionStore is the persistence surface the import pipeline needs.
// Find methods return (nil, nil) when nothing matches.
type TransactionStore interface {
	FindByFingerprint(organizationID, fingerprint string) (*models.BankTransaction, error)
	Create(txn *models.BankTransaction) error
	ListByCreation(organizationID string) ([]models.BankTransaction, error)
	UpdateFingerprint(id, fingerprint string) error
}

// Summary reports the outcome of one CSV import.
type Summary struct {
	ImportedCount int    `json:"importedCount"`
	SkippedCount  int    `json:"skippedCount"`
	FileName      string `json:"fileName"`
}

// RecomputeSummary reports the outcome of a fingerprint recompute run.
type RecomputeSummary struct {
	UpdatedCount      int `json:"updatedCount"`
	ErrorCount        int `json:"errorCount"`
	TotalTransactions int `json:"totalTransactions"`
}

// Importer drives statement bytes through decoding, parsing, validation and
// persistence.
type Importer struct {
	store   TransactionStore
	headers Headers
	log     zerolog.Logger
}

// NewImporter creates an Importer expecting the given statement headers.
func NewImporter(store TransactionStore, headers Headers, log zerolog.Logger) *Importer {
	return &Importer{store: store, headers: headers, log: log}
}

// Import ingests one uploaded statement for an organization. Validation
// failures come back as *ValidationError and nothing is written; once
// persistence starts, a storage failure aborts the run but rows already
// created stay committed.
func (im *Importer) Import(organizationID, fileName string, raw []byte) (*Summary, error) {
	text := DecodeStatement(raw)
	rows := ParseCSV(text)

	lines, err := ValidateRows(rows, im.headers)
	if err != nil {
		return nil, err
	}

	summary := &Summary{FileName: fileName}
	for _, line := range lines {
		fingerprint := Fingerprint(line.Date, line.Amount, line.Description, line.Balance, organizationID)

		existing, err := im.store.FindByFingerprint(organizationID, fingerprint)
		if err != nil {
			return nil, fmt.Errorf("lookup fingerprint: %w", err)
		}
		if existing != nil {
			summary.SkippedCount++
			continue
		}

		txn := &models.BankTransaction{
			OrganizationID: organizationID,
			Fingerprint:    fingerprint,
			Date:           line.Date,
			ValueDate:      line.ValueDate,
			Amount:         line.Amount,
			Description:    line.Description,
			Balance:        line.Balance,
		}
		if err := im.store.Create(txn); err != nil {
			// a concurrent import can win the pre-check race; the unique
			// index catching it is the same outcome as the lookup
			if errors.Is(err, ErrDuplicateFingerprint) {
				summary.SkippedCount++
				continue
			}
			return nil, fmt.Errorf("create transaction: %w", err)
		}
		summary.ImportedCount++
	}

	im.log.Info().
		Str("organization", organizationID).
		Str("file", fileName).
		Int("imported", summary.ImportedCount).
		Int("skipped", summary.SkippedCount).
		Msg("bank statement imported")

	return summary, nil
}

// Recompute re-derives every stored transaction's fingerprint from its
// current field values, bringing rows imported under an older fingerprint
// contract in line with the current one. Rows are processed in creation
// order; a recomputed fingerprint that collides with a different transaction
// is skipped and counted as an error rather than overwritten, since
// overwriting would silently merge two distinct transactions. Per-row
// failures never abort the remaining rows.
func (im *Importer) Recompute(organizationID string) (*RecomputeSummary, error) {
	txns, err := im.store.ListByCreation(organizationID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	summary := &RecomputeSummary{TotalTransactions: len(txns)}
	for _, txn := range txns {
		fingerprint := Fingerprint(txn.Date, txn.Amount, txn.Description, txn.Balance, organizationID)

		other, err := im.store.FindByFingerprint(organizationID, fingerprint)
		if err != nil {
			summary.ErrorCount++
			continue
		}
		if other != nil && other.ID != txn.ID {
			im.log.Warn().
				Str("transaction", txn.ID).
				Str("collides_with", other.ID).
				Msg("fingerprint collision, skipping")
			summary.ErrorCount++
			continue
		}

		if err := im.store.UpdateFingerprint(txn.ID, fingerprint); err != nil {
			summary.ErrorCount++
			continue
		}
		summary.UpdatedCount++
	}

	return summary, nil
}
