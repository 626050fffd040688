package activity

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/wallforfry/associsse/internal/models"
)

// Activity types recorded by the reconciliation core.
const (
	TypeTransactionsImported   = "BANK_TRANSACTIONS_IMPORTED"
	TypeExpenseAssociated      = "BANK_TRANSACTION_EXPENSE_ASSOCIATED"
	TypeFingerprintsRecomputed = "BANK_TRANSACTION_FINGERPRINTS_RECOMPUTED"
)

// Recorder writes activity feed entries. Recording is fire-and-forget: a
// failed write is logged and must never fail the parent operation.
type Recorder struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewRecorder(db *gorm.DB, log zerolog.Logger) *Recorder {
	return &Recorder{db: db, log: log}
}

// Entry describes one activity to record.
type Entry struct {
	OrganizationID string
	UserID         string
	Type           string
	EntityType     string
	EntityID       string
	Description    string
	Metadata       map[string]interface{}
}

// Record persists the entry, swallowing any failure.
func (r *Recorder) Record(e Entry) {
	var metadata string
	if e.Metadata != nil {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			r.log.Warn().Err(err).Str("type", e.Type).Msg("marshal activity metadata")
		} else {
			metadata = string(b)
		}
	}

	act := models.Activity{
		OrganizationID: e.OrganizationID,
		UserID:         e.UserID,
		Type:           e.Type,
		EntityType:     e.EntityType,
		EntityID:       e.EntityID,
		Description:    e.Description,
		Metadata:       metadata,
	}
	if err := r.db.Create(&act).Error; err != nil {
		r.log.Warn().Err(err).Str("type", e.Type).Msg("record activity")
	}
}

// Recent returns the organization's latest activities, newest first.
func (r *Recorder) Recent(organizationID string, limit int) ([]models.Activity, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var activities []models.Activity
	err := r.db.Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}
