package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity records a domain event for the organization's audit feed.
// Metadata holds a JSON document describing the event.
type Activity struct {
	ID             string    `gorm:"primaryKey;size:36"`
	OrganizationID string    `gorm:"size:36;index;not null"`
	UserID         string    `gorm:"size:36;index"`
	Type           string    `gorm:"size:64;not null"`
	EntityType     string    `gorm:"size:32"`
	EntityID       string    `gorm:"size:36"`
	Description    string    `gorm:"type:text"`
	Metadata       string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"index"`

	Organization Organization `gorm:"constraint:OnDelete:CASCADE"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
