package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the authenticated principal. Account management (registration,
// passwords, sessions) lives outside this service; only identity is stored.
type User struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:128"`
	Email     string `gorm:"size:128;uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Membership roles and statuses.
const (
	RoleOwner  = "OWNER"
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"

	MembershipActive   = "ACTIVE"
	MembershipInactive = "INACTIVE"
	MembershipPending  = "PENDING"
)

// Membership links a user to an organization. The auth middleware resolves
// the caller's first ACTIVE membership into the request context.
type Membership struct {
	ID             string `gorm:"primaryKey;size:36"`
	UserID         string `gorm:"size:36;index;not null;uniqueIndex:idx_user_org"`
	OrganizationID string `gorm:"size:36;index;not null;uniqueIndex:idx_user_org"`
	Role           string `gorm:"size:16;not null;default:MEMBER"`
	Status         string `gorm:"size:16;index;not null;default:PENDING"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	User         User         `gorm:"constraint:OnDelete:CASCADE"`
	Organization Organization `gorm:"constraint:OnDelete:CASCADE"`
}

func (m *Membership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
