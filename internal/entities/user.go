package entities

import (
	"time"

	"gorm.io/gorm"
)

// AuthProvider identifies how a user account was created and how it
// authenticates. A user has exactly one provider for its lifetime.
type AuthProvider string

const (
	ProviderCredentials AuthProvider = "credentials" // email + password
	ProviderGoogle      AuthProvider = "google"      // Google OAuth2
)

// GuestUserID is the sentinel owner for resources created in guest mode.
// Real user IDs are assigned from 1, so the sentinel can never collide.
// Guest-owned resources are mutually visible to anyone in guest mode.
const GuestUserID = uint(0)

type User struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"size:100" json:"name,omitempty"`
	Email        string       `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string       `gorm:"size:100" json:"-"` // empty for provider users
	Provider     AuthProvider `gorm:"size:20;default:'credentials'" json:"provider"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
