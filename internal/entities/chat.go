package entities

import (
	"time"

	"gorm.io/gorm"
)

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// Chat is a conversation with the financial advisor. The UID is handed
// to the client so a conversation can be resumed across requests.
type Chat struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UID       string         `gorm:"uniqueIndex;size:36" json:"uid"`
	UserID    uint           `gorm:"index;column:user_id" json:"user_id"`
	Title     string         `gorm:"size:200" json:"title"`
	Messages  []ChatMessage  `gorm:"foreignKey:ChatID" json:"messages,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ChatID    uint      `gorm:"index" json:"chat_id"`
	Role      ChatRole  `gorm:"size:20" json:"role"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
