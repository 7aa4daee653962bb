// Package chats provides owner-scoped database operations for advisor
// conversations.
package chats

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fintrack/fintrack/internal/database"
	"github.com/fintrack/fintrack/internal/entities"
)

// Repository handles all chat database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new chats repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create starts a new conversation owned by userID.
func (r *Repository) Create(userID uint, title string) (*entities.Chat, error) {
	chat := &entities.Chat{
		UID:    uuid.NewString(),
		UserID: userID,
		Title:  title,
	}
	if err := r.db.Create(chat).Error; err != nil {
		return nil, err
	}
	return chat, nil
}

// GetByUID retrieves one of the user's conversations with its messages.
func (r *Repository) GetByUID(userID uint, uid string) (*entities.Chat, error) {
	var chat entities.Chat
	err := r.db.Preload("Messages").
		Where("uid = ? AND user_id = ?", uid, userID).
		First(&chat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, database.ErrNotFound
		}
		return nil, err
	}
	return &chat, nil
}

// List returns the user's conversations without message bodies, newest
// first.
func (r *Repository) List(userID uint) ([]entities.Chat, error) {
	var chats []entities.Chat
	err := r.db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&chats).Error
	return chats, err
}

// AppendMessage adds a message to one of the user's conversations.
func (r *Repository) AppendMessage(userID uint, uid string, role entities.ChatRole, content string) error {
	chat, err := r.GetByUID(userID, uid)
	if err != nil {
		return err
	}
	msg := entities.ChatMessage{
		ChatID:  chat.ID,
		Role:    role,
		Content: content,
	}
	if err := r.db.Create(&msg).Error; err != nil {
		return err
	}
	// Touch updated_at so List orders by recent activity.
	return r.db.Model(chat).Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}
