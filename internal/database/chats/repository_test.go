package chats

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fintrack/fintrack/internal/database"
	"github.com/fintrack/fintrack/internal/entities"
)

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&entities.Chat{}, &entities.ChatMessage{}))
	return NewRepository(db)
}

func TestRepository_CreateAndResume(t *testing.T) {
	repo := setupTestRepo(t)

	chat, err := repo.Create(1, "How am I doing this month?")
	require.NoError(t, err)
	require.NotEmpty(t, chat.UID)

	require.NoError(t, repo.AppendMessage(1, chat.UID, entities.ChatRoleUser, "How am I doing this month?"))
	require.NoError(t, repo.AppendMessage(1, chat.UID, entities.ChatRoleAssistant, "You spent less than usual."))

	got, err := repo.GetByUID(1, chat.UID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, entities.ChatRoleUser, got.Messages[0].Role)
	assert.Equal(t, entities.ChatRoleAssistant, got.Messages[1].Role)
}

func TestRepository_OwnerScoping(t *testing.T) {
	repo := setupTestRepo(t)

	chat, err := repo.Create(1, "Budget advice")
	require.NoError(t, err)

	// Another user cannot read or append to the conversation
	_, err = repo.GetByUID(2, chat.UID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	err = repo.AppendMessage(2, chat.UID, entities.ChatRoleUser, "hijack attempt")
	assert.ErrorIs(t, err, database.ErrNotFound)

	got, err := repo.GetByUID(1, chat.UID)
	require.NoError(t, err)
	assert.Empty(t, got.Messages)
}

func TestRepository_List(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Create(1, "First")
	require.NoError(t, err)
	_, err = repo.Create(1, "Second")
	require.NoError(t, err)
	_, err = repo.Create(2, "Someone else's")
	require.NoError(t, err)

	items, err := repo.List(1)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	for _, chat := range items {
		assert.Equal(t, uint(1), chat.UserID)
	}
}
