package advisor

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack/internal/entities"
)

func TestBuildConversation(t *testing.T) {
	transactions := []entities.Transaction{
		{
			Description: "Lunch",
			Amount:      12.50,
			Type:        entities.TransactionTypeExpense,
			Category:    "Food & Dining",
			Date:        time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC),
		},
	}
	history := []Message{
		{Role: "user", Content: "How much did I spend on food?"},
		{Role: "assistant", Content: "You spent $12.50."},
	}

	messages, err := BuildConversation(transactions, history, "And this week?")
	require.NoError(t, err)
	require.Len(t, messages, 4)

	// System prompt carries the transaction context
	assert.Equal(t, "system", messages[0].Role)
	assert.Contains(t, messages[0].Content, "Lunch")
	assert.Contains(t, messages[0].Content, "2025-08-15")

	// History sits between system prompt and the new message
	assert.Equal(t, history[0], messages[1])
	assert.Equal(t, history[1], messages[2])
	assert.Equal(t, Message{Role: "user", Content: "And this week?"}, messages[3])
}

func TestBuildConversation_NoTransactions(t *testing.T) {
	messages, err := BuildConversation(nil, nil, "Any advice?")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].Role)
	assert.Contains(t, messages[0].Content, "Recent transactions: []")
}

func TestBuildConversation_NoInternalIdentifiers(t *testing.T) {
	transactions := []entities.Transaction{
		{
			ID:          42,
			UserID:      7,
			Description: "Rent",
			Amount:      1200,
			Type:        entities.TransactionTypeExpense,
			Category:    "Bills & Utilities",
			Date:        time.Now(),
		},
	}

	messages, err := BuildConversation(transactions, nil, "hi")
	require.NoError(t, err)

	// Row and owner IDs stay out of the prompt
	assert.False(t, strings.Contains(messages[0].Content, "user_id"))
	assert.False(t, strings.Contains(messages[0].Content, `"id"`))
}
