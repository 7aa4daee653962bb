package advisor

import (
	"encoding/json"
	"fmt"

	"github.com/fintrack/fintrack/internal/entities"
)

const systemPrompt = `You are a helpful AI financial advisor. Follow these guidelines when responding:

1. Use markdown formatting for clear presentation.
2. Structure your response with a clear summary at the top, bulleted
   lists for main points and numbered lists for sequential steps.
3. When presenting data, format monetary values consistently and use
   tables for comparing categories. Include percentages and specific
   numbers when relevant.
4. For transaction analysis, focus on spending patterns and trends,
   identify unusual activity, suggest actionable improvements and
   quantify savings opportunities where possible.

Keep responses professional yet conversational.`

// promptTransaction is the trimmed transaction shape fed to the model;
// internal identifiers stay out of the prompt.
type promptTransaction struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

// BuildConversation assembles the message list for a completion call:
// the system prompt with the user's recent transactions as context,
// prior turns, then the new user message.
func BuildConversation(transactions []entities.Transaction, history []Message, userMessage string) ([]Message, error) {
	trimmed := make([]promptTransaction, 0, len(transactions))
	for _, tx := range transactions {
		trimmed = append(trimmed, promptTransaction{
			Description: tx.Description,
			Amount:      tx.Amount,
			Type:        string(tx.Type),
			Category:    tx.Category,
			Date:        tx.Date.Format("2006-01-02"),
		})
	}

	context, err := json.Marshal(trimmed)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction context: %w", err)
	}

	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{
		Role:    "system",
		Content: fmt.Sprintf("%s\n\nRecent transactions: %s", systemPrompt, context),
	})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: "user", Content: userMessage})
	return messages, nil
}
