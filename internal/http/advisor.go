package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack/internal/advisor"
	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/database"
	"github.com/fintrack/fintrack/internal/database/chats"
	"github.com/fintrack/fintrack/internal/database/transactions"
	"github.com/fintrack/fintrack/internal/entities"
)

// recentTransactionLimit bounds how much ledger context is sent to the model.
const recentTransactionLimit = 50

type AdvisorController struct {
	client       *advisor.Client
	transactions *transactions.Repository
	chats        *chats.Repository
}

func NewAdvisorController(client *advisor.Client, txRepo *transactions.Repository, chatRepo *chats.Repository) *AdvisorController {
	return &AdvisorController{
		client:       client,
		transactions: txRepo,
		chats:        chatRepo,
	}
}

type chatRequest struct {
	ChatUID string `json:"chat_uid"` // empty starts a new conversation
	Message string `json:"message"`
}

type chatResponse struct {
	ChatUID string `json:"chat_uid"`
	Reply   string `json:"reply"`
}

// ListChats returns the user's conversations, newest first.
// GET /api/advisor/chats
func (ac *AdvisorController) ListChats(c *gin.Context) {
	items, err := ac.chats.List(auth.GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list chats")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

// GetChat returns one conversation with its messages.
// GET /api/advisor/chats/:uid
func (ac *AdvisorController) GetChat(c *gin.Context) {
	chat, err := ac.chats.GetByUID(auth.GetUserID(c), c.Param("uid"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondNotFound(c, "chat")
			return
		}
		respondInternalError(c, err, "get chat")
		return
	}
	c.JSON(http.StatusOK, chat)
}

// Chat sends a message to the advisor and returns the reply. The user's
// recent transactions are attached as context for every completion.
// POST /api/advisor/chat
func (ac *AdvisorController) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		respondBadRequest(c, "message is required")
		return
	}

	userID := auth.GetUserID(c)

	var chat *entities.Chat
	var history []advisor.Message
	if req.ChatUID == "" {
		created, err := ac.chats.Create(userID, chatTitle(req.Message))
		if err != nil {
			respondInternalError(c, err, "create chat")
			return
		}
		chat = created
	} else {
		existing, err := ac.chats.GetByUID(userID, req.ChatUID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				respondNotFound(c, "chat")
				return
			}
			respondInternalError(c, err, "get chat")
			return
		}
		chat = existing
		for _, msg := range existing.Messages {
			history = append(history, advisor.Message{Role: string(msg.Role), Content: msg.Content})
		}
	}

	recent, err := ac.transactions.ListRecent(userID, recentTransactionLimit)
	if err != nil {
		respondInternalError(c, err, "load transaction context")
		return
	}

	conversation, err := advisor.BuildConversation(recent, history, req.Message)
	if err != nil {
		respondInternalError(c, err, "build conversation")
		return
	}

	reply, err := ac.client.Complete(c.Request.Context(), conversation)
	if err != nil {
		respondInternalError(c, err, "advisor completion")
		return
	}

	if err := ac.chats.AppendMessage(userID, chat.UID, entities.ChatRoleUser, req.Message); err != nil {
		respondInternalError(c, err, "save user message")
		return
	}
	if err := ac.chats.AppendMessage(userID, chat.UID, entities.ChatRoleAssistant, reply); err != nil {
		respondInternalError(c, err, "save assistant message")
		return
	}

	c.JSON(http.StatusOK, chatResponse{ChatUID: chat.UID, Reply: reply})
}

// chatTitle derives a conversation title from the first message,
// truncating on a rune boundary.
func chatTitle(message string) string {
	const maxTitle = 60
	runes := []rune(message)
	if len(runes) <= maxTitle {
		return message
	}
	return string(runes[:maxTitle]) + "…"
}
