package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/database"
	"github.com/fintrack/fintrack/internal/database/transactions"
	"github.com/fintrack/fintrack/internal/entities"
)

type TransactionsController struct {
	repo *transactions.Repository
}

func NewTransactionsController(repo *transactions.Repository) *TransactionsController {
	return &TransactionsController{repo: repo}
}

type transactionRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Date        string  `json:"date"` // "2006-01-02", defaults to today
}

func (tr *transactionRequest) validate() (entities.Transaction, string) {
	if tr.Description == "" {
		return entities.Transaction{}, "description is required"
	}
	if tr.Amount <= 0 {
		return entities.Transaction{}, "amount must be positive"
	}
	txType := entities.TransactionType(tr.Type)
	if txType != entities.TransactionTypeIncome && txType != entities.TransactionTypeExpense {
		return entities.Transaction{}, "type must be 'income' or 'expense'"
	}
	if tr.Category == "" {
		return entities.Transaction{}, "category is required"
	}

	date := time.Now()
	if tr.Date != "" {
		parsed, err := time.Parse("2006-01-02", tr.Date)
		if err != nil {
			return entities.Transaction{}, "date must be in YYYY-MM-DD format"
		}
		date = parsed
	}

	return entities.Transaction{
		Description: tr.Description,
		Amount:      tr.Amount,
		Type:        txType,
		Category:    tr.Category,
		Date:        date,
	}, ""
}

// List returns the user's transactions, newest first.
// GET /api/transactions
func (tc *TransactionsController) List(c *gin.Context) {
	userID := auth.GetUserID(c)
	limit, offset := parsePagination(c, 50, 200)

	items, total, err := tc.repo.List(userID, limit, offset)
	if err != nil {
		respondInternalError(c, err, "list transactions")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    items,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(items)) < total,
	})
}

// Create records a new transaction.
// POST /api/transactions
func (tc *TransactionsController) Create(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	tx, msg := req.validate()
	if msg != "" {
		respondBadRequest(c, msg)
		return
	}

	if err := tc.repo.Create(auth.GetUserID(c), &tx); err != nil {
		respondInternalError(c, err, "create transaction")
		return
	}
	respondCreated(c, tx)
}

// Get returns a single transaction by ID.
// GET /api/transactions/:id
func (tc *TransactionsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tx, err := tc.repo.GetByID(auth.GetUserID(c), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondNotFound(c, "transaction")
			return
		}
		respondInternalError(c, err, "get transaction")
		return
	}
	c.JSON(http.StatusOK, tx)
}

// Update modifies an existing transaction.
// PUT /api/transactions/:id
func (tc *TransactionsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	tx, msg := req.validate()
	if msg != "" {
		respondBadRequest(c, msg)
		return
	}

	updated, err := tc.repo.Update(auth.GetUserID(c), id, map[string]any{
		"description": tx.Description,
		"amount":      tx.Amount,
		"type":        tx.Type,
		"category":    tx.Category,
		"date":        tx.Date,
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondNotFound(c, "transaction")
			return
		}
		respondInternalError(c, err, "update transaction")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a transaction.
// DELETE /api/transactions/:id
func (tc *TransactionsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := tc.repo.Delete(auth.GetUserID(c), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondNotFound(c, "transaction")
			return
		}
		respondInternalError(c, err, "delete transaction")
		return
	}
	respondSuccess(c, "transaction deleted")
}
