package http

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/database"
	"github.com/fintrack/fintrack/internal/database/budgets"
	"github.com/fintrack/fintrack/internal/database/transactions"
	"github.com/fintrack/fintrack/internal/entities"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type BudgetsController struct {
	repo         *budgets.Repository
	transactions *transactions.Repository
}

func NewBudgetsController(repo *budgets.Repository, txRepo *transactions.Repository) *BudgetsController {
	return &BudgetsController{repo: repo, transactions: txRepo}
}

type budgetRequest struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Month    string  `json:"month"` // "YYYY-MM", defaults to the current month
}

// monthBounds returns the half-open [start, end) interval covering a month.
func monthBounds(month string) (time.Time, time.Time) {
	start, _ := time.Parse("2006-01", month)
	return start, start.AddDate(0, 1, 0)
}

// List returns the user's budgets for a month with spent amounts refreshed
// from the transaction ledger.
// GET /api/budgets?month=YYYY-MM
func (bc *BudgetsController) List(c *gin.Context) {
	userID := auth.GetUserID(c)

	month := c.Query("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	if !monthPattern.MatchString(month) {
		respondBadRequest(c, "month must be in YYYY-MM format")
		return
	}

	items, err := bc.repo.ListByMonth(userID, month)
	if err != nil {
		respondInternalError(c, err, "list budgets")
		return
	}

	// Spent is derived, not stored authoritatively: recompute on read so
	// edits and deletes of transactions are always reflected.
	start, end := monthBounds(month)
	for i := range items {
		spent, err := bc.transactions.SumSpentByCategory(userID, items[i].Category, start, end)
		if err != nil {
			respondInternalError(c, err, "compute budget spent")
			return
		}
		if spent != items[i].Spent {
			if err := bc.repo.SetSpent(userID, items[i].ID, spent); err != nil {
				respondInternalError(c, err, "update budget spent")
				return
			}
			items[i].Spent = spent
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": items, "month": month})
}

// Create adds a budget for a category and month.
// POST /api/budgets
func (bc *BudgetsController) Create(c *gin.Context) {
	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Category == "" {
		respondBadRequest(c, "category is required")
		return
	}
	if req.Amount <= 0 {
		respondBadRequest(c, "amount must be positive")
		return
	}
	if req.Month == "" {
		req.Month = time.Now().Format("2006-01")
	}
	if !monthPattern.MatchString(req.Month) {
		respondBadRequest(c, "month must be in YYYY-MM format")
		return
	}

	userID := auth.GetUserID(c)
	budget := entities.Budget{
		Category: req.Category,
		Amount:   req.Amount,
		Month:    req.Month,
	}

	start, end := monthBounds(req.Month)
	spent, err := bc.transactions.SumSpentByCategory(userID, req.Category, start, end)
	if err != nil {
		respondInternalError(c, err, "compute budget spent")
		return
	}
	budget.Spent = spent

	if err := bc.repo.Create(userID, &budget); err != nil {
		respondInternalError(c, err, "create budget")
		return
	}
	respondCreated(c, budget)
}

// Update modifies a budget's category or amount.
// PUT /api/budgets/:id
func (bc *BudgetsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Category == "" {
		respondBadRequest(c, "category is required")
		return
	}
	if req.Amount <= 0 {
		respondBadRequest(c, "amount must be positive")
		return
	}

	updated, err := bc.repo.Update(auth.GetUserID(c), id, map[string]any{
		"category": req.Category,
		"amount":   req.Amount,
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondNotFound(c, "budget")
			return
		}
		respondInternalError(c, err, "update budget")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a budget.
// DELETE /api/budgets/:id
func (bc *BudgetsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.repo.Delete(auth.GetUserID(c), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondNotFound(c, "budget")
			return
		}
		respondInternalError(c, err, "delete budget")
		return
	}
	respondSuccess(c, "budget deleted")
}
