package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/database/transactions"
	"github.com/fintrack/fintrack/internal/entities"
)

type AnalysisController struct {
	transactions *transactions.Repository
}

func NewAnalysisController(txRepo *transactions.Repository) *AnalysisController {
	return &AnalysisController{transactions: txRepo}
}

// AnalysisResponse summarizes a month of activity.
type AnalysisResponse struct {
	Month      string                     `json:"month"`
	Income     float64                    `json:"income"`
	Expenses   float64                    `json:"expenses"`
	Net        float64                    `json:"net"`
	ByCategory []transactions.CategorySum `json:"by_category"`
}

// MonthlySummary returns income, expenses and per-category totals for a month.
// GET /api/analysis?month=YYYY-MM
func (ac *AnalysisController) MonthlySummary(c *gin.Context) {
	month := c.Query("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	if !monthPattern.MatchString(month) {
		respondBadRequest(c, "month must be in YYYY-MM format")
		return
	}

	start, end := monthBounds(month)
	sums, err := ac.transactions.SummarizeMonth(auth.GetUserID(c), start, end)
	if err != nil {
		respondInternalError(c, err, "summarize month")
		return
	}

	resp := AnalysisResponse{Month: month, ByCategory: sums}
	for _, s := range sums {
		if s.Type == string(entities.TransactionTypeIncome) {
			resp.Income += s.Total
		} else {
			resp.Expenses += s.Total
		}
	}
	resp.Net = resp.Income - resp.Expenses

	c.JSON(http.StatusOK, resp)
}
