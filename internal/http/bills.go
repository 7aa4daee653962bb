package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/database"
	"github.com/fintrack/fintrack/internal/database/bills"
	"github.com/fintrack/fintrack/internal/entities"
)

type BillsController struct {
	repo *bills.Repository
}

func NewBillsController(repo *bills.Repository) *BillsController {
	return &BillsController{repo: repo}
}

type billRequest struct {
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	DueDate     string  `json:"due_date"` // "2006-01-02"
	Paid        *bool   `json:"paid"`
}

func (br *billRequest) validate() (entities.Bill, string) {
	if br.Name == "" {
		return entities.Bill{}, "name is required"
	}
	if br.Amount <= 0 {
		return entities.Bill{}, "amount must be positive"
	}
	if br.DueDate == "" {
		return entities.Bill{}, "due_date is required"
	}
	due, err := time.Parse("2006-01-02", br.DueDate)
	if err != nil {
		return entities.Bill{}, "due_date must be in YYYY-MM-DD format"
	}

	bill := entities.Bill{
		Name:        br.Name,
		Amount:      br.Amount,
		Category:    br.Category,
		Description: br.Description,
		ImageURL:    br.ImageURL,
		DueDate:     due,
	}
	if br.Paid != nil {
		bill.Paid = *br.Paid
	}
	return bill, ""
}

// List returns the user's bills ordered by due date.
// GET /api/bills
func (bc *BillsController) List(c *gin.Context) {
	items, err := bc.repo.List(auth.GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list bills")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

// Create adds a bill.
// POST /api/bills
func (bc *BillsController) Create(c *gin.Context) {
	var req billRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	bill, msg := req.validate()
	if msg != "" {
		respondBadRequest(c, msg)
		return
	}

	if err := bc.repo.Create(auth.GetUserID(c), &bill); err != nil {
		respondInternalError(c, err, "create bill")
		return
	}
	respondCreated(c, bill)
}

// Update modifies a bill. Marking a bill paid also clears its reminder
// flag so an unpaid-again bill gets reminded about anew.
// PUT /api/bills/:id
func (bc *BillsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req billRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	bill, msg := req.validate()
	if msg != "" {
		respondBadRequest(c, msg)
		return
	}

	updates := map[string]any{
		"name":        bill.Name,
		"amount":      bill.Amount,
		"category":    bill.Category,
		"description": bill.Description,
		"image_url":   bill.ImageURL,
		"due_date":    bill.DueDate,
		"paid":        bill.Paid,
	}
	if bill.Paid {
		updates["reminder_sent"] = false
	}

	updated, err := bc.repo.Update(auth.GetUserID(c), id, updates)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondNotFound(c, "bill")
			return
		}
		respondInternalError(c, err, "update bill")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a bill.
// DELETE /api/bills/:id
func (bc *BillsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.repo.Delete(auth.GetUserID(c), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondNotFound(c, "bill")
			return
		}
		respondInternalError(c, err, "delete bill")
		return
	}
	respondSuccess(c, "bill deleted")
}
