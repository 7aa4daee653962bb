package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/database"
	"github.com/fintrack/fintrack/internal/database/subscriptions"
	"github.com/fintrack/fintrack/internal/entities"
)

type SubscriptionsController struct {
	repo *subscriptions.Repository
}

func NewSubscriptionsController(repo *subscriptions.Repository) *SubscriptionsController {
	return &SubscriptionsController{repo: repo}
}

type subscriptionRequest struct {
	Service         string  `json:"service"`
	Amount          float64 `json:"amount"`
	BillingCycle    string  `json:"billing_cycle"`
	NextBillingDate string  `json:"next_billing_date"` // "2006-01-02", optional
	ImageURL        string  `json:"image_url"`
	Active          *bool   `json:"active"`
}

func (sr *subscriptionRequest) validate() (entities.Subscription, string) {
	if sr.Service == "" {
		return entities.Subscription{}, "service is required"
	}
	if sr.Amount <= 0 {
		return entities.Subscription{}, "amount must be positive"
	}
	cycle := entities.BillingCycle(sr.BillingCycle)
	if cycle == "" {
		cycle = entities.BillingCycleMonthly
	}
	if cycle != entities.BillingCycleMonthly && cycle != entities.BillingCycleYearly {
		return entities.Subscription{}, "billing_cycle must be 'monthly' or 'yearly'"
	}

	sub := entities.Subscription{
		Service:      sr.Service,
		Amount:       sr.Amount,
		BillingCycle: cycle,
		ImageURL:     sr.ImageURL,
		Active:       true,
	}
	if sr.Active != nil {
		sub.Active = *sr.Active
	}
	if sr.NextBillingDate != "" {
		parsed, err := time.Parse("2006-01-02", sr.NextBillingDate)
		if err != nil {
			return entities.Subscription{}, "next_billing_date must be in YYYY-MM-DD format"
		}
		sub.NextBillingDate = parsed
	}
	return sub, ""
}

// List returns the user's active subscriptions.
// GET /api/subscriptions
func (sc *SubscriptionsController) List(c *gin.Context) {
	items, err := sc.repo.ListActive(auth.GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list subscriptions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

// Create adds a subscription.
// POST /api/subscriptions
func (sc *SubscriptionsController) Create(c *gin.Context) {
	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	sub, msg := req.validate()
	if msg != "" {
		respondBadRequest(c, msg)
		return
	}

	if err := sc.repo.Create(auth.GetUserID(c), &sub); err != nil {
		respondInternalError(c, err, "create subscription")
		return
	}
	respondCreated(c, sub)
}

// Update modifies a subscription.
// PUT /api/subscriptions/:id
func (sc *SubscriptionsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	sub, msg := req.validate()
	if msg != "" {
		respondBadRequest(c, msg)
		return
	}

	updates := map[string]any{
		"service":       sub.Service,
		"amount":        sub.Amount,
		"billing_cycle": sub.BillingCycle,
		"image_url":     sub.ImageURL,
		"active":        sub.Active,
	}
	if !sub.NextBillingDate.IsZero() {
		updates["next_billing_date"] = sub.NextBillingDate
	}

	updated, err := sc.repo.Update(auth.GetUserID(c), id, updates)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondNotFound(c, "subscription")
			return
		}
		respondInternalError(c, err, "update subscription")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a subscription.
// DELETE /api/subscriptions/:id
func (sc *SubscriptionsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := sc.repo.Delete(auth.GetUserID(c), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondNotFound(c, "subscription")
			return
		}
		respondInternalError(c, err, "delete subscription")
		return
	}
	respondSuccess(c, "subscription deleted")
}
