package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack/internal/database"
)

// BillingStatus reports the state of the background billing scheduler.
type BillingStatus interface {
	IsRunning() bool
	NextRunTime() *time.Time
}

type HealthResponse struct {
	Status      string            `json:"status"`
	Time        string            `json:"time"`
	Version     string            `json:"version,omitempty"`
	Checks      map[string]string `json:"checks"`
	NextBilling string            `json:"next_billing_run,omitempty"`
}

type HealthController struct {
	db      *database.Database
	billing BillingStatus
	version string
}

func NewHealthController(db *database.Database, billing BillingStatus, version string) *HealthController {
	return &HealthController{
		db:      db,
		billing: billing,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		sqlDB, err := h.db.DB.DB()
		if err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else if err := sqlDB.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	var nextBilling string
	if h.billing != nil {
		if h.billing.IsRunning() {
			checks["billing_scheduler"] = "running"
			if next := h.billing.NextRunTime(); next != nil {
				nextBilling = next.Format(time.RFC3339)
			}
		} else {
			// Disabled by config, not a failure
			checks["billing_scheduler"] = "stopped"
		}
	}

	health := HealthResponse{
		Status:      status,
		Time:        time.Now().Format(time.RFC3339),
		Version:     h.version,
		Checks:      checks,
		NextBilling: nextBilling,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
