package http

import (
	"github.com/fintrack/fintrack/internal/advisor"
	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/database"
	"github.com/fintrack/fintrack/internal/database/bills"
	"github.com/fintrack/fintrack/internal/database/budgets"
	"github.com/fintrack/fintrack/internal/database/chats"
	"github.com/fintrack/fintrack/internal/database/subscriptions"
	"github.com/fintrack/fintrack/internal/database/transactions"
	"github.com/fintrack/fintrack/internal/oauth2"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database

	// Repositories
	Transactions  *transactions.Repository
	Budgets       *budgets.Repository
	Subscriptions *subscriptions.Repository
	Bills         *bills.Repository
	Chats         *chats.Repository

	// Authentication
	AuthController *auth.Controller
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager // nil when Google sign-in is not configured
	TokenIssuer    *auth.TokenIssuer
	CSRFSecret     []byte
	SecureCookies  bool

	// Google sign-in (optional)
	OAuthController *oauth2.Controller

	// AI advisor (optional)
	Advisor *advisor.Client

	// Billing scheduler status for /health (optional)
	Billing BillingStatus

	// Application info
	Version string
}
