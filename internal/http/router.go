package http

import (
	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, cfg.TokenIssuer))
	}

	// Session load/save wraps everything below so handlers can mutate the session
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.LoadSave())
	}

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Billing, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Auth endpoints
	cfg.AuthController.RegisterRoutes(router)
	if cfg.OAuthController != nil {
		cfg.OAuthController.RegisterRoutes(router)
	}

	mw := cfg.AuthMiddleware

	// Transactions accept guest mode so the app can be tried without an account
	transactionsController := NewTransactionsController(cfg.Transactions)
	txGroup := router.Group("/api/transactions", mw.RequireAuthOrGuest())
	txGroup.GET("", transactionsController.List)
	txGroup.POST("", transactionsController.Create)
	txGroup.GET("/:id", transactionsController.Get)
	txGroup.PUT("/:id", transactionsController.Update)
	txGroup.DELETE("/:id", transactionsController.Delete)

	budgetsController := NewBudgetsController(cfg.Budgets, cfg.Transactions)
	budgetGroup := router.Group("/api/budgets", mw.RequireAuthOrGuest())
	budgetGroup.GET("", budgetsController.List)
	budgetGroup.POST("", budgetsController.Create)
	budgetGroup.PUT("/:id", budgetsController.Update)
	budgetGroup.DELETE("/:id", budgetsController.Delete)

	subscriptionsController := NewSubscriptionsController(cfg.Subscriptions)
	subGroup := router.Group("/api/subscriptions", mw.RequireAuthOrGuest())
	subGroup.GET("", subscriptionsController.List)
	subGroup.POST("", subscriptionsController.Create)
	subGroup.PUT("/:id", subscriptionsController.Update)
	subGroup.DELETE("/:id", subscriptionsController.Delete)

	billsController := NewBillsController(cfg.Bills)
	billGroup := router.Group("/api/bills", mw.RequireAuthOrGuest())
	billGroup.GET("", billsController.List)
	billGroup.POST("", billsController.Create)
	billGroup.PUT("/:id", billsController.Update)
	billGroup.DELETE("/:id", billsController.Delete)

	categoriesController := NewCategoriesController(cfg.Database)
	router.GET("/api/categories", mw.RequireAuthOrGuest(), categoriesController.List)

	analysisController := NewAnalysisController(cfg.Transactions)
	router.GET("/api/analysis", mw.RequireAuthOrGuest(), analysisController.MonthlySummary)

	// The advisor needs a real account: conversations are persisted per user
	if cfg.Advisor != nil && cfg.Advisor.Enabled() {
		advisorController := NewAdvisorController(cfg.Advisor, cfg.Transactions, cfg.Chats)
		advisorGroup := router.Group("/api/advisor", mw.RequireAuth())
		advisorGroup.GET("/chats", advisorController.ListChats)
		advisorGroup.GET("/chats/:uid", advisorController.GetChat)
		advisorGroup.POST("/chat", advisorController.Chat)
	}

	return router
}
