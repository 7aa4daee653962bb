package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack/internal/advisor"
	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/database"
	"github.com/fintrack/fintrack/internal/database/bills"
	"github.com/fintrack/fintrack/internal/database/budgets"
	"github.com/fintrack/fintrack/internal/database/chats"
	"github.com/fintrack/fintrack/internal/database/subscriptions"
	"github.com/fintrack/fintrack/internal/database/transactions"
	http_controllers "github.com/fintrack/fintrack/internal/http"
	"github.com/fintrack/fintrack/internal/oauth2"
	"github.com/fintrack/fintrack/internal/scheduler"
	"github.com/fintrack/fintrack/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the HTTP listener
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting FinTrack v%s", version)

	if cfg.Auth.JWTSecret == config.DevJWTSecret {
		log.Printf("WARNING: using the built-in development JWT secret. Set 'AUTH_JWT_SECRET' before exposing this server.")
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	transactionRepo := transactions.NewRepository(db.DB)
	budgetRepo := budgets.NewRepository(db.DB)
	subscriptionRepo := subscriptions.NewRepository(db.DB)
	billRepo := bills.NewRepository(db.DB)
	chatRepo := chats.NewRepository(db.DB)

	// Self-issued token auth is always available
	authService := auth.NewService(db.DB, cfg.Auth)
	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Google sign-in needs server sessions; without credentials the app
	// runs on tokens alone
	var sessionManager *auth.SessionManager
	var oauthController *oauth2.Controller
	if cfg.Google.ClientID != "" && cfg.Google.ClientSecret != "" {
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}
		sessionManager, err = auth.NewSessionManager(sqlDB, cfg.Auth)
		if err != nil {
			log.Fatalf("Failed to initialize session manager: %v", err)
		}

		provider := oauth2.NewGoogleProvider(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL)
		oauthController = oauth2.NewController(provider, authService, sessionManager)
		log.Printf("Google sign-in enabled")
	} else {
		log.Printf("Google sign-in disabled (no client credentials configured)")
	}

	resolver := auth.NewResolver(sessionManager, issuer)
	authMiddleware := auth.NewMiddleware(resolver)
	authController := auth.NewController(authService, issuer, sessionManager, resolver, cfg.Auth)

	csrfSecret := resolveCSRFSecret(cfg.Auth.CSRFSecret)

	var advisorClient *advisor.Client
	if cfg.Advisor.APIKey != "" {
		advisorClient = advisor.NewClient(cfg.Advisor)
		log.Printf("Advisor enabled (model %s)", cfg.Advisor.Model)
	} else {
		log.Printf("Advisor disabled (no API key configured)")
	}

	// Task queue backs asynchronous bill reminders
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(tasks.NewBillReminderQueue(billRepo))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	billingScheduler := scheduler.NewBillingScheduler(subscriptionRepo, billRepo, taskClient, cfg.Billing)
	if err := billingScheduler.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start billing scheduler: %v", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Database:        db,
		Transactions:    transactionRepo,
		Budgets:         budgetRepo,
		Subscriptions:   subscriptionRepo,
		Bills:           billRepo,
		Chats:           chatRepo,
		AuthController:  authController,
		AuthMiddleware:  authMiddleware,
		SessionManager:  sessionManager,
		TokenIssuer:     issuer,
		CSRFSecret:      csrfSecret,
		SecureCookies:   cfg.Auth.SecureCookies,
		OAuthController: oauthController,
		Advisor:         advisorClient,
		Billing:         billingScheduler,
		Version:         version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		billingScheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

// resolveCSRFSecret decodes the configured secret or generates one for
// this process. A generated secret invalidates CSRF tokens on restart.
func resolveCSRFSecret(configured string) []byte {
	if configured != "" {
		secret, err := hex.DecodeString(configured)
		if err != nil {
			// Not hex, use as raw bytes
			return []byte(configured)
		}
		return secret
	}

	generated, err := auth.GenerateSecret()
	if err != nil {
		log.Fatalf("Failed to generate CSRF secret: %v", err)
	}
	log.Printf("Generated CSRF secret (set AUTH_CSRF_SECRET to persist)")
	secret, _ := hex.DecodeString(generated)
	return secret
}
