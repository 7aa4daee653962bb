package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		Google
		Advisor
		Billing
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	Database struct {
		Path string
	}

	Auth struct {
		JWTSecret       string        // signing secret for self-issued tokens
		TokenTTL        time.Duration // lifetime of self-issued tokens
		BcryptCost      int           // bcrypt work factor
		SessionLifetime time.Duration // provider-session lifetime
		SecureCookies   bool          // set false for local dev without HTTPS
		CSRFSecret      string        // 32-byte hex secret, auto-generated if empty
	}

	Google struct {
		ClientID     string
		ClientSecret string
		RedirectURL  string
	}

	Advisor struct {
		APIKey  string
		BaseURL string
		Model   string
		Timeout time.Duration
	}

	Billing struct {
		Enabled      bool
		Schedule     string // cron format: "0 6 * * *" = daily at 06:00
		ReminderDays int    // enqueue bill reminders this many days before due
	}

	Tasks struct {
		Enabled           bool
		Workers           int
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Auth defaults
	v.SetDefault("auth_jwt_secret", DevJWTSecret) // insecure, local dev only
	v.SetDefault("auth_token_ttl", "168h")        // 7 days
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_session_lifetime", "168h")
	v.SetDefault("auth_secure_cookies", true)
	v.SetDefault("auth_csrf_secret", "") // auto-generated if empty

	// Google OAuth defaults
	v.SetDefault("google_client_id", "")
	v.SetDefault("google_client_secret", "")
	v.SetDefault("google_redirect_url", "")

	// Advisor defaults (any OpenAI-compatible completion endpoint)
	v.SetDefault("advisor_api_key", "")
	v.SetDefault("advisor_base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("advisor_model", "llama-3.3-70b-versatile")
	v.SetDefault("advisor_timeout", "60s")

	// Billing maintenance defaults
	v.SetDefault("billing_enabled", true)
	v.SetDefault("billing_schedule", "0 6 * * *")
	v.SetDefault("billing_reminder_days", 3)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Auth: Auth{
			JWTSecret:       v.GetString("AUTH_JWT_SECRET"),
			TokenTTL:        v.GetDuration("AUTH_TOKEN_TTL"),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
			CSRFSecret:      v.GetString("AUTH_CSRF_SECRET"),
		},
		Google: Google{
			ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
		},
		Advisor: Advisor{
			APIKey:  v.GetString("ADVISOR_API_KEY"),
			BaseURL: v.GetString("ADVISOR_BASE_URL"),
			Model:   v.GetString("ADVISOR_MODEL"),
			Timeout: v.GetDuration("ADVISOR_TIMEOUT"),
		},
		Billing: Billing{
			Enabled:      v.GetBool("BILLING_ENABLED"),
			Schedule:     v.GetString("BILLING_SCHEDULE"),
			ReminderDays: v.GetInt("BILLING_REMINDER_DAYS"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
	}
}
