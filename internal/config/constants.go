package config

const (
	// DefaultDatabasePath is the default path for the application database.
	DefaultDatabasePath = "./fintrack.db"

	// DevJWTSecret is the fallback token signing secret. It exists so the
	// app runs out of the box for local development; production deployments
	// must set AUTH_JWT_SECRET. Startup logs a warning when it is in use.
	DevJWTSecret = "tracker_secret_key"
)
