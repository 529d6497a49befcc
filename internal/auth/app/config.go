package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)

	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	DatabaseFile string // Path to SQLite database file (default: ./auth.db)
	PepperFile   string // Path to password hashing pepper file (default: ./pepper)

	TokenSecret string // Required outside dev: HMAC secret for access tokens
	Issuer      string // Issuer claim for tokens (default: newtifi-auth)

	EmailSessionTTL  time.Duration // Email provider session lifetime (default: 24h)
	AdminSessionTTL  time.Duration // Admin provider session lifetime (default: 8h)
	GoogleSessionTTL time.Duration // Google provider session lifetime (default: 24h)

	AdminUsername     string // Admin console username (default: admin)
	AdminPasswordHash string // Argon2id PHC hash of the admin password
	AdminTOTPSecret   string // Optional: enables the TOTP second factor
	AdminEmail        string // Email on the lazily created admin account
	AdminName         string // Display name on the admin account

	GoogleClientID     string        // Optional: enables the authorization-code flow
	GoogleClientSecret string
	GoogleRedirectURL  string
	OAuthTimeout       time.Duration // Outbound Google call deadline (default: 10s)

	SeedDemo bool // Dev only: install the demo member credential
}

func LoadConfig() Config {
	// A .env file is optional; real env vars win.
	_ = godotenv.Load()

	cfg := Config{
		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),

		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),

		DatabaseFile: getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		PepperFile:   getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		TokenSecret: os.Getenv("AUTH_TOKEN_SECRET"),
		Issuer:      getEnvOrDefault("AUTH_ISSUER", "newtifi-auth"),

		EmailSessionTTL:  getEnvDurationOrDefault("AUTH_EMAIL_SESSION_TTL", 24*time.Hour),
		AdminSessionTTL:  getEnvDurationOrDefault("AUTH_ADMIN_SESSION_TTL", 8*time.Hour),
		GoogleSessionTTL: getEnvDurationOrDefault("AUTH_GOOGLE_SESSION_TTL", 24*time.Hour),

		AdminUsername:     getEnvOrDefault("AUTH_ADMIN_USERNAME", "admin"),
		AdminPasswordHash: os.Getenv("AUTH_ADMIN_PASSWORD_HASH"),
		AdminTOTPSecret:   os.Getenv("AUTH_ADMIN_TOTP_SECRET"),
		AdminEmail:        getEnvOrDefault("AUTH_ADMIN_EMAIL", "admin@newtifi.com"),
		AdminName:         getEnvOrDefault("AUTH_ADMIN_NAME", "System Administrator"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		OAuthTimeout:       getEnvDurationOrDefault("AUTH_OAUTH_TIMEOUT", 10*time.Second),

		SeedDemo: getEnvBoolOrDefault("AUTH_SEED_DEMO", false),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are taken as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
