package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// ClientConfig holds the room-booking client configuration loaded from environment.
type ClientConfig struct {
	APIBaseURL     string
	HTTPTimeout    time.Duration
	SearchDebounce time.Duration
	SessionFile    string
	LogLevel       string
}

// ServerConfig holds the dev server configuration loaded from environment.
type ServerConfig struct {
	IsProduction      bool
	ProdOrigins       string
	HTTPAddr          string
	DBDSN             string
	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BcryptCost        int
	LogLevel          string
}

// LoadClient loads client configuration from .env (optional) and environment variables.
func LoadClient() (*ClientConfig, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &ClientConfig{}

	// Base URL of the booking API (default: local dev server)
	cfg.APIBaseURL = getEnv("ROOMDESK_API_URL", "http://localhost:3001/api")

	var err error
	cfg.HTTPTimeout, err = getEnvAsDuration("ROOMDESK_HTTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg.SearchDebounce, err = getEnvAsDuration("ROOMDESK_SEARCH_DEBOUNCE", 500*time.Millisecond)
	if err != nil {
		return nil, err
	}

	// Session file keeps the persisted token and user record across runs.
	sessionFile := getEnv("ROOMDESK_SESSION_FILE", "")
	if sessionFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot resolve home directory for session file: %w", err)
		}
		sessionFile = filepath.Join(home, ".roomdesk", "session.json")
	}
	cfg.SessionFile = sessionFile

	cfg.LogLevel = getEnv("ROOMDESK_LOG_LEVEL", "info")

	return cfg, nil
}

// LoadServer loads dev server configuration from .env (optional) and environment variables.
func LoadServer() (*ServerConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &ServerConfig{}

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :3001, matching the client default base URL)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":3001")

	// Database DSN is optional; empty means the in-memory store.
	cfg.DBDSN = os.Getenv("DB_DSN")

	// JWT secret is required for signing tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	var err error
	cfg.JWTAccessTokenTTL, err = getEnvAsDuration("JWT_ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	// Bcrypt cost for password hashing (default: 12)
	cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsDuration retrieves an environment variable as a time.Duration
// (e.g. "500ms", "10s", "15m"), falling back to the default when unset.
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid duration: %w", key, valStr, err)
	}

	return val, nil
}
