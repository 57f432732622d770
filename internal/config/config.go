package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	NodeEnv  string
	Port     string
	DataDir  string
	Database DatabaseConfig
	Cloud    CloudConfig
	Sync     SyncConfig
	AI       AIConfig
}

// DatabaseConfig holds local database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Alter    bool
}

// CloudConfig holds remote sync backend configuration
type CloudConfig struct {
	BaseURL     string
	APIKey      string
	RedirectURL string
	Timeout     time.Duration
}

// SyncConfig holds sync orchestrator configuration
type SyncConfig struct {
	Debounce      time.Duration
	SyncOnStartup bool
}

// AIConfig holds the optional Gemini assistant configuration
type AIConfig struct {
	GeminiAPIKey string
	Model        string
}

// RelayConfig holds configuration for the relay backend binary
type RelayConfig struct {
	Port      string
	JWTSecret string
	Database  DatabaseConfig
}

// Load loads node configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		NodeEnv: getEnv("NODE_ENV", "development"),
		Port:    getEnv("PORT", "3180"),
		DataDir: getEnv("DATA_DIR", "./data"),
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "waxpro"),
			Alter:    getEnv("DB_ALTER", "false") == "true",
		},
		Cloud: CloudConfig{
			BaseURL:     os.Getenv("CLOUD_URL"),
			APIKey:      os.Getenv("CLOUD_API_KEY"),
			RedirectURL: getEnv("CLOUD_RECOVERY_REDIRECT", "/#recovery"),
			Timeout:     time.Duration(getEnvInt("CLOUD_TIMEOUT_MS", 10000)) * time.Millisecond,
		},
		Sync: SyncConfig{
			// Observed behavior across app revisions used 3-5s; configurable.
			Debounce:      time.Duration(getEnvInt("SYNC_DEBOUNCE_MS", 4000)) * time.Millisecond,
			SyncOnStartup: getEnv("SYNC_ON_STARTUP", "true") == "true",
		},
		AI: AIConfig{
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			Model:        getEnv("GEMINI_MODEL", "gemini-3-flash-preview"),
		},
	}, nil
}

// LoadRelay loads relay backend configuration from environment variables
func LoadRelay() (*RelayConfig, error) {
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &RelayConfig{
		Port:      getEnv("RELAY_PORT", "3181"),
		JWTSecret: jwtSecret,
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "waxpro_relay"),
			Alter:    getEnv("DB_ALTER", "false") == "true",
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
