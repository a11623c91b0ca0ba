// internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AccountConfig identifies one mailbox to read.
type AccountConfig struct {
	ID           string
	RefreshToken string
}

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	Debug      bool

	// Metrics endpoint; empty disables the HTTP listener
	MetricsPort string

	// MongoDB (raw-email store + flight history)
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// PostgreSQL (airline/timezone reference data); empty falls back to
	// the built-in static reference tables
	PostgresDSN string

	// Gmail OAuth client shared by all accounts
	GmailClientID     string
	GmailClientSecret string
	Accounts          []AccountConfig

	// Output files
	OutputJSON string
	OutputCSV  string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion: getEnv("APP_VERSION", "2.0.0"),
		Debug:      getEnvAsBool("DEBUG", false),

		MetricsPort: getEnv("METRICS_PORT", ""),

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "flighttrack"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		PostgresDSN: getEnv("POSTGRES_DSN", ""),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),

		OutputJSON: getEnv("OUTPUT_JSON", "data/processed/flights.json"),
		OutputCSV:  getEnv("OUTPUT_CSV", "data/processed/flights.csv"),
	}

	for _, id := range strings.Split(getEnv("ACCOUNTS", "primary"), ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		token := getEnv(refreshTokenKey(id), "")
		if token == "" {
			token = getEnv("GMAIL_REFRESH_TOKEN", "")
		}
		config.Accounts = append(config.Accounts, AccountConfig{ID: id, RefreshToken: token})
	}
	if len(config.Accounts) == 0 {
		return nil, fmt.Errorf("config: no accounts configured")
	}

	return config, nil
}

// Account returns the named account config, or an error when it is not
// configured.
func (c *Config) Account(id string) (AccountConfig, error) {
	for _, a := range c.Accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return AccountConfig{}, fmt.Errorf("config: account %q not configured", id)
}

func refreshTokenKey(accountID string) string {
	return "GMAIL_REFRESH_TOKEN_" + strings.ToUpper(strings.ReplaceAll(accountID, "-", "_"))
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
