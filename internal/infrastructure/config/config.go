// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Providers
	AviationStackKey    string
	RapidAPIKey         string
	OpenSkyClientID     string
	OpenSkyClientSecret string

	// User flight store: MongoDB when a URI is set, bbolt otherwise
	MongoURI string
	MongoDB  string
	BoltPath string

	// Reference data (optional)
	PostgresURI string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		AviationStackKey:    getEnv("AVIATIONSTACK_API_KEY", ""),
		RapidAPIKey:         getEnv("RAPIDAPI_KEY", ""),
		OpenSkyClientID:     getEnv("OPENSKY_CLIENT_ID", ""),
		OpenSkyClientSecret: getEnv("OPENSKY_CLIENT_SECRET", ""),

		MongoURI: getEnv("MONGODB_DSN", ""),
		MongoDB:  getEnv("MONGO_DB", "flightdata"),
		BoltPath: getEnv("BOLT_PATH", "flightdata.db"),

		PostgresURI: getEnv("POSTGRES_DSN", ""),
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
