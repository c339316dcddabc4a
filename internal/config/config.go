package config

import (
	"log"
	"os"
	"time"
)

// SessionCookieName is the name of the cookie carrying the session token.
const SessionCookieName = "session_id"

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Sessions
	SessionLifetime time.Duration
	CookieDomain    string
}

var appConfig *Config

// Load loads configuration from environment variables. The .env file is
// loaded by database.NewConfig before this runs, so plain os.Getenv is
// enough here.
func Load() (*Config, error) {
	config := &Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("ENV", "development"),
		CookieDomain: getEnv("COOKIE_DOMAIN", ""),
	}

	// Parse session lifetime, default 7 days
	lifetimeStr := getEnv("SESSION_LIFETIME", "168h")
	lifetime, err := time.ParseDuration(lifetimeStr)
	if err != nil {
		log.Printf("Warning: invalid SESSION_LIFETIME value '%s', falling back to 168h\n", lifetimeStr)
		lifetime = 7 * 24 * time.Hour
	}
	config.SessionLifetime = lifetime

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// IsProduction reports whether the app is running in the production environment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
