package config

import (
	"fmt"
	"os"
)

// Config holds the environment-provided settings. DatabaseURL and
// JWTSecret are required at startup; the OpenAI key is only required at
// report-generation time so the rest of the application stays usable
// without it.
type Config struct {
	Port          string
	DatabaseURL   string
	JWTSecret     string
	OpenAIBaseURL string
	OpenAIAPIKey  string
}

// Load reads the configuration from the environment and fails with a
// descriptive error if a required value is missing.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
