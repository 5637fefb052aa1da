package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const defaultPort = 8080

// Config holds everything the server needs at startup. The provider
// credentials are required; the process must not start serving without them.
type Config struct {
	Port int

	GoogleClientID string `validate:"required"`
	GoogleJWKSURL  string

	FacebookAppID     string `validate:"required"`
	FacebookAppSecret string `validate:"required"`
	FacebookGraphURL  string
}

// Load reads configuration from a .env file (when present) and the
// environment. Missing required credentials are a fatal configuration error
// surfaced to the caller before the server starts.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded, using environment only")
	}

	cfg := &Config{
		Port:              defaultPort,
		GoogleClientID:    os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleJWKSURL:     os.Getenv("GOOGLE_JWKS_URL"),
		FacebookAppID:     os.Getenv("FACEBOOK_APP_ID"),
		FacebookAppSecret: os.Getenv("FACEBOOK_APP_SECRET"),
		FacebookGraphURL:  os.Getenv("FACEBOOK_GRAPH_URL"),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT value %q: %w", portStr, err)
		}
		cfg.Port = port
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("missing required configuration: %w", err)
	}

	return cfg, nil
}
