// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/justestif/feelora/internal/auth"
	"github.com/justestif/feelora/internal/logger"
)

// DefaultSampleImageURL is the photo used by "Try Sample".
const DefaultSampleImageURL = "https://media.istockphoto.com/id/640307210/photo/choose-positivity-every-morning.jpg?s=612x612&w=0&k=20&c=lCu1J4s_3tFPAjTzMI8koWcyiAGZvkYxnaiR8GJWDco="

const environmentProduction = "production"

// Config holds the application configuration.
type Config struct {
	// Server
	Addr        string
	Environment string

	// Spotify client-credentials; empty values degrade track search, they are not fatal.
	SpotifyClientID     string
	SpotifyClientSecret string
	SearchTimeout       time.Duration

	// Expression classifier
	ClassifierURL     string // Empty uses the hosted default model
	ClassifierToken   string
	ClassifierTimeout time.Duration

	SampleImageURL string

	// Observability
	SentryDSN string
	LogLevel  slog.Level
}

// Load reads the configuration from environment variables.
// It fails only on malformed values, never on missing ones.
func Load() (*Config, error) {
	searchTimeout, err := getDuration("SEARCH_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	classifierTimeout, err := getDuration("CLASSIFIER_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	level, err := logger.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Addr:                getEnv("FEELORA_ADDR", "127.0.0.1:8080"),
		Environment:         getEnv("FEELORA_ENV", "development"),
		SpotifyClientID:     getEnv("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret: getEnv("SPOTIFY_CLIENT_SECRET", ""),
		SearchTimeout:       searchTimeout,
		ClassifierURL:       getEnv("CLASSIFIER_URL", ""),
		ClassifierToken:     getEnv("HF_TOKEN", ""),
		ClassifierTimeout:   classifierTimeout,
		SampleImageURL:      getEnv("SAMPLE_IMAGE_URL", DefaultSampleImageURL),
		SentryDSN:           getEnv("SENTRY_DSN", ""),
		LogLevel:            level,
	}, nil
}

// Credentials returns the Spotify client-credentials pair.
func (c *Config) Credentials() auth.Credentials {
	return auth.Credentials{
		ClientID:     c.SpotifyClientID,
		ClientSecret: c.SpotifyClientSecret,
	}
}

// IsProduction reports whether the app runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == environmentProduction
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("parsing %s: duration must be positive, got %s", key, value)
	}
	return d, nil
}
