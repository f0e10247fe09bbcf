package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"FEELORA_ADDR", "FEELORA_ENV", "SPOTIFY_CLIENT_ID", "SPOTIFY_CLIENT_SECRET",
	"CLASSIFIER_URL", "HF_TOKEN", "SEARCH_TIMEOUT", "CLASSIFIER_TIMEOUT",
	"SAMPLE_IMAGE_URL", "SENTRY_DSN", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Addr)
	assert.Equal(t, "development", cfg.Environment)
	assert.Empty(t, cfg.SpotifyClientID)
	assert.Empty(t, cfg.SpotifyClientSecret)
	assert.Equal(t, 5*time.Second, cfg.SearchTimeout)
	assert.Equal(t, 30*time.Second, cfg.ClassifierTimeout)
	assert.Empty(t, cfg.ClassifierURL)
	assert.Equal(t, DefaultSampleImageURL, cfg.SampleImageURL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("FEELORA_ADDR", ":9000")
	t.Setenv("FEELORA_ENV", "production")
	t.Setenv("SPOTIFY_CLIENT_ID", "id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "secret")
	t.Setenv("HF_TOKEN", "hf_abc")
	t.Setenv("SEARCH_TIMEOUT", "2s")
	t.Setenv("CLASSIFIER_TIMEOUT", "1m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "hf_abc", cfg.ClassifierToken)
	assert.Equal(t, 2*time.Second, cfg.SearchTimeout)
	assert.Equal(t, time.Minute, cfg.ClassifierTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)

	creds := cfg.Credentials()
	assert.Equal(t, "id", creds.ClientID)
	assert.Equal(t, "secret", creds.ClientSecret)
}

func TestLoad_Malformed(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SEARCH_TIMEOUT", "soon"},
		{"SEARCH_TIMEOUT", "-1s"},
		{"CLASSIFIER_TIMEOUT", "10"},
		{"LOG_LEVEL", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
