// Command feelora runs the Feelora mood receipt web application.
package main

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"

	"github.com/justestif/feelora/internal/analysis"
	"github.com/justestif/feelora/internal/classifier"
	"github.com/justestif/feelora/internal/config"
	"github.com/justestif/feelora/internal/logger"
	"github.com/justestif/feelora/internal/spotify"
	"github.com/justestif/feelora/internal/tracks"
	"github.com/justestif/feelora/internal/web"
	webfs "github.com/justestif/feelora/web"
)

const sentryFlushTimeout = 2 * time.Second

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Configure(os.Stderr, cfg.LogLevel)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
			Release:     "feelora@" + releaseVersion,
			Debug:       !cfg.IsProduction(),
		}); err != nil {
			logger.Warn("sentry: init failed", logger.Fields{"error": err.Error()})
		} else {
			defer sentry.Flush(sentryFlushTimeout)
		}
	}

	if cfg.SpotifyClientID == "" || cfg.SpotifyClientSecret == "" {
		logger.Warn("spotify: credentials not set, track search will return the no-token placeholder", nil)
	}

	// Create sub-filesystems for templates and static files
	templates, err := fs.Sub(webfs.TemplatesFS, "templates")
	if err != nil {
		return fmt.Errorf("creating templates filesystem: %w", err)
	}

	static, err := fs.Sub(webfs.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("creating static filesystem: %w", err)
	}

	connector := spotify.NewConnector(cfg.Credentials(), spotify.WithTimeout(cfg.SearchTimeout))
	selector := tracks.NewSelector(connector)

	fer := classifier.NewClient(classifier.Config{
		URL:     cfg.ClassifierURL,
		Token:   cfg.ClassifierToken,
		Timeout: cfg.ClassifierTimeout,
	})

	service := analysis.New(fer, selector,
		analysis.WithSampleImage(cfg.SampleImageURL, &http.Client{Timeout: cfg.SearchTimeout * 3}),
	)

	server, err := web.NewServer(web.ServerConfig{
		Addr:        cfg.Addr,
		Analyzer:    service,
		TemplatesFS: templates,
		StaticFS:    static,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.Run()
}
