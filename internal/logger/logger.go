// Package logger provides structured logging with optional Sentry reporting.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/getsentry/sentry-go"
)

// Fields represents structured log fields.
type Fields map[string]any

var (
	mu   sync.RWMutex
	base = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
)

// Configure replaces the output and minimum level of the package logger.
func Configure(w io.Writer, level slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	base = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel converts "debug", "info", "warn" or "error" to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("parsing log level %q: %w", s, err)
	}
	return level, nil
}

// Debug logs a debug message with structured fields.
func Debug(msg string, fields Fields) {
	current().LogAttrs(context.Background(), slog.LevelDebug, msg, attrs(fields)...)
}

// Info logs an informational message and records it as a Sentry breadcrumb.
func Info(msg string, fields Fields) {
	current().LogAttrs(context.Background(), slog.LevelInfo, msg, attrs(fields)...)
	breadcrumb(msg, fields, sentry.LevelInfo)
}

// Warn logs a warning and records it as a Sentry breadcrumb.
func Warn(msg string, fields Fields) {
	current().LogAttrs(context.Background(), slog.LevelWarn, msg, attrs(fields)...)
	breadcrumb(msg, fields, sentry.LevelWarning)
}

// Error logs an error and sends it to Sentry when a client is configured.
func Error(msg string, err error, fields Fields) {
	all := append(attrs(fields), slog.Any("error", err))
	current().LogAttrs(context.Background(), slog.LevelError, msg, all...)

	hub := sentry.CurrentHub()
	if hub.Client() == nil || err == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		for key, value := range fields {
			scope.SetContext(key, map[string]interface{}{
				"value": value,
			})
		}
		if requestID, ok := fields["request_id"].(string); ok {
			scope.SetTag("request_id", requestID)
		}
		scope.SetTag("message", msg)
		hub.CaptureException(err)
	})
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

func breadcrumb(msg string, fields Fields, level sentry.Level) {
	if sentry.CurrentHub().Client() == nil {
		return
	}
	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Type:     "default",
		Category: "log",
		Message:  msg,
		Data:     map[string]any(fields),
		Level:    level,
	})
}

// attrs converts fields to slog attributes in key order so output is stable.
func attrs(fields Fields) []slog.Attr {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		out = append(out, slog.Any(k, fields[k]))
	}
	return out
}
