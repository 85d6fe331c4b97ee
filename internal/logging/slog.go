// Package logging sets up the slog-based logging used across the planner:
// a console handler plus an optional session log file, fanned out through a
// MultiHandler.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Manager owns the configured logger.
type Manager struct {
	logger *slog.Logger
}

// NewManager creates an empty logging manager; call Setup before use.
func NewManager() *Manager {
	return &Manager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup initializes the logging system with console output and an optional
// log file.
func (m *Manager) Setup(file io.Writer, level string) {
	handlerOpts := &slog.HandlerOptions{
		Level: parseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler
	handlers = append(handlers, slog.NewTextHandler(os.Stdout, handlerOpts))
	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, handlerOpts))
	}

	m.logger = slog.New(NewMultiHandler(handlers...))
	m.logger.Debug("Logging initialized", "level", level)
}

// Logger returns the configured slog.Logger, or the default logger when
// Setup has not run yet.
func (m *Manager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}
