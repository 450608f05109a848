// Package logging builds the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"time"

	charmlog "github.com/charmbracelet/log"

	"git.home.luguber.info/inful/sitegen/internal/config"
)

// New returns a logger writing to w in the given format. The pretty format
// renders through charmbracelet/log.
func New(w io.Writer, level slog.Level, format config.LogFormat) *slog.Logger {
	switch format {
	case config.LogFormatJSON:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	case config.LogFormatPretty:
		h := charmlog.NewWithOptions(w, charmlog.Options{
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
			Level:           charmlog.Level(level),
		})
		return slog.New(h)
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	}
}

// Level picks debug when verbose is set and the configured level otherwise.
func Level(verbose bool, cfg config.LoggingConfig) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return config.NormalizeLogLevel(string(cfg.Level)).SlogLevel()
}

// Setup installs the logger as the slog default and returns it.
func Setup(w io.Writer, verbose bool, cfg config.LoggingConfig) *slog.Logger {
	logger := New(w, Level(verbose, cfg), config.NormalizeLogFormat(string(cfg.Format)))
	slog.SetDefault(logger)
	return logger
}
