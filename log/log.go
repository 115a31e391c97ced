// Package log builds the slog loggers used by the amalgam runtime and CLI.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/amalgam-lang/amalgam-go/domain/errors"
)

// Format selects the slog handler used for output.
type Format string

// Supported output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Option configures a logger built by New.
type Option func(*loggerConfig)

type loggerConfig struct {
	level     slog.Leveler
	addSource bool
	format    Format
}

func defaultLoggerConfig() loggerConfig {
	return loggerConfig{
		level:  slog.LevelInfo,
		format: FormatText,
	}
}

// WithLevel sets the minimum level to report. Passing a *slog.LevelVar allows
// the level to be changed after the logger is built.
func WithLevel(level slog.Leveler) Option {
	return func(c *loggerConfig) {
		c.level = level
	}
}

// WithSource enables reporting of source location (file/line).
func WithSource(enabled bool) Option {
	return func(c *loggerConfig) {
		c.addSource = enabled
	}
}

// WithFormat selects text or JSON output.
func WithFormat(format Format) Option {
	return func(c *loggerConfig) {
		c.format = format
	}
}

// New returns a logger writing to w. A nil writer means stderr.
func New(w io.Writer, opts ...Option) *slog.Logger {
	cfg := defaultLoggerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if w == nil {
		w = os.Stderr
	}

	hopts := &slog.HandlerOptions{
		Level:     cfg.level,
		AddSource: cfg.addSource,
	}

	var h slog.Handler
	switch cfg.format {
	case FormatJSON:
		h = slog.NewJSONHandler(w, hopts)
	default:
		h = slog.NewTextHandler(w, hopts)
	}
	return slog.New(h)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel converts a config level name to a slog.Level. An empty name
// means info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// ParseFormat converts a format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("unknown log format %q", name)
	}
}

// Err returns an attribute for err. Errors carrying an ErrorDetail are
// expanded into a group with their type and code.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	detail := errors.ToErrorDetail(err)
	if detail == nil || detail.Type == "internal" {
		return slog.String("error", err.Error())
	}
	return slog.Group("error",
		slog.String("message", err.Error()),
		slog.String("type", detail.Type),
		slog.String("code", detail.Code),
	)
}
