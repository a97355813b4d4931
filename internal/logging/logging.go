// Package logging provides zerolog-based structured logging for ecoscore.
//
// Loggers are built from a Config, tagged per component, and carried through
// request handling in a context.Context so that every log line emitted while
// serving a request carries its request ID.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Output formats and targets.
const (
	FormatJSON    = "json"
	FormatConsole = "console"

	OutputStderr = "stderr"
	OutputStdout = "stdout"
	OutputFile   = "file"
)

// Config controls how a logger is constructed.
type Config struct {
	// Level is a zerolog level name (trace, debug, info, warn, error).
	Level string

	// Format is "json" or "console".
	Format string

	// Output is "stderr", "stdout" or "file".
	Output string

	// File is the log file path when Output is "file".
	File string

	// Caller adds file:line to each entry.
	Caller bool
}

// DefaultConfig returns info-level JSON logging to stderr.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: FormatJSON,
		Output: OutputStderr,
	}
}

type requestIDKey struct{}

// NewLogger builds a zerolog.Logger from cfg. If the log file cannot be
// opened the logger falls back to stderr and records a warning.
func NewLogger(cfg Config) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	var fallbackReason string
	switch cfg.Output {
	case OutputStdout:
		out = os.Stdout
	case OutputFile:
		if cfg.File == "" {
			fallbackReason = "no log file configured"
			break
		}
		f, openErr := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if openErr != nil {
			fallbackReason = openErr.Error()
			break
		}
		out = f
	}

	if cfg.Format == FormatConsole {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).Level(lvl).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	logger := ctx.Logger()

	if fallbackReason != "" {
		logger.Warn().Str("reason", fallbackReason).Msg("log file unavailable, logging to stderr")
	}
	return logger
}

// ComponentLogger returns a child logger tagged with the component name.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// FromContext returns the logger stored in ctx, or a disabled logger when
// none has been attached.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		l := zerolog.Nop()
		return &l
	}
	return zerolog.Ctx(ctx)
}

// ContextWithRequestID stores the request ID in ctx.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request ID stored in ctx, if any.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GetOrGenerateRequestID returns the request ID in ctx or a fresh UUID.
func GetOrGenerateRequestID(ctx context.Context) string {
	if id := RequestIDFromContext(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
