package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	// SessionIDKey is the key used to store a driving-session id in context.
	SessionIDKey contextKey = "session_id"
)

// Config defines logging configuration.
type Config struct {
	// Level is the logging level (debug, info, warn, error).
	Level string
	// Pretty determines if logs should be formatted for human readability.
	Pretty bool
	// Output is where logs are written (defaults to os.Stdout).
	Output io.Writer
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Pretty: false,
		Output: os.Stdout,
	}
}

// Setup configures global logging based on the provided config.
func Setup(cfg Config) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// FromContext extracts a logger carrying the session id, if any is bound
// to ctx, falling back to the global logger otherwise.
func FromContext(ctx context.Context) zerolog.Logger {
	if sessionID, ok := ctx.Value(SessionIDKey).(string); ok {
		return log.With().Str("session_id", sessionID).Logger()
	}
	return log.Logger
}

// WithSessionID returns a context carrying sessionID for FromContext to
// pick up.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}
