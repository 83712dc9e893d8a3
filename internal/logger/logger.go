// Package logger wraps zerolog with the constructors and context helpers the
// rest of the service uses. Handlers attach a request-scoped logger to the
// fiber user context; everything below reads it back with FromContext.
package logger

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger embeds zerolog.Logger so the full zerolog API is available directly.
type Logger struct {
	zerolog.Logger
}

// NewLogger builds the process-wide logger for the given role label
// ("server", "mailer"). JSON to stdout; level comes from LOG_LEVEL and
// defaults to info.
func NewLogger(role string) *Logger {
	level := zerolog.InfoLevel
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(raw)); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)

	l := zerolog.New(os.Stdout).With().
		Str("role", role).
		Timestamp().
		Logger()

	return &Logger{l}
}

// Nop returns a logger that discards everything. For tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// WithContext stores the logger in ctx so FromContext can recover it.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.Logger.WithContext(ctx)
}

// FromContext returns the logger previously attached to ctx. Zerolog falls
// back to its global logger when none was attached, so the result is never
// nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
