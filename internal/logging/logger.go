package logging

import (
	"context"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

type contextKey string

const loggerKey = contextKey("logger")

var (
	defaultLogger     zerolog.Logger
	defaultLoggerOnce sync.Once
)

// DefaultLogger returns a pointer so level methods chain directly off the
// call, zerolog events hang off *Logger
func DefaultLogger() *zerolog.Logger {
	defaultLoggerOnce.Do(func() {
		defaultLogger = NewLogger("convq")
	})
	return &defaultLogger
}

func NewLogger(component string) zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Str("component", component).Logger()
}

func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, &logger)
}

func FromContext(ctx context.Context) *zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok {
		return logger
	}
	return DefaultLogger()
}
