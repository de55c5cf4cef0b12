package observability

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// InitLogger configures the process-global zerolog logger. Development gets
// the console writer; everything else emits JSON lines with caller info.
func InitLogger(serviceName, env, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if level != "" {
		if lvl, err := zerolog.ParseLevel(level); err == nil {
			zerolog.SetGlobalLevel(lvl)
		}
	}

	switch env {
	case "development":
		console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		log.Logger = log.Output(console).With().Str("service", serviceName).Logger()
	default:
		log.Logger = zerolog.New(os.Stdout).With().
			Timestamp().
			Caller().
			Str("service", serviceName).
			Logger()
	}
}

// ComponentLogger tags lines with a component name, e.g. "search" or
// "substitutions", so one subsystem can be filtered out of the stream.
func ComponentLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// LoggerFromContext attaches the active trace and span IDs when the request
// carries a recording span.
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	logger := log.With().Logger()
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		logger = logger.With().
			Str("trace_id", sc.TraceID().String()).
			Str("span_id", sc.SpanID().String()).
			Logger()
	}
	return &logger
}

// GetLogger returns the process-global logger.
func GetLogger() *zerolog.Logger {
	return &log.Logger
}
