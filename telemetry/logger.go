package telemetry

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTELHook adds trace and span IDs to every log entry
type OTELHook struct{}

func (h OTELHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return
	}

	e.Str("trace_id", span.SpanContext().TraceID().String())
	e.Str("span_id", span.SpanContext().SpanID().String())

	if level == zerolog.ErrorLevel {
		span.SetStatus(codes.Error, msg)
	}
}

// Logger wraps zerolog with OTEL integration
type Logger struct {
	zerolog.Logger
}

// NewLogger creates a new logger with OTEL hooks
func NewLogger(service string) *Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", service).
		Logger().
		Hook(OTELHook{})

	return &Logger{Logger: logger}
}

// WithContext returns a logger with context (for trace propagation)
func (l *Logger) WithContext(ctx context.Context) *zerolog.Logger {
	logger := l.Logger.With().Ctx(ctx).Logger()
	return &logger
}

// Convenience methods for scan operations

func (l *Logger) LogScanStart(ctx context.Context, tenantID, tenantName string) {
	l.WithContext(ctx).Info().
		Str("tenant_id", tenantID).
		Str("tenant_name", tenantName).
		Str("operation", "scan").
		Msg("tenant scan started")
}

func (l *Logger) LogScanComplete(ctx context.Context, tenantID string, items int, durationMs float64) {
	l.WithContext(ctx).Info().
		Str("tenant_id", tenantID).
		Int("checklist_items", items).
		Float64("duration_ms", durationMs).
		Str("operation", "scan").
		Msg("tenant scan completed")
}

func (l *Logger) LogBatchStart(ctx context.Context, tenantCount int) {
	l.WithContext(ctx).Info().
		Int("tenants", tenantCount).
		Str("operation", "batch_sync").
		Msg("global audit sync started")
}

func (l *Logger) LogStorageError(ctx context.Context, operation string, err error) {
	l.WithContext(ctx).Error().
		Err(err).
		Str("operation", operation).
		Msg("storage operation failed")
}
