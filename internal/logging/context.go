package logging

import (
	"context"
	"log/slog"
	"strings"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldCorrelationID ties together the lines of one operation.
	FieldCorrelationID = "correlation_id"
	// FieldProject is the project code an operation works in.
	FieldProject = "project"
	// FieldSequence is the sequence code an operation works in.
	FieldSequence = "sequence"
	// FieldShot is the shot code an operation works in.
	FieldShot = "shot"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the reader what to do next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
)

type contextKey int

const (
	correlationKey contextKey = iota
	projectKey
	sequenceKey
	shotKey
)

func withValue(ctx context.Context, key contextKey, value string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func valueFrom(ctx context.Context, key contextKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(key).(string)
	return value, ok && value != ""
}

// WithCorrelationID attaches a correlation id to ctx.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return withValue(ctx, correlationKey, id)
}

// CorrelationIDFromContext returns the correlation id attached to ctx.
func CorrelationIDFromContext(ctx context.Context) (string, bool) {
	return valueFrom(ctx, correlationKey)
}

// WithPlacement attaches the project, sequence and shot codes an operation
// works on. Empty codes are skipped.
func WithPlacement(ctx context.Context, project, sequence, shot string) context.Context {
	ctx = withValue(ctx, projectKey, project)
	ctx = withValue(ctx, sequenceKey, sequence)
	return withValue(ctx, shotKey, shot)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 4)
	if project, ok := valueFrom(ctx, projectKey); ok {
		fields = append(fields, slog.String(FieldProject, project))
	}
	if sequence, ok := valueFrom(ctx, sequenceKey); ok {
		fields = append(fields, slog.String(FieldSequence, sequence))
	}
	if shot, ok := valueFrom(ctx, shotKey); ok {
		fields = append(fields, slog.String(FieldShot, shot))
	}
	if id, ok := valueFrom(ctx, correlationKey); ok {
		fields = append(fields, slog.String(FieldCorrelationID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
