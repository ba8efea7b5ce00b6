package logging

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldMethod is the HTTP method of an API call.
	FieldMethod = "method"
	// FieldPath is the request path of an API call.
	FieldPath = "path"
	// FieldStatus is the HTTP status code of an API response.
	FieldStatus = "status"
	// FieldEntity names the record kind an operation touches (pipeline, deployment, ...).
	FieldEntity = "entity"
	// FieldEntityID is the identifier of that record.
	FieldEntityID = "entity_id"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
)

type correlationKey struct{}

// WithCorrelationID stores a correlation identifier on ctx. An empty id
// generates a fresh random one.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationIDFromContext returns the identifier stored by WithCorrelationID.
func CorrelationIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(correlationKey{}).(string)
	return id, ok && id != ""
}

// WithContext tags logger with the correlation id carried by ctx, if any.
// A nil logger becomes a discarding one.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if id, ok := CorrelationIDFromContext(ctx); ok {
		return logger.With(slog.String(FieldCorrelationID, id))
	}
	return logger
}
