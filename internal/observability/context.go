package observability

import (
	"context"
	"encoding/hex"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey struct{}

// logFields is the set of correlation values carried on a context. It is
// stored by value, so every With* call yields an independent copy.
type logFields struct {
	traceID   string
	spanID    string
	requestID string
	model     string
	scenario  string
	source    string
}

func fieldsFrom(ctx context.Context) logFields {
	f, _ := ctx.Value(contextKey{}).(logFields)
	return f
}

func withField(ctx context.Context, set func(*logFields)) context.Context {
	f := fieldsFrom(ctx)
	set(&f)
	return context.WithValue(ctx, contextKey{}, f)
}

// zapFields returns the non-empty correlation values as zap fields.
func (f logFields) zapFields() []zap.Field {
	pairs := [...]struct{ key, value string }{
		{"trace_id", f.traceID},
		{"span_id", f.spanID},
		{"request_id", f.requestID},
		{"model", f.model},
		{"scenario", f.scenario},
		{"source", f.source},
	}

	fields := make([]zap.Field, 0, len(pairs))
	for _, p := range pairs {
		if p.value != "" {
			fields = append(fields, zap.String(p.key, p.value))
		}
	}
	return fields
}

// WithTraceID injects the trace id into context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return withField(ctx, func(f *logFields) { f.traceID = traceID })
}

// WithSpanID injects the span id into context.
func WithSpanID(ctx context.Context, spanID string) context.Context {
	return withField(ctx, func(f *logFields) { f.spanID = spanID })
}

// WithRequestID injects the request id into context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withField(ctx, func(f *logFields) { f.requestID = requestID })
}

// WithModel injects the model id being priced.
func WithModel(ctx context.Context, modelID string) context.Context {
	return withField(ctx, func(f *logFields) { f.model = modelID })
}

// WithScenario injects the scenario name or id being operated on.
func WithScenario(ctx context.Context, scenario string) context.Context {
	return withField(ctx, func(f *logFields) { f.scenario = scenario })
}

// WithSource injects the catalog source being fetched.
func WithSource(ctx context.Context, source string) context.Context {
	return withField(ctx, func(f *logFields) { f.source = source })
}

// GetTraceID extracts the trace id from context.
func GetTraceID(ctx context.Context) string { return fieldsFrom(ctx).traceID }

// GetSpanID extracts the span id from context.
func GetSpanID(ctx context.Context) string { return fieldsFrom(ctx).spanID }

// GetRequestID extracts the request id from context.
func GetRequestID(ctx context.Context) string { return fieldsFrom(ctx).requestID }

// GenerateTraceID returns 32 hex chars, the OpenTelemetry trace id width.
func GenerateTraceID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// GenerateSpanID returns 16 hex chars, the OpenTelemetry span id width.
func GenerateSpanID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:8])
}

// GenerateRequestID returns a random UUID.
func GenerateRequestID() string {
	return uuid.NewString()
}
