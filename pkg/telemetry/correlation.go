package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// ContextKey type for context keys
type ContextKey string

const (
	// RequestIDKey is the context key for the search request id
	RequestIDKey ContextKey = "request_id"
	// UserIDKey is the context key for the authenticated user id
	UserIDKey ContextKey = "user_id"
	// OrganizationIDKey is the context key for the tenant organization id
	OrganizationIDKey ContextKey = "organization_id"
)

// WithRequestID attaches a request id to ctx for operators and spans
// downstream of the executor to pick up.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithTenant attaches user and organization identity to ctx.
func WithTenant(ctx context.Context, userID, organizationID string) context.Context {
	if userID != "" {
		ctx = context.WithValue(ctx, UserIDKey, userID)
	}
	if organizationID != "" {
		ctx = context.WithValue(ctx, OrganizationIDKey, organizationID)
	}
	return ctx
}

// GetRequestID retrieves the request id from context.
func GetRequestID(ctx context.Context) string {
	if id := ctx.Value(RequestIDKey); id != nil {
		return id.(string)
	}
	return ""
}

// GetUserID retrieves the user id from context.
func GetUserID(ctx context.Context) string {
	if id := ctx.Value(UserIDKey); id != nil {
		return id.(string)
	}
	return ""
}

// GetOrganizationID retrieves the organization id from context.
func GetOrganizationID(ctx context.Context) string {
	if id := ctx.Value(OrganizationIDKey); id != nil {
		return id.(string)
	}
	return ""
}

// EnrichLogFields adds correlation identifiers and, if a span is active,
// trace/span ids to a structured log field map.
func EnrichLogFields(ctx context.Context, fields map[string]interface{}) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}

	if requestID := GetRequestID(ctx); requestID != "" {
		fields["request_id"] = requestID
	}
	if userID := GetUserID(ctx); userID != "" {
		fields["user_id"] = userID
	}
	if orgID := GetOrganizationID(ctx); orgID != "" {
		fields["organization_id"] = orgID
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		spanCtx := span.SpanContext()
		fields["trace_id"] = spanCtx.TraceID().String()
		fields["span_id"] = spanCtx.SpanID().String()
	}

	return fields
}
