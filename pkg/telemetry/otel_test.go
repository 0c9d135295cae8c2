package telemetry

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAutoOTEL_Disabled(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "true")

	otelImpl, err := NewAutoOTEL("search-pipeline-executor")
	require.NoError(t, err)

	ctx, span := otelImpl.CreateSpanWithOperator(context.Background(), OperatorMetadata{Name: "embedding"})
	span.End()
	otelImpl.RecordOperatorMetrics(ctx, OperatorMetadata{Name: "embedding"}, 5*time.Millisecond, nil)

	require.NoError(t, otelImpl.Shutdown(context.Background()))
}

func TestNewAutoOTEL_ConsoleExporter(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "console")
	os.Unsetenv("OTEL_SDK_DISABLED")

	otelImpl, err := NewAutoOTEL("search-pipeline-executor-test")
	require.NoError(t, err)
	defer otelImpl.Shutdown(context.Background())

	ctx, span := otelImpl.CreateSpanWithOperator(context.Background(), OperatorMetadata{
		Name:      "vector_search",
		RequestID: "r1",
		DependsOn: []string{"embedding"},
	})
	assert.True(t, span.SpanContext().IsValid())
	otelImpl.RecordOperatorMetrics(ctx, OperatorMetadata{Name: "vector_search"}, 10*time.Millisecond, nil)
	span.End()
}

func TestCorrelation_RequestIDAndTenantRoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-123")
	ctx = WithTenant(ctx, "user-1", "org-1")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Equal(t, "user-1", GetUserID(ctx))
	assert.Equal(t, "org-1", GetOrganizationID(ctx))
}

func TestCorrelation_EmptyValuesNotStored(t *testing.T) {
	ctx := WithRequestID(context.Background(), "")
	assert.Equal(t, "", GetRequestID(ctx))
}

func TestEnrichLogFields(t *testing.T) {
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-456")
	ctx = WithTenant(ctx, "user-2", "org-2")

	fields := EnrichLogFields(ctx, map[string]interface{}{"operator": "reranking"})
	assert.Equal(t, "req-456", fields["request_id"])
	assert.Equal(t, "user-2", fields["user_id"])
	assert.Equal(t, "org-2", fields["organization_id"])
	assert.Equal(t, "reranking", fields["operator"])
}

func TestEnrichLogFields_NilFieldsInitialized(t *testing.T) {
	fields := EnrichLogFields(context.Background(), nil)
	assert.NotNil(t, fields)
}
