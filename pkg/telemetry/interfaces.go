package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// AutoOTEL interface defines telemetry functionality
type AutoOTEL interface {
	CreateSpanWithOperator(ctx context.Context, operator OperatorMetadata) (context.Context, trace.Span)
	RecordOperatorMetrics(ctx context.Context, operator OperatorMetadata, duration time.Duration, err error)
	Shutdown(ctx context.Context) error
}
