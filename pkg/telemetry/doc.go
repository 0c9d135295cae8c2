// Package telemetry provides observability for the search pipeline executor
// using OpenTelemetry standards.
//
// This package enables monitoring of operator execution, request latency,
// distributed tracing, and operational insights through integration with
// OpenTelemetry and compatible observability platforms.
//
// # Core Components
//
// The telemetry system provides three pillars of observability:
//
// Metrics:
//   - Operator execution counter, labelled by operator and success/error status
//   - Operator duration histogram, in seconds
//   - Recorded through the global meter provider; no metric exporter is set up
//
// Traces:
//   - One span per operator execution, attributed to the request id
//   - Context propagation from the executor into each operator
//   - Performance bottleneck identification across the dependency plan
//
// Logs:
//   - Structured logging with trace correlation
//   - Automatic context enrichment via EnrichLogFields
//   - Log-to-trace correlation IDs
//
// # AutoOTEL Interface
//
// The AutoOTEL interface provides automatic instrumentation:
//
//	type AutoOTEL interface {
//	    CreateSpanWithOperator(ctx context.Context, operator OperatorMetadata) (context.Context, trace.Span)
//	    RecordOperatorMetrics(ctx context.Context, operator OperatorMetadata, duration time.Duration, err error)
//	    Shutdown(ctx context.Context) error
//	}
//
// # Usage Example
//
//	autoOTEL, err := telemetry.NewAutoOTEL("search-pipeline-executor")
//	if err != nil {
//	    log.Warn("telemetry disabled", map[string]interface{}{"error": err.Error()})
//	} else {
//	    executor.WithTelemetry(autoOTEL)
//	    defer autoOTEL.Shutdown(context.Background())
//	}
//
// # Configuration
//
// Telemetry can be configured through environment variables:
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint (e.g., localhost:4317)
//   - OTEL_SERVICE_NAME: Service name for traces
//   - OTEL_SDK_DISABLED: set to "true" to fall back to a no-op tracer/meter
//   - OTEL_TRACES_EXPORTER: set to "console" to pretty-print spans to stdout
//     instead of exporting over OTLP, for local runs and integration tests
//   - DEPLOYMENT_ENVIRONMENT: resource attribute reported on every span
//
// # Context Propagation
//
// WithRequestID and WithTenant attach the request, user, and organization
// ids to context.Context before the executor dispatches any operator;
// EnrichLogFields reads them back out (alongside the active span's trace and
// span ids) to enrich a log call's fields.
package telemetry
