package telemetry

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

// OperatorMetadata identifies one operator execution for span and metric
// attribution: which stage ran, for which request, after which dependencies.
type OperatorMetadata struct {
	Name      string
	RequestID string
	DependsOn []string
}

// OTELImpl provides zero-configuration OpenTelemetry integration
type OTELImpl struct {
	TraceProvider *sdktrace.TracerProvider
	MeterProvider metric.MeterProvider
	Tracer        trace.Tracer
	Meter         metric.Meter
	serviceName   string
	resource      *resource.Resource
}

// NewAutoOTEL creates a new auto-configured OTEL instance for the search
// pipeline executor.
func NewAutoOTEL(serviceName string) (AutoOTEL, error) {
	// Check if OTEL is disabled
	if os.Getenv("OTEL_SDK_DISABLED") == "true" {
		return &OTELImpl{
			Tracer: otel.Tracer("noop"),
			Meter:  otel.Meter("noop"),
		}, nil
	}

	// Auto-detect service name
	if serviceName == "" {
		serviceName = os.Getenv("OTEL_SERVICE_NAME")
		if serviceName == "" {
			serviceName = "search-pipeline-executor"
		}
	}

	// Create resource with rich context
	res, err := createResourceWithAttributes(serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTEL resource: %w", err)
	}

	// Set up trace provider
	traceProvider, err := setupTraceProvider(res)
	if err != nil {
		return nil, fmt.Errorf("failed to setup trace provider: %w", err)
	}

	// Set up meter provider
	meterProvider, err := setupMeterProvider(res)
	if err != nil {
		return nil, fmt.Errorf("failed to setup meter provider: %w", err)
	}

	// Set global providers
	otel.SetTracerProvider(traceProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	autoOTEL := &OTELImpl{
		TraceProvider: traceProvider,
		MeterProvider: meterProvider,
		Tracer:        traceProvider.Tracer("search-pipeline-executor"),
		Meter:         meterProvider.Meter("search-pipeline-executor"),
		serviceName:   serviceName,
		resource:      res,
	}

	return autoOTEL, nil
}

// createResourceWithAttributes creates an OTEL resource describing this
// service plus the infra context it's running in.
func createResourceWithAttributes(serviceName string) (*resource.Resource, error) {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
		semconv.ServiceVersionKey.String(getServiceVersion()),
		semconv.DeploymentEnvironmentKey.String(getEnvironment()),

		// Kubernetes attributes (if running in K8s)
		semconv.K8SNamespaceNameKey.String(os.Getenv("KUBERNETES_NAMESPACE")),
		semconv.K8SPodNameKey.String(os.Getenv("HOSTNAME")),
		attribute.String("k8s.pod.ip", os.Getenv("POD_IP")),
	), nil
}

// setupTraceProvider configures the trace provider based on environment
func setupTraceProvider(res *resource.Resource) (*sdktrace.TracerProvider, error) {
	ctx := context.Background()

	// A console exporter is handy for local runs and integration tests
	// where nothing is listening on an OTLP endpoint.
	if os.Getenv("OTEL_TRACES_EXPORTER") == "console" {
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create console exporter: %w", err)
		}
		return sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		), nil
	}

	// Check for OTLP endpoint
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		// No OTEL endpoint - spans are created but not exported
		return sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
		), nil
	}

	// Set up OTLP exporter
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(), // TODO: Make configurable
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	// Configure sampling
	sampler := sdktrace.AlwaysSample()
	samplerArg := os.Getenv("OTEL_TRACES_SAMPLER_ARG")
	if samplerArg != "" && os.Getenv("OTEL_TRACES_SAMPLER") == "traceidratio" {
		// Parse sampling ratio
		if ratio, err := parseFloat64(samplerArg); err == nil {
			sampler = sdktrace.TraceIDRatioBased(ratio)
		}
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	return provider, nil
}

// setupMeterProvider configures the meter provider
func setupMeterProvider(res *resource.Resource) (metric.MeterProvider, error) {
	// For now, return the global meter provider
	// TODO: Add Prometheus exporter configuration
	return otel.GetMeterProvider(), nil
}

// getServiceVersion gets the service version from environment or default
func getServiceVersion() string {
	if version := os.Getenv("OTEL_SERVICE_VERSION"); version != "" {
		return version
	}
	return "1.0.0" // Default version
}

// getEnvironment gets the deployment environment
func getEnvironment() string {
	if env := os.Getenv("DEPLOYMENT_ENVIRONMENT"); env != "" {
		return env
	}
	if env := os.Getenv("OTEL_RESOURCE_ATTRIBUTES"); env != "" {
		// Parse environment from resource attributes
		// Simplified parsing - in production, use proper parsing
		return "production"
	}
	return "development"
}

// parseFloat64 safely parses a float64 from string
func parseFloat64(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// CreateSpanWithOperator starts a span for one operator's execution within
// a request's plan.
func (a *OTELImpl) CreateSpanWithOperator(ctx context.Context, operator OperatorMetadata) (context.Context, trace.Span) {
	spanName := fmt.Sprintf("operator.%s", operator.Name)
	ctx, span := a.Tracer.Start(ctx, spanName)

	span.SetAttributes(
		attribute.String("search.operator.name", operator.Name),
		attribute.String("search.request_id", operator.RequestID),
		attribute.StringSlice("search.operator.depends_on", operator.DependsOn),
	)

	return ctx, span
}

// RecordOperatorMetrics records execution count and duration for one
// operator.
func (a *OTELImpl) RecordOperatorMetrics(ctx context.Context, operator OperatorMetadata, duration time.Duration, err error) {
	// Record execution counter
	if counter, counterErr := a.Meter.Int64Counter(
		"operator_executions_total",
		metric.WithDescription("Total operator executions"),
	); counterErr == nil {
		labels := []attribute.KeyValue{
			attribute.String("operator", operator.Name),
		}
		if err != nil {
			labels = append(labels, attribute.String("status", "error"))
		} else {
			labels = append(labels, attribute.String("status", "success"))
		}
		counter.Add(ctx, 1, metric.WithAttributes(labels...))
	}

	// Record duration histogram
	if histogram, histErr := a.Meter.Float64Histogram(
		"operator_duration_seconds",
		metric.WithDescription("Operator execution duration"),
	); histErr == nil {
		histogram.Record(ctx, duration.Seconds(),
			metric.WithAttributes(
				attribute.String("operator", operator.Name),
			))
	}
}

// Shutdown gracefully shuts down the OTEL providers
func (a *OTELImpl) Shutdown(ctx context.Context) error {
	if a.TraceProvider != nil {
		return a.TraceProvider.Shutdown(ctx)
	}
	return nil
}
