package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"

	"github.com/gomind-search/pipeline/pkg/analytics"
	"github.com/gomind-search/pipeline/pkg/logger"
	"github.com/gomind-search/pipeline/pkg/pubsub"
	"github.com/gomind-search/pipeline/pkg/telemetry"
)

// Executor runs a Config's operators in dependency order, streaming
// lifecycle events over a pubsub channel and recording a single analytics
// event per invocation. One Executor instance is safe to reuse across
// concurrent requests; it holds no per-request state of its own.
type Executor struct {
	publisher pubsub.Publisher
	analytics analytics.Sink
	logger    logger.Logger
	telemetry telemetry.AutoOTEL
	namespace string

	mu               sync.Mutex
	totalExecutions  int64
	failedExecutions int64
}

// NewExecutor wires the executor's external collaborators. A nil logger
// falls back to the package default. A nil publisher is not defaulted
// here (pubsub.NoopPublisher exists for discarding events); a nil sink
// makes the executor skip the analytics event.
func NewExecutor(publisher pubsub.Publisher, sink analytics.Sink, log logger.Logger) *Executor {
	if log == nil {
		log = logger.NewDefaultLogger()
	}
	return &Executor{
		publisher: publisher,
		analytics: sink,
		logger:    log,
		namespace: "search",
	}
}

// WithTelemetry installs an OpenTelemetry integration that the executor
// uses to span and record metrics for each operator execution. Telemetry is
// optional: an Executor with none installed runs identically, just
// unobserved. Returns e for chaining at construction time.
func (e *Executor) WithTelemetry(t telemetry.AutoOTEL) *Executor {
	e.telemetry = t
	return e
}

// Execute runs cfg's operators to completion (or first failure), streaming
// events to "search:<requestID>" if requestID is non-empty, and returns the
// final ExecutionContext.
//
// Any operator failure fails the whole request: the returned error wraps
// the failing operator's own error, the stream carries an `error` event
// followed by `done`, and the analytics event still fires exactly once.
func (e *Executor) Execute(ctx context.Context, cfg Config, db *pgxpool.Pool, rc RequestContext, requestID string) (*ExecutionContext, error) {
	if cfg.Embedding == nil || cfg.VectorSearch == nil {
		return nil, &PlanError{
			Code:    ErrMissingRequiredOperator,
			Message: "config must populate both Embedding and VectorSearch operators",
		}
	}

	log := rc.Logger
	if log == nil {
		log = e.logger
	}

	plan := BuildPlan(cfg)

	ec := &ExecutionContext{
		Query:   cfg.Query,
		Config:  cfg,
		DB:      db,
		Request: rc,
		Timings: make(map[string]time.Duration),
		Errors:  make([]OperationError, 0),
	}
	if requestID != "" {
		ec.RequestID = requestID
		ec.StreamingRequired = true
	}
	ctx = telemetry.WithRequestID(ctx, requestID)
	userID := ""
	if rc.UserID != nil {
		userID = *rc.UserID
	}
	ctx = telemetry.WithTenant(ctx, userID, rc.OrganizationID)

	emitter := newEventEmitter(e.publisher, pubsub.Channel(e.namespace, requestID), log, requestID != "")
	ec.emit = func(eventType string, data map[string]interface{}, opName string) {
		emitter.emit(ctx, eventType, data, opName)
	}

	log.Debug("search config summary", map[string]interface{}{
		"limit":           cfg.Limit,
		"offset":          cfg.Offset,
		"score_threshold": cfg.ScoreThreshold,
		"operators":       len(plan),
	})

	ec.Emit("start", map[string]interface{}{
		"request_id": requestID,
		"query":      cfg.Query,
		"limit":      cfg.Limit,
		"offset":     cfg.Offset,
	}, "")

	startTime := time.Now()
	var execErr error
	e.incrementTotal()

	// Guaranteed-cleanup block: the analytics event and `done` must fire on
	// every path out of this function, success or failure.
	defer func() {
		e.recordAnalytics(ctx, ec, requestID, startTime, execErr)
		ec.Emit("done", map[string]interface{}{"request_id": requestID}, "")
	}()

	execErr = e.runScheduler(ctx, plan, ec, log)
	if execErr != nil {
		e.incrementFailed()
		return ec, execErr
	}

	e.finalize(ec)
	ec.Emit("results", map[string]interface{}{"results": ec.Products.FinalResults}, "")

	totalTime := time.Since(startTime)
	ec.Emit("summary", map[string]interface{}{
		"timings":       timingsMs(ec.Timings),
		"errors":        ec.Errors,
		"total_time_ms": float64(totalTime) / float64(time.Millisecond),
	}, "")

	log.Debug("search pipeline completed", map[string]interface{}{
		"operations_executed": ec.ExecutionSummary.OperationsExecuted,
		"results":             len(ec.Products.FinalResults),
		"total_time_ms":       float64(totalTime) / float64(time.Millisecond),
	})

	return ec, nil
}

// runScheduler drives the dependency-ready batch loop. It returns the first
// operator error encountered, or nil if every plan operator executed (or
// the scheduler gave up because no further operator became ready).
func (e *Executor) runScheduler(ctx context.Context, plan []Operator, ec *ExecutionContext, log logger.Logger) error {
	executed := make(map[string]bool, len(plan))

	for len(executed) < len(plan) {
		ready := findReady(plan, executed)
		if len(ready) == 0 {
			remaining := make([]string, 0, len(plan)-len(executed))
			for _, op := range plan {
				if !executed[op.Name()] {
					remaining = append(remaining, op.Name())
				}
			}
			log.Warn("cannot execute remaining operators", map[string]interface{}{
				"remaining": remaining,
			})
			break
		}

		for _, op := range ready {
			ec.Emit("operator_start", map[string]interface{}{"name": op.Name()}, op.Name())

			opCtx := ctx
			meta := telemetry.OperatorMetadata{Name: op.Name(), RequestID: ec.RequestID, DependsOn: op.DependsOn()}
			var span trace.Span
			if e.telemetry != nil {
				opCtx, span = e.telemetry.CreateSpanWithOperator(opCtx, meta)
			}

			opStart := time.Now()
			err := op.Execute(opCtx, ec)
			elapsed := time.Since(opStart)

			if e.telemetry != nil {
				e.telemetry.RecordOperatorMetrics(opCtx, meta, elapsed, err)
				if span != nil {
					if err != nil {
						span.RecordError(err)
					}
					span.End()
				}
			}

			if err != nil {
				opErr := OperationError{Operation: op.Name(), Error: err.Error()}
				ec.Errors = append(ec.Errors, opErr)
				log.Error("operator failed", telemetry.EnrichLogFields(opCtx, map[string]interface{}{
					"operator": op.Name(),
					"error":    err.Error(),
				}))
				ec.Emit("error", map[string]interface{}{
					"operation": op.Name(),
					"message":   err.Error(),
				}, op.Name())
				return &OperatorError{Operation: op.Name(), Code: ErrOperatorFailed, Err: err}
			}

			ec.Timings[op.Name()] = elapsed
			executed[op.Name()] = true

			log.Debug(fmt.Sprintf("operator %s completed", op.Name()), map[string]interface{}{
				"operator": op.Name(),
				"ms":       float64(elapsed) / float64(time.Millisecond),
			})

			ec.Emit("operator_end", map[string]interface{}{
				"name": op.Name(),
				"ms":   float64(elapsed) / float64(time.Millisecond),
			}, op.Name())
		}
	}

	return nil
}

// finalize guarantees final_results is present even if no reranking stage
// ran, and populates the terminal execution summary.
func (e *Executor) finalize(ec *ExecutionContext) {
	if ec.Products.FinalResults == nil {
		if ec.Products.RawResults != nil {
			ec.Products.FinalResults = ec.Products.RawResults
		} else {
			ec.Products.FinalResults = []Result{}
		}
	}

	var total time.Duration
	for _, d := range ec.Timings {
		total += d
	}

	ec.ExecutionSummary = &ExecutionSummary{
		OperationsExecuted: len(ec.Timings),
		TotalTimeMs:        float64(total) / float64(time.Millisecond),
		ErrorsCount:        len(ec.Errors),
	}
}

// recordAnalytics fires the single search_query business event for this
// invocation. Unlike the system this package is modeled on, status reflects
// the request's actual outcome (see DESIGN.md for why this is a deliberate
// deviation) rather than always reporting success.
func (e *Executor) recordAnalytics(ctx context.Context, ec *ExecutionContext, requestID string, startTime time.Time, execErr error) {
	if e.analytics == nil {
		return
	}

	searchType := "regular"
	if requestID != "" {
		searchType = "streaming"
	}

	status := "success"
	if execErr != nil {
		status = "error"
	}

	properties := map[string]interface{}{
		"query_length":      len(ec.Query),
		"collection_slug":   ec.Config.CollectionSlug,
		"duration_ms":       float64(time.Since(startTime)) / float64(time.Millisecond),
		"search_type":       searchType,
		"organization_name": ec.Request.OrganizationName,
		"status":            status,
	}
	if len(ec.Products.FinalResults) > 0 {
		properties["results_count"] = len(ec.Products.FinalResults)
	}

	userID := ""
	if ec.Request.UserID != nil {
		userID = *ec.Request.UserID
	}

	event := analytics.Event{
		Name:       "search_query",
		DistinctID: analytics.DistinctID(userID, ec.Request.OrganizationID),
		Properties: properties,
		Groups:     map[string]string{"organization": ec.Request.OrganizationID},
	}

	if err := e.analytics.Track(ctx, event); err != nil {
		e.logger.Warn("failed to record search analytics", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (e *Executor) incrementTotal() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.totalExecutions++
}

func (e *Executor) incrementFailed() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failedExecutions++
}

// Metrics returns lifetime execution counters for this Executor instance:
// every Execute call that reached the scheduler counts toward
// total_executions, and those that returned an error also count toward
// failed_executions.
func (e *Executor) Metrics() map[string]int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return map[string]int64{
		"total_executions":  e.totalExecutions,
		"failed_executions": e.failedExecutions,
	}
}

// timingsMs converts Timings to the name->milliseconds map the `summary`
// event payload carries.
func timingsMs(timings map[string]time.Duration) map[string]float64 {
	out := make(map[string]float64, len(timings))
	for name, d := range timings {
		out[name] = float64(d) / float64(time.Millisecond)
	}
	return out
}

// NewRequestID generates a request id for callers that want streaming but
// don't have one of their own.
func NewRequestID() string {
	return uuid.New().String()
}
