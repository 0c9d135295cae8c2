package search

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gomind-search/pipeline/pkg/logger"
)

// Result is a single retrieved/ranked item. Operators are free to populate
// whatever keys make sense for their stage (id, score, content, metadata);
// the executor never inspects these beyond counting them.
type Result map[string]interface{}

// Config is the declarative description of one search request: which
// operators run and the retrieval bounds they share.
type Config struct {
	Query          string
	Limit          int
	Offset         int
	ScoreThreshold *float64
	CollectionSlug string

	QueryExpansion      Operator
	QueryInterpretation Operator
	QdrantFilter        Operator
	Embedding           Operator // required
	VectorSearch        Operator // required
	Recency             Operator
	Reranking           Operator
	Completion          Operator
}

// Operator is a single pipeline stage. Implementations mutate the
// ExecutionContext they're handed and return an error if the stage failed;
// the executor treats any returned error as fatal to the whole request.
type Operator interface {
	Name() string
	DependsOn() []string
	Execute(ctx context.Context, ec *ExecutionContext) error
}

// RequestContext bundles the caller-supplied identity and collaborators
// this package treats as external: a logger, and enough tenant identity to
// attribute the analytics event.
type RequestContext struct {
	Logger           logger.Logger
	UserID           *string
	OrganizationID   string
	OrganizationName string
}

// OperationError records a single failed operator, in the shape the
// pipeline's `summary` event publishes.
type OperationError struct {
	Operation string `json:"operation"`
	Error     string `json:"error"`
}

// Products accumulates the incremental output of each pipeline stage.
// Operators write only the field(s) corresponding to their own stage.
type Products struct {
	ExpandedQueries []string
	Interpretation  map[string]interface{}
	Filter          map[string]interface{}
	Embeddings      [][]float32
	RawResults      []Result
	FinalResults    []Result
	Completion      string
}

// ExecutionSummary is populated once the scheduler loop finishes.
type ExecutionSummary struct {
	OperationsExecuted int     `json:"operations_executed"`
	TotalTimeMs        float64 `json:"total_time_ms"`
	ErrorsCount        int     `json:"errors_count"`
}

// ExecutionContext is the per-request mutable record threaded through every
// operator: immutable inputs, accumulators the executor owns, and the
// Products each operator contributes to. It is created fresh for each
// Execute call and never shared across requests.
type ExecutionContext struct {
	Query   string
	Config  Config
	DB      *pgxpool.Pool
	Request RequestContext

	RequestID         string
	StreamingRequired bool

	Timings map[string]time.Duration
	Errors  []OperationError

	Products Products

	ExecutionSummary *ExecutionSummary

	emit func(eventType string, data map[string]interface{}, opName string)
}

// Emit publishes a lifecycle or data event through the executor's installed
// emitter. It is a no-op if the request is not in streaming mode.
func (ec *ExecutionContext) Emit(eventType string, data map[string]interface{}, opName string) {
	if ec.emit == nil {
		return
	}
	ec.emit(eventType, data, opName)
}

// Event is the wire shape published on the pubsub channel for one request.
type Event struct {
	Type  string    `json:"type"`
	Seq   int       `json:"seq"`
	Op    string    `json:"op,omitempty"`
	OpSeq *int      `json:"op_seq,omitempty"`
	TS    time.Time `json:"ts"`

	Data map[string]interface{} `json:"-"`
}

// MarshalJSON flattens Data alongside the envelope fields so subscribers
// see one flat frame per event rather than a nested payload.
func (e Event) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"type": e.Type,
		"seq":  e.Seq,
		"ts":   e.TS.Format(time.RFC3339Nano),
	}
	if e.Op != "" {
		out["op"] = e.Op
	} else {
		out["op"] = nil
	}
	if e.OpSeq != nil {
		out["op_seq"] = *e.OpSeq
	} else {
		out["op_seq"] = nil
	}
	for k, v := range e.Data {
		out[k] = v
	}
	return json.Marshal(out)
}
