// Command searchd wires the search pipeline executor's default
// collaborators together and runs a single query against them. It exists
// as a reference wiring, not a production server: real callers embed
// pkg/search.Executor directly behind their own API surface.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gomind-search/pipeline/pkg/ai"
	"github.com/gomind-search/pipeline/pkg/analytics"
	"github.com/gomind-search/pipeline/pkg/logger"
	"github.com/gomind-search/pipeline/pkg/pubsub"
	"github.com/gomind-search/pipeline/pkg/search"
	"github.com/gomind-search/pipeline/pkg/search/operators"
	"github.com/gomind-search/pipeline/pkg/telemetry"
	"github.com/gomind-search/pipeline/pkg/vectorstore"
)

func main() {
	log := logger.NewDefaultLogger()

	query := os.Getenv("SEARCH_QUERY")
	if query == "" {
		query = "what changed in the latest release?"
	}

	var aiClient ai.AIClient
	var embedder ai.Embedder
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		aiClient = ai.NewOpenAIClient(apiKey, os.Getenv("DEFAULT_AI_MODEL"), log)
		embedder = ai.NewOpenAIEmbedder(apiKey, "", 0)
		log.Info("AI client initialized", map[string]interface{}{"provider": "openai"})
	} else {
		log.Warn("no OPENAI_API_KEY set, LLM-backed operators will be disabled and embedding will fail at runtime", map[string]interface{}{})
	}

	publisher := newPublisher(log)
	defer publisher.Close()

	sink := analytics.NewLoggingSink(log)

	store, err := newStore(log)
	if err != nil {
		log.Error("failed to initialize vector store", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	if store != nil {
		defer store.Close()
	}

	templates, err := operators.LoadFilterTemplates(os.Getenv("FILTER_TEMPLATES_DIR"))
	if err != nil {
		log.Warn("failed to load filter templates, continuing without them", map[string]interface{}{"error": err.Error()})
		templates = nil
	}

	cfg := search.Config{
		Query:          query,
		Limit:          10,
		CollectionSlug: os.Getenv("COLLECTION_SLUG"),
		Embedding:      &operators.Embedding{Embedder: embedder},
		VectorSearch:   &operators.VectorSearch{Store: store},
		QdrantFilter:   &operators.QdrantFilter{Templates: templates},
		Recency:        &operators.Recency{},
	}
	if aiClient != nil {
		cfg.QueryExpansion = &operators.QueryExpansion{Client: aiClient}
		cfg.QueryInterpretation = &operators.QueryInterpretation{Client: aiClient}
		cfg.Reranking = &operators.Reranking{Client: aiClient}
		cfg.Completion = &operators.Completion{Client: aiClient}
	}

	executor := search.NewExecutor(publisher, sink, log)

	autoOTEL, err := telemetry.NewAutoOTEL("search-pipeline-executor")
	if err != nil {
		log.Warn("failed to initialize telemetry, continuing unobserved", map[string]interface{}{"error": err.Error()})
	} else {
		executor.WithTelemetry(autoOTEL)
		defer autoOTEL.Shutdown(context.Background())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	requestID := search.NewRequestID()
	ec, err := executor.Execute(ctx, cfg, nil, search.RequestContext{
		Logger:           log,
		OrganizationID:   os.Getenv("ORGANIZATION_ID"),
		OrganizationName: os.Getenv("ORGANIZATION_NAME"),
	}, requestID)

	metricFields := make(map[string]interface{})
	for name, value := range executor.Metrics() {
		metricFields[name] = value
	}
	log.Info("executor metrics", metricFields)

	if err != nil {
		log.Error("search execution failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	output, _ := json.MarshalIndent(ec.Products.FinalResults, "", "  ")
	fmt.Println(string(output))
}

func newPublisher(log logger.Logger) pubsub.Publisher {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		log.Info("no REDIS_URL set, streaming events will be discarded", map[string]interface{}{})
		return pubsub.NoopPublisher{}
	}

	p, err := pubsub.NewRedisPublisher(redisURL, log)
	if err != nil {
		log.Warn("failed to connect to redis, falling back to no-op publisher", map[string]interface{}{
			"error": err.Error(),
		})
		return pubsub.NoopPublisher{}
	}
	return p
}

func newStore(log logger.Logger) (vectorstore.Store, error) {
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Warn("no POSTGRES_DSN set, vector search will fail at runtime", map[string]interface{}{})
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return vectorstore.NewPGVectorStore(ctx, dsn)
}
