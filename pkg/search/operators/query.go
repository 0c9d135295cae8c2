// Package operators provides a reference implementation of the eight
// concrete search pipeline stages: query expansion, query interpretation,
// filter synthesis, embedding, vector retrieval, recency rescoring,
// reranking, and completion. The executor in pkg/search has no dependency
// on this package — it only requires the three-method search.Operator
// capability set — so these are exercised as one concrete wiring of the
// domain stack, not part of the executor's contract.
package operators

import (
	"context"
	"fmt"
	"strings"

	"github.com/gomind-search/pipeline/pkg/ai"
	"github.com/gomind-search/pipeline/pkg/search"
)

// QueryExpansion asks an LLM for alternate phrasings of the user's query,
// so downstream embedding/retrieval can match more of the corpus's
// vocabulary than the literal input text.
type QueryExpansion struct {
	Client ai.AIClient
}

func (o *QueryExpansion) Name() string        { return "query_expansion" }
func (o *QueryExpansion) DependsOn() []string { return nil }

func (o *QueryExpansion) Execute(ctx context.Context, ec *search.ExecutionContext) error {
	if o.Client == nil {
		return fmt.Errorf("query_expansion: no AI client configured")
	}

	prompt := fmt.Sprintf("Provide 3 alternate phrasings of this search query, one per line, no numbering:\n\n%s", ec.Query)
	resp, err := o.Client.GenerateResponse(ctx, prompt, &ai.GenerationOptions{
		Temperature: 0.5,
		MaxTokens:   200,
		SystemPrompt: "You rewrite search queries to improve retrieval recall. Respond with only the rewritten queries.",
	})
	if err != nil {
		return fmt.Errorf("query_expansion: %w", err)
	}

	var expanded []string
	for _, line := range strings.Split(resp.Content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			expanded = append(expanded, line)
		}
	}

	ec.Products.ExpandedQueries = expanded
	return nil
}

// QueryInterpretation asks an LLM to extract structured intent/entities
// from the query (and any expansions), for the filter-synthesis stage to
// consume.
type QueryInterpretation struct {
	Client ai.AIClient
}

func (o *QueryInterpretation) Name() string        { return "query_interpretation" }
func (o *QueryInterpretation) DependsOn() []string { return []string{"query_expansion"} }

func (o *QueryInterpretation) Execute(ctx context.Context, ec *search.ExecutionContext) error {
	if o.Client == nil {
		return fmt.Errorf("query_interpretation: no AI client configured")
	}

	queries := append([]string{ec.Query}, ec.Products.ExpandedQueries...)
	prompt := fmt.Sprintf("Extract the intent and any named entities or constraints from these query variants:\n\n%s", strings.Join(queries, "\n"))

	resp, err := o.Client.GenerateResponse(ctx, prompt, &ai.GenerationOptions{
		Temperature:  0.0,
		MaxTokens:    300,
		SystemPrompt: "You extract structured search intent. Respond with a brief, plain-text summary of entities and constraints, one per line.",
	})
	if err != nil {
		return fmt.Errorf("query_interpretation: %w", err)
	}

	ec.Products.Interpretation = map[string]interface{}{
		"summary": resp.Content,
	}
	return nil
}

// QdrantFilter builds a structured metadata filter for the request's
// collection: the collection slug plus any matching template's fields. It
// does not read Products.Interpretation, so the query's interpreted
// entities and constraints do not reach the filter. Named to match the
// pipeline's config slot name;
// this implementation's backing retrieval store is Postgres + pgvector,
// not Qdrant — the operator produces a generic field/value filter that
// pkg/vectorstore.Filter consumes regardless of backend.
//
// Templates, when set, are static per-collection filter defaults loaded
// from YAML fixtures (see LoadFilterTemplates); a template whose
// CollectionSlug matches the request's collection has its Fields merged
// into the synthesized filter, with the request-derived fields winning
// on key collision.
type QdrantFilter struct {
	Templates map[string]FilterTemplate
}

func (o *QdrantFilter) Name() string        { return "qdrant_filter" }
func (o *QdrantFilter) DependsOn() []string { return []string{"query_interpretation", "query_expansion"} }

func (o *QdrantFilter) Execute(ctx context.Context, ec *search.ExecutionContext) error {
	filter := map[string]interface{}{}
	if tpl, ok := o.Templates[ec.Config.CollectionSlug]; ok {
		for k, v := range tpl.Fields {
			filter[k] = v
		}
	}
	if ec.Config.CollectionSlug != "" {
		filter["collection_slug"] = ec.Config.CollectionSlug
	}
	ec.Products.Filter = filter
	return nil
}
