package operators

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gomind-search/pipeline/pkg/search"
	"github.com/gomind-search/pipeline/pkg/vectorstore"
)

// VectorSearch runs a nearest-neighbor query over the configured store
// using the embedding produced upstream. It is the second of the two
// required operators.
type VectorSearch struct {
	Store vectorstore.Store
}

func (o *VectorSearch) Name() string        { return "vector_search" }
func (o *VectorSearch) DependsOn() []string { return []string{"embedding", "qdrant_filter"} }

func (o *VectorSearch) Execute(ctx context.Context, ec *search.ExecutionContext) error {
	if o.Store == nil {
		return fmt.Errorf("vector_search: no vector store configured")
	}
	if len(ec.Products.Embeddings) == 0 {
		return fmt.Errorf("vector_search: no embeddings available")
	}

	var filter vectorstore.Filter
	if ec.Products.Filter != nil {
		filter = vectorstore.Filter(ec.Products.Filter)
	}

	limit := ec.Config.Limit
	if limit <= 0 {
		limit = 10
	}

	params := vectorstore.SearchParams{
		Filter:         filter,
		Limit:          limit,
		Offset:         ec.Config.Offset,
		ScoreThreshold: ec.Config.ScoreThreshold,
	}

	matches, err := o.Store.Search(ctx, ec.Config.CollectionSlug, ec.Products.Embeddings[0], params)
	if err != nil {
		return fmt.Errorf("vector_search: %w", err)
	}

	results := make([]search.Result, 0, len(matches))
	for _, m := range matches {
		r := search.Result{
			"id":         m.ID,
			"content":    m.Content,
			"score":      m.Score,
			"updated_at": m.UpdatedAt,
		}
		for k, v := range m.Metadata {
			r[k] = v
		}
		results = append(results, r)
	}

	ec.Products.RawResults = results
	return nil
}

// Recency rescales each result's score by how recently it was updated,
// favoring fresher content among otherwise similar matches.
type Recency struct {
	HalfLife time.Duration
}

func (o *Recency) Name() string        { return "recency" }
func (o *Recency) DependsOn() []string { return []string{"vector_search"} }

func (o *Recency) Execute(ctx context.Context, ec *search.ExecutionContext) error {
	halfLife := o.HalfLife
	if halfLife <= 0 {
		halfLife = 30 * 24 * time.Hour
	}

	now := time.Now()
	for _, r := range ec.Products.RawResults {
		updatedAt, ok := r["updated_at"].(string)
		if !ok || updatedAt == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, updatedAt)
		if err != nil {
			continue
		}

		score, ok := r["score"].(float64)
		if !ok {
			continue
		}

		age := now.Sub(ts)
		decay := 1.0
		if age > 0 {
			halvings := float64(age) / float64(halfLife)
			decay = math.Exp2(-halvings)
		}
		r["score"] = score * decay
	}
	return nil
}
