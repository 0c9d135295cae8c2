package operators

import (
	"context"
	"fmt"

	"github.com/gomind-search/pipeline/pkg/ai"
	"github.com/gomind-search/pipeline/pkg/search"
)

// Embedding turns the query (and any expanded variants) into dense vectors
// for similarity search. It is one of the two required operators.
type Embedding struct {
	Embedder ai.Embedder
}

func (o *Embedding) Name() string        { return "embedding" }
func (o *Embedding) DependsOn() []string { return []string{"query_expansion"} }

func (o *Embedding) Execute(ctx context.Context, ec *search.ExecutionContext) error {
	if o.Embedder == nil {
		return fmt.Errorf("embedding: no embedder configured")
	}

	texts := []string{ec.Query}
	texts = append(texts, ec.Products.ExpandedQueries...)

	vectors, err := o.Embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding: %w", err)
	}

	ec.Products.Embeddings = vectors
	return nil
}
