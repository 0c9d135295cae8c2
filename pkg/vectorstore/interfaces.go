// Package vectorstore performs similarity search over embedded documents
// held in a pgvector-enabled Postgres database.
package vectorstore

import "context"

// Filter narrows a similarity search to documents matching metadata
// equality constraints, e.g. {"collection_id": "..."}.
type Filter map[string]interface{}

// Match is a single similarity search result.
type Match struct {
	ID        string                 `json:"id"`
	Content   string                 `json:"content"`
	Score     float64                `json:"score"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	UpdatedAt string                 `json:"updated_at,omitempty"`
}

// SearchParams bounds and filters one nearest-neighbor query: the metadata
// filter, the page window, and an optional lower bound on similarity score.
type SearchParams struct {
	Filter         Filter
	Limit          int
	Offset         int
	ScoreThreshold *float64
}

// Store performs nearest-neighbor search over stored embeddings.
type Store interface {
	Search(ctx context.Context, collectionSlug string, vector []float32, params SearchParams) ([]Match, error)
	Close()
}
