package vectorstore

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// filterKeyPattern restricts metadata filter keys to safe identifier
// characters. Filter keys can originate from LLM-extracted query
// interpretation or YAML filter templates, neither of which is guaranteed
// free of quote or comment characters, so they are never interpolated into
// the query string unchecked.
var filterKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// PGVectorStore implements Store against a Postgres table with a pgvector
// `embedding` column, indexed per collection via `collection_slug`.
//
// Schema assumption (documented, not enforced by this package):
//
//	CREATE TABLE documents (
//	    id text PRIMARY KEY,
//	    collection_slug text NOT NULL,
//	    content text NOT NULL,
//	    metadata jsonb,
//	    updated_at timestamptz,
//	    embedding vector NOT NULL
//	);
type PGVectorStore struct {
	pool *pgxpool.Pool
}

// NewPGVectorStore connects to Postgres using the given DSN.
func NewPGVectorStore(ctx context.Context, dsn string) (*PGVectorStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgvector connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}
	return &PGVectorStore{pool: pool}, nil
}

// Search runs a cosine-distance nearest-neighbor query, optionally
// constrained by equality filters on the metadata jsonb column, a minimum
// similarity score, and a limit/offset page window.
func (s *PGVectorStore) Search(ctx context.Context, collectionSlug string, vector []float32, params SearchParams) ([]Match, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}

	literal := vectorLiteral(vector)

	var conditions []string
	args := []interface{}{literal, collectionSlug}
	conditions = append(conditions, "collection_slug = $2")

	argIdx := 3
	for key, value := range params.Filter {
		if !filterKeyPattern.MatchString(key) {
			return nil, fmt.Errorf("vector search: invalid filter key %q", key)
		}
		conditions = append(conditions, fmt.Sprintf("metadata ->> '%s' = $%d", key, argIdx))
		args = append(args, fmt.Sprintf("%v", value))
		argIdx++
	}

	if params.ScoreThreshold != nil {
		conditions = append(conditions, fmt.Sprintf("1 - (embedding <=> $1::vector) >= $%d", argIdx))
		args = append(args, *params.ScoreThreshold)
		argIdx++
	}

	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
		SELECT id, content, metadata, updated_at, 1 - (embedding <=> $1::vector) AS score
		FROM documents
		WHERE %s
		ORDER BY embedding <=> $1::vector
		LIMIT %d OFFSET %d`,
		strings.Join(conditions, " AND "), limit, offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("vector search query failed: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		var metadata map[string]interface{}
		var updatedAt *time.Time
		if err := rows.Scan(&m.ID, &m.Content, &metadata, &updatedAt, &m.Score); err != nil {
			return nil, fmt.Errorf("failed to scan vector search row: %w", err)
		}
		m.Metadata = metadata
		if updatedAt != nil {
			m.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vector search row iteration failed: %w", err)
	}

	return matches, nil
}

// Close releases the underlying connection pool.
func (s *PGVectorStore) Close() {
	s.pool.Close()
}

// vectorLiteral formats a float32 slice as a pgvector input literal, e.g.
// "[0.1,0.2,0.3]".
func vectorLiteral(vector []float32) string {
	parts := make([]string, len(vector))
	for i, v := range vector {
		parts[i] = strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
