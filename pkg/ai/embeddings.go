package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Embedder turns text into a dense vector for similarity search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

// OpenAIEmbedder implements Embedder against OpenAI's embeddings endpoint.
type OpenAIEmbedder struct {
	apiKey     string
	baseURL    string
	model      string
	dimensions int
	httpClient *http.Client
}

// NewOpenAIEmbedder creates a new OpenAI embedding client. dimensions should
// match the chosen model's native output size (1536 for text-embedding-3-small).
func NewOpenAIEmbedder(apiKey, model string, dimensions int) *OpenAIEmbedder {
	if model == "" {
		model = "text-embedding-3-small"
	}
	if dimensions == 0 {
		dimensions = 1536
	}
	return &OpenAIEmbedder{
		apiKey:     apiKey,
		baseURL:    "https://api.openai.com/v1",
		model:      model,
		dimensions: dimensions,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embeddings API returned no vectors")
	}
	return vectors[0], nil
}

func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	payload := map[string]interface{}{
		"model": e.model,
		"input": texts,
	}

	response, err := e.makeRequest(ctx, "/embeddings", payload)
	if err != nil {
		return nil, fmt.Errorf("OpenAI embeddings request failed: %w", err)
	}

	data, ok := response["data"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid embeddings response: missing data")
	}

	vectors := make([][]float32, len(data))
	for i, item := range data {
		entry, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid embeddings response: malformed entry at index %d", i)
		}
		raw, ok := entry["embedding"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid embeddings response: missing embedding at index %d", i)
		}
		vec := make([]float32, len(raw))
		for j, v := range raw {
			f, ok := v.(float64)
			if !ok {
				return nil, fmt.Errorf("invalid embeddings response: non-numeric component at %d/%d", i, j)
			}
			vec[j] = float32(f)
		}
		vectors[i] = vec
	}

	return vectors, nil
}

func (e *OpenAIEmbedder) makeRequest(ctx context.Context, endpoint string, payload map[string]interface{}) (map[string]interface{}, error) {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL+endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return response, nil
}
