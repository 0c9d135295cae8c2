// Package ai provides client implementations for the Large Language Models
// and embedding providers the search pipeline's operators call out to.
//
// Its two interfaces are scoped to exactly what the operators in
// pkg/search/operators use: one blocking completion call, and one call
// that turns text into a vector. Neither streams or reports provider
// capabilities, since no operator needs either.
//
// # Supported Providers
//
// Currently supported AI providers:
//   - OpenAI (chat completions and text-embedding models)
//   - Future: Anthropic Claude, Google Gemini, local models via Ollama
//
// # Core Interfaces
//
// AIClient defines the contract for generation providers:
//
//	type AIClient interface {
//	    GenerateResponse(ctx context.Context, prompt string, options *GenerationOptions) (*AIResponse, error)
//	}
//
// Embedder defines the contract for embedding providers:
//
//	type Embedder interface {
//	    Embed(ctx context.Context, text string) ([]float32, error)
//	    EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
//	    Dimensions() int
//	}
//
// # Usage Example
//
// Creating and using an OpenAI client:
//
//	client := ai.NewOpenAIClient("your-api-key", "", logger)
//
//	response, err := client.GenerateResponse(ctx, "Explain quantum computing", &ai.GenerationOptions{
//	    Temperature: 0.7,
//	    MaxTokens:   1000,
//	})
//
// Embedding text for a vector search query:
//
//	embedder := ai.NewOpenAIEmbedder("your-api-key", "", 0)
//	vector, err := embedder.Embed(ctx, query)
//
// # Retries
//
// GenerateResponse retries transient failures (429, 5xx, transport errors)
// with exponential backoff, up to 3 attempts; a non-retryable status (bad
// API key, malformed request) returns immediately.
//
// # Configuration
//
// This package reads no environment variables; clients are configured
// through their constructors. cmd/searchd reads these and passes them in:
//   - OPENAI_API_KEY: API key for OpenAI
//   - DEFAULT_AI_MODEL: Default chat model to use when GenerationOptions.Model
//     is empty (defaults to "gpt-4o-mini" if unset)
package ai
