package ai

import (
	"context"
)

// AIClient generates text completions for the search pipeline's LLM-backed
// operators (query expansion, query interpretation, reranking, completion).
// None of those operators stream a response or need provider metadata, so
// the contract is just the one blocking call they all make.
type AIClient interface {
	GenerateResponse(ctx context.Context, prompt string, options *GenerationOptions) (*AIResponse, error)
}

// GenerationOptions configures AI generation parameters
type GenerationOptions struct {
	Model          string            `json:"model,omitempty"`
	Temperature    float64           `json:"temperature,omitempty"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
	SystemPrompt   string            `json:"system_prompt,omitempty"`
	ConversationID string            `json:"conversation_id,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// AIResponse represents a complete AI model response
type AIResponse struct {
	Content      string            `json:"content"`
	Model        string            `json:"model"`
	Usage        TokenUsage        `json:"usage"`
	FinishReason string            `json:"finish_reason"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// TokenUsage tracks API usage
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
