package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gomind-search/pipeline/pkg/logger"
)

// statusError carries an OpenAI HTTP status code so makeRequestWithRetry
// can tell a transient failure (5xx, 429) from one retrying won't fix
// (bad API key, malformed request).
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("API returned status %d", e.code)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

// OpenAIClient implements AIClient against OpenAI's chat completions API.
//
// The search operators all run short, latency-sensitive prompts (query
// rewriting, intent extraction, reranking, completion) rather than
// open-ended conversation, so defaultModel is tuned for that: callers that
// don't override GenerationOptions.Model get a cheaper, faster model
// instead of the general-purpose default a chat product would pick.
type OpenAIClient struct {
	apiKey       string
	baseURL      string
	defaultModel string
	httpClient   *http.Client
	logger       logger.Logger

	maxRetries  int
	backoffUnit time.Duration
}

// NewOpenAIClient creates an OpenAI client. defaultModel is used for any
// call whose GenerationOptions.Model is empty; it defaults to
// "gpt-4o-mini" if left blank.
func NewOpenAIClient(apiKey, defaultModel string, log logger.Logger) *OpenAIClient {
	if defaultModel == "" {
		defaultModel = "gpt-4o-mini"
	}
	if log == nil {
		log = logger.NewDefaultLogger()
	}
	return &OpenAIClient{
		apiKey:       apiKey,
		baseURL:      "https://api.openai.com/v1",
		defaultModel: defaultModel,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger:      log,
		maxRetries:  3,
		backoffUnit: time.Second,
	}
}

func (c *OpenAIClient) GenerateResponse(ctx context.Context, prompt string, options *GenerationOptions) (*AIResponse, error) {
	if options == nil {
		options = &GenerationOptions{Temperature: 0.7, MaxTokens: 1000}
	}
	model := options.Model
	if model == "" {
		model = c.defaultModel
	}

	messages := []map[string]string{
		{"role": "user", "content": prompt},
	}

	if options.SystemPrompt != "" {
		messages = append([]map[string]string{
			{"role": "system", "content": options.SystemPrompt},
		}, messages...)
	}

	payload := map[string]interface{}{
		"model":       model,
		"messages":    messages,
		"temperature": options.Temperature,
		"max_tokens":  options.MaxTokens,
	}

	response, err := c.makeRequestWithRetry(ctx, "/chat/completions", payload)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API request failed: %w", err)
	}

	choices, ok := response["choices"].([]interface{})
	if !ok || len(choices) == 0 {
		return nil, fmt.Errorf("invalid response structure: no choices")
	}

	choice := choices[0].(map[string]interface{})
	message := choice["message"].(map[string]interface{})
	usage := response["usage"].(map[string]interface{})

	aiResponse := &AIResponse{
		Model:   model,
		Content: message["content"].(string),
		Usage: TokenUsage{
			PromptTokens:     int(usage["prompt_tokens"].(float64)),
			CompletionTokens: int(usage["completion_tokens"].(float64)),
			TotalTokens:      int(usage["total_tokens"].(float64)),
		},
		FinishReason: choice["finish_reason"].(string),
	}

	return aiResponse, nil
}

// makeRequestWithRetry retries transient failures (429 or 5xx status,
// transport or decode error) with exponential backoff, the same shape as
// RedisPublisher.connectWithRetry: operator execution is on the request's
// critical path, so a single dropped connection to OpenAI shouldn't fail
// the whole search. Any other status is returned at once without a retry.
func (c *OpenAIClient) makeRequestWithRetry(ctx context.Context, endpoint string, payload map[string]interface{}) (map[string]interface{}, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		response, err := c.makeRequest(ctx, endpoint, payload)
		if err == nil {
			return response, nil
		}
		lastErr = err

		var statusErr *statusError
		if errors.As(err, &statusErr) && !statusErr.retryable() {
			return nil, err
		}

		c.logger.Warn("openai request failed, retrying", map[string]interface{}{
			"endpoint": endpoint,
			"attempt":  attempt + 1,
			"error":    err.Error(),
		})

		if attempt < c.maxRetries-1 {
			backoff := time.Duration(math.Pow(2, float64(attempt+1))) * c.backoffUnit
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return nil, fmt.Errorf("exceeded %d retries: %w", c.maxRetries, lastErr)
}

func (c *OpenAIClient) makeRequest(ctx context.Context, endpoint string, payload map[string]interface{}) (map[string]interface{}, error) {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}

	var response map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return response, nil
}
