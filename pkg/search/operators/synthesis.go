package operators

import (
	"context"
	"fmt"
	"strings"

	"github.com/gomind-search/pipeline/pkg/ai"
	"github.com/gomind-search/pipeline/pkg/search"
)

// Reranking asks an LLM to score each retrieved result's relevance to the
// original query and reorders RawResults into FinalResults accordingly.
type Reranking struct {
	Client ai.AIClient
}

func (o *Reranking) Name() string        { return "reranking" }
func (o *Reranking) DependsOn() []string { return []string{"vector_search", "recency"} }

func (o *Reranking) Execute(ctx context.Context, ec *search.ExecutionContext) error {
	if o.Client == nil {
		return fmt.Errorf("reranking: no AI client configured")
	}
	if len(ec.Products.RawResults) == 0 {
		ec.Products.FinalResults = []search.Result{}
		return nil
	}

	prompt := o.buildPrompt(ec.Query, ec.Products.RawResults)
	resp, err := o.Client.GenerateResponse(ctx, prompt, &ai.GenerationOptions{
		Temperature:  0.0,
		MaxTokens:    200,
		SystemPrompt: "You rank search results by relevance. Respond with a comma-separated list of result indexes, most relevant first.",
	})
	if err != nil {
		return fmt.Errorf("reranking: %w", err)
	}

	order := parseIndexOrder(resp.Content, len(ec.Products.RawResults))

	reordered := make([]search.Result, 0, len(ec.Products.RawResults))
	for _, idx := range order {
		reordered = append(reordered, ec.Products.RawResults[idx])
	}
	ec.Products.FinalResults = reordered
	return nil
}

func (o *Reranking) buildPrompt(query string, results []search.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n\nResults:\n", query)
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %v\n", i, r["content"])
	}
	return b.String()
}

// parseIndexOrder turns a comma-separated list of indexes into a valid
// permutation of [0, n), falling back to identity order for anything it
// can't parse confidently.
func parseIndexOrder(text string, n int) []int {
	seen := make(map[int]bool, n)
	var order []int

	for _, tok := range strings.Split(text, ",") {
		tok = strings.TrimSpace(tok)
		var idx int
		if _, err := fmt.Sscanf(tok, "%d", &idx); err != nil {
			continue
		}
		if idx < 0 || idx >= n || seen[idx] {
			continue
		}
		seen[idx] = true
		order = append(order, idx)
	}

	for i := 0; i < n; i++ {
		if !seen[i] {
			order = append(order, i)
		}
	}
	return order
}

// Completion produces a natural-language answer over the final results.
type Completion struct {
	Client ai.AIClient
}

func (o *Completion) Name() string        { return "completion" }
func (o *Completion) DependsOn() []string { return []string{"reranking"} }

func (o *Completion) Execute(ctx context.Context, ec *search.ExecutionContext) error {
	if o.Client == nil {
		return fmt.Errorf("completion: no AI client configured")
	}

	results := ec.Products.FinalResults
	if results == nil {
		results = ec.Products.RawResults
	}

	var context strings.Builder
	for _, r := range results {
		fmt.Fprintf(&context, "- %v\n", r["content"])
	}

	prompt := fmt.Sprintf("Answer the question using only the context below.\n\nQuestion: %s\n\nContext:\n%s", ec.Query, context.String())

	resp, err := o.Client.GenerateResponse(ctx, prompt, &ai.GenerationOptions{
		Temperature:  0.3,
		MaxTokens:    1000,
		SystemPrompt: "You are a helpful assistant that answers questions using only the supplied search results.",
	})
	if err != nil {
		return fmt.Errorf("completion: %w", err)
	}

	ec.Products.Completion = resp.Content
	return nil
}
