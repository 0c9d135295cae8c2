package operators

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gomind-search/pipeline/pkg/ai"
	"github.com/gomind-search/pipeline/pkg/search"
	"github.com/gomind-search/pipeline/pkg/vectorstore"
)

type mockAIClient struct {
	mock.Mock
}

func (m *mockAIClient) GenerateResponse(ctx context.Context, prompt string, options *ai.GenerationOptions) (*ai.AIResponse, error) {
	args := m.Called(ctx, prompt, options)
	if resp := args.Get(0); resp != nil {
		return resp.(*ai.AIResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Search(ctx context.Context, collectionSlug string, vector []float32, params vectorstore.SearchParams) ([]vectorstore.Match, error) {
	args := m.Called(ctx, collectionSlug, vector, params)
	if matches := args.Get(0); matches != nil {
		return matches.([]vectorstore.Match), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) Close() {}

func TestQueryExpansion(t *testing.T) {
	client := new(mockAIClient)
	client.On("GenerateResponse", mock.Anything, mock.Anything, mock.Anything).
		Return(&ai.AIResponse{Content: "alt one\nalt two\n"}, nil)

	op := &QueryExpansion{Client: client}
	ec := &search.ExecutionContext{Query: "original query"}

	err := op.Execute(context.Background(), ec)
	require.NoError(t, err)
	assert.Equal(t, []string{"alt one", "alt two"}, ec.Products.ExpandedQueries)
}

func TestQueryExpansion_NoClient(t *testing.T) {
	op := &QueryExpansion{}
	ec := &search.ExecutionContext{Query: "q"}
	err := op.Execute(context.Background(), ec)
	assert.Error(t, err)
}

func TestQdrantFilter(t *testing.T) {
	op := &QdrantFilter{}
	ec := &search.ExecutionContext{Config: search.Config{CollectionSlug: "docs"}}

	err := op.Execute(context.Background(), ec)
	require.NoError(t, err)
	assert.Equal(t, "docs", ec.Products.Filter["collection_slug"])
}

func TestEmbedding(t *testing.T) {
	embedder := &fakeEmbedder{dims: 3}
	op := &Embedding{Embedder: embedder}
	ec := &search.ExecutionContext{Query: "q"}

	err := op.Execute(context.Background(), ec)
	require.NoError(t, err)
	assert.Len(t, ec.Products.Embeddings, 1)
	assert.Len(t, ec.Products.Embeddings[0], 3)
}

func TestVectorSearch(t *testing.T) {
	store := new(mockStore)
	store.On("Search", mock.Anything, "docs", mock.Anything, vectorstore.SearchParams{Limit: 10}).
		Return([]vectorstore.Match{{ID: "1", Content: "hello", Score: 0.9}}, nil)

	op := &VectorSearch{Store: store}
	ec := &search.ExecutionContext{
		Config:   search.Config{CollectionSlug: "docs", Limit: 10},
		Products: search.Products{Embeddings: [][]float32{{0.1, 0.2}}},
	}

	err := op.Execute(context.Background(), ec)
	require.NoError(t, err)
	require.Len(t, ec.Products.RawResults, 1)
	assert.Equal(t, "1", ec.Products.RawResults[0]["id"])
}

func TestVectorSearch_PassesOffsetAndScoreThreshold(t *testing.T) {
	store := new(mockStore)
	threshold := 0.5
	store.On("Search", mock.Anything, "docs", mock.Anything, vectorstore.SearchParams{
		Limit:          10,
		Offset:         20,
		ScoreThreshold: &threshold,
	}).Return([]vectorstore.Match{}, nil)

	op := &VectorSearch{Store: store}
	ec := &search.ExecutionContext{
		Config:   search.Config{CollectionSlug: "docs", Limit: 10, Offset: 20, ScoreThreshold: &threshold},
		Products: search.Products{Embeddings: [][]float32{{0.1, 0.2}}},
	}

	err := op.Execute(context.Background(), ec)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestVectorSearch_NoEmbeddings(t *testing.T) {
	op := &VectorSearch{Store: new(mockStore)}
	ec := &search.ExecutionContext{}
	err := op.Execute(context.Background(), ec)
	assert.Error(t, err)
}

func TestRecency_DecaysOlderResults(t *testing.T) {
	op := &Recency{HalfLife: 24 * time.Hour}
	old := time.Now().Add(-48 * time.Hour).Format(time.RFC3339)
	ec := &search.ExecutionContext{
		Products: search.Products{
			RawResults: []search.Result{
				{"id": "1", "score": 1.0, "updated_at": old},
			},
		},
	}

	err := op.Execute(context.Background(), ec)
	require.NoError(t, err)
	assert.Less(t, ec.Products.RawResults[0]["score"].(float64), 1.0)
}

func TestReranking(t *testing.T) {
	client := new(mockAIClient)
	client.On("GenerateResponse", mock.Anything, mock.Anything, mock.Anything).
		Return(&ai.AIResponse{Content: "1,0"}, nil)

	op := &Reranking{Client: client}
	ec := &search.ExecutionContext{
		Query: "q",
		Products: search.Products{
			RawResults: []search.Result{
				{"id": "a", "content": "first"},
				{"id": "b", "content": "second"},
			},
		},
	}

	err := op.Execute(context.Background(), ec)
	require.NoError(t, err)
	require.Len(t, ec.Products.FinalResults, 2)
	assert.Equal(t, "b", ec.Products.FinalResults[0]["id"])
	assert.Equal(t, "a", ec.Products.FinalResults[1]["id"])
}

func TestCompletion(t *testing.T) {
	client := new(mockAIClient)
	client.On("GenerateResponse", mock.Anything, mock.Anything, mock.Anything).
		Return(&ai.AIResponse{Content: "the answer"}, nil)

	op := &Completion{Client: client}
	ec := &search.ExecutionContext{
		Query: "q",
		Products: search.Products{
			FinalResults: []search.Result{{"content": "fact one"}},
		},
	}

	err := op.Execute(context.Background(), ec)
	require.NoError(t, err)
	assert.Equal(t, "the answer", ec.Products.Completion)
}

func TestCompletion_PropagatesClientError(t *testing.T) {
	client := new(mockAIClient)
	client.On("GenerateResponse", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("rate limited"))

	op := &Completion{Client: client}
	ec := &search.ExecutionContext{Products: search.Products{FinalResults: []search.Result{}}}

	err := op.Execute(context.Background(), ec)
	assert.Error(t, err)
}

type fakeEmbedder struct {
	dims int
}

func (f *fakeEmbedder) Dimensions() int { return f.dims }

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := f.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, f.dims)
	}
	return out, nil
}
