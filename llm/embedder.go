package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/ollama/ollama/api"
)

const embedTimeout = 60 * time.Second

// Embedder turns text into a fixed-length vector. A failed or timed-out call
// surfaces as an error; callers map it to their EmbeddingUnavailable class.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	DetectDimension(ctx context.Context) (int, error)
}

type OllamaEmbedder struct {
	client *api.Client
	model  string
}

func NewOllamaEmbedder(client *api.Client, model string) *OllamaEmbedder {
	return &OllamaEmbedder{
		client: client,
		model:  model,
	}
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, embedTimeout)
	defer cancel()

	resp, err := e.client.Embed(ctx, &api.EmbedRequest{
		Model: e.model,
		Input: text,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("ollama returned no embeddings for model %s", e.model)
	}

	return resp.Embeddings[0], nil
}

// DetectDimension probes the model with a sentinel string; the resulting
// vector length sizes the knowledge-base vector indexes.
func (e *OllamaEmbedder) DetectDimension(ctx context.Context) (int, error) {
	vec, err := e.Embed(ctx, "dimension probe")
	if err != nil {
		return 0, err
	}
	return len(vec), nil
}
