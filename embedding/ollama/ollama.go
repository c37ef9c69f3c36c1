package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"

	"github.com/flarexio/ragblade/embedding"
	"github.com/flarexio/ragblade/vector"
)

const (
	DefaultModel     = "all-minilm"
	DefaultDimension = 384
)

// NewOllamaEmbedder embeds texts with a local Ollama server. An empty
// BaseURL falls back to OLLAMA_HOST.
func NewOllamaEmbedder(cfg embedding.Config) (vector.Embedder, error) {
	var (
		client *api.Client
		err    error
	)

	if cfg.BaseURL == "" {
		client, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, err
		}
	} else {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama url: %w", err)
		}

		client = api.NewClient(u, http.DefaultClient)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	dim := cfg.Dimension
	if dim <= 0 {
		dim = DefaultDimension
	}

	return &ollamaEmbedder{
		client: client,
		model:  model,
		dim:    dim,
	}, nil
}

type ollamaEmbedder struct {
	client *api.Client
	model  string
	dim    int
}

func (e *ollamaEmbedder) Dimension() int {
	return e.dim
}

func (e *ollamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	req := &api.EmbedRequest{
		Model: e.model,
		Input: texts,
	}

	resp, err := e.client.Embed(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("ollama embeddings: %w", err)
	}

	return resp.Embeddings, nil
}
