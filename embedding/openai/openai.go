package openai

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/flarexio/ragblade/embedding"
	"github.com/flarexio/ragblade/vector"
)

const (
	DefaultModel     = "text-embedding-3-small"
	DefaultDimension = 384
)

var ErrMissingAPIKey = errors.New("openai api key is required")

// NewOpenAIEmbedder embeds texts through the OpenAI embeddings API. The
// requested dimension is sent with every call so all vectors share it.
func NewOpenAIEmbedder(cfg embedding.Config) (vector.Embedder, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	dim := cfg.Dimension
	if dim <= 0 {
		dim = DefaultDimension
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}

	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := openai.NewClient(opts...)

	return &openAIEmbedder{
		client: &client,
		model:  model,
		dim:    dim,
	}, nil
}

type openAIEmbedder struct {
	client *openai.Client
	model  string
	dim    int
}

func (e *openAIEmbedder) Dimension() int {
	return e.dim
}

func (e *openAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
		Model:      openai.EmbeddingModel(e.model),
		Dimensions: openai.Int(int64(e.dim)),
	}

	resp, err := e.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}

	data := slices.Clone(resp.Data)
	slices.SortFunc(data, func(a, b openai.Embedding) int {
		return int(a.Index - b.Index)
	})

	vectors := make([][]float32, len(data))
	for i, d := range data {
		v := make([]float32, len(d.Embedding))
		for j, x := range d.Embedding {
			v[j] = float32(x)
		}

		vectors[i] = v
	}

	return vectors, nil
}
