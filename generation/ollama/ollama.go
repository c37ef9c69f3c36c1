package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/flarexio/ragblade/generation"
)

const DefaultModel = "llama3.2"

func NewOllamaGenerator(cfg generation.Config) (generation.Generator, error) {
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

	return &ollamaGenerator{
		client: client,
		model:  model,
		cfg:    cfg,
	}, nil
}

type ollamaGenerator struct {
	client *api.Client
	model  string
	cfg    generation.Config
}

func (g *ollamaGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.TimeoutOrDefault())
	defer cancel()

	stream := false
	req := &api.GenerateRequest{
		Model:  g.model,
		Prompt: prompt,
		System: generation.DefaultSystemPrompt,
		Stream: &stream,
		Options: map[string]any{
			"num_predict": g.cfg.MaxTokensOrDefault(),
			"temperature": g.cfg.TemperatureOrDefault(),
		},
	}

	var answer strings.Builder
	err := g.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		answer.WriteString(resp.Response)
		return nil
	})

	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}

	return strings.TrimSpace(answer.String()), nil
}
