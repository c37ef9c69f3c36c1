package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/flarexio/ragblade/generation"
)

const DefaultModel = "gpt-3.5-turbo"

var (
	ErrMissingAPIKey = errors.New("openai api key is required")
	ErrNoChoices     = errors.New("no completion choices returned")
)

func NewOpenAIGenerator(cfg generation.Config) (generation.Generator, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}

	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := openai.NewClient(opts...)

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &openAIGenerator{
		client: &client,
		model:  model,
		cfg:    cfg,
	}, nil
}

type openAIGenerator struct {
	client *openai.Client
	model  string
	cfg    generation.Config
}

func (g *openAIGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.TimeoutOrDefault())
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(generation.DefaultSystemPrompt),
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(int64(g.cfg.MaxTokensOrDefault())),
		Temperature: openai.Float(g.cfg.TemperatureOrDefault()),
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
