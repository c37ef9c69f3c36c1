package ragblade

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/flarexio/ragblade/generation"
	"github.com/flarexio/ragblade/vector"
)

// Service defines the core logic of RAGBlade.
type Service interface {

	// Retrieve returns up to k passages nearest to the query, best first.
	Retrieve(ctx context.Context, query string, k ...int) ([]Match, error)

	// RetrieveAndGenerate answers the query grounded on the single best
	// passage. Retrieval and generation succeed or fail together.
	RetrieveAndGenerate(ctx context.Context, query string, k ...int) (*Response, error)
}

type ServiceMiddleware func(Service) Service

// NewService builds the knowledge base from the configured corpus and
// fails fast on any configuration or encoding error.
func NewService(ctx context.Context, cfg Config, encoder vector.Encoder, index vector.Index, generator generation.Generator) (Service, error) {
	log := zap.L().With(
		zap.String("service", "ragblade"),
	)

	if generator == nil {
		return nil, ErrGeneratorNotSet
	}

	docs := cfg.Corpus()

	kb, err := BuildKnowledgeBase(ctx, docs, encoder, index)
	if err != nil {
		return nil, err
	}

	log.Info("knowledge base built",
		zap.Int("documents", kb.Len()),
		zap.Int("dimension", encoder.Dimension()),
		zap.Bool("normalized", encoder.Normalized()),
	)

	return &service{
		kb:        kb,
		generator: generator,
		topK:      cfg.DefaultTopK(),
		log:       log,
	}, nil
}

type service struct {
	kb        *KnowledgeBase
	generator generation.Generator
	topK      int
	log       *zap.Logger
}

func (svc *service) k(k ...int) int {
	if len(k) > 0 && k[0] > 0 {
		return k[0]
	}

	return svc.topK
}

func (svc *service) Retrieve(ctx context.Context, query string, k ...int) ([]Match, error) {
	return Retrieve(ctx, svc.kb, query, svc.k(k...))
}

func (svc *service) RetrieveAndGenerate(ctx context.Context, query string, k ...int) (*Response, error) {
	matches, err := Retrieve(ctx, svc.kb, query, svc.k(k...))
	if err != nil {
		return nil, err
	}

	best := matches[0]

	svc.log.Debug("best match",
		zap.Int("position", best.Position),
		zap.Float64("score", best.Score),
		zap.String("document", string(best.Document)),
	)

	prompt := BuildPrompt(query, best.Document)

	answer, err := svc.generator.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	return &Response{
		RetrievedDocument: string(best.Document),
		Answer:            answer,
		Position:          best.Position,
		Score:             best.Score,
	}, nil
}
