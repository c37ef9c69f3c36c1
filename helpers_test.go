package ragblade

import (
	"context"
	"errors"
	"sync"

	"github.com/flarexio/ragblade/embedding/hashing"
	"github.com/flarexio/ragblade/persistence/flat"
	"github.com/flarexio/ragblade/vector"
)

var errBoom = errors.New("boom")

func newTestEncoder() vector.Encoder {
	return vector.NewEncoder(hashing.NewHashingEmbedder(hashing.DefaultDimension), true)
}

func newTestKnowledgeBase(docs []string) (*KnowledgeBase, error) {
	return BuildKnowledgeBase(context.Background(), docs, newTestEncoder(), flat.NewFlatIndex())
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errBoom
}

func (failingEmbedder) Dimension() int {
	return 4
}

// shortEmbedder returns one vector fewer than asked for.
type shortEmbedder struct{}

func (shortEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return make([][]float32, len(texts)-1), nil
}

func (shortEmbedder) Dimension() int {
	return 4
}

type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	answer  string
	err     error
}

func (g *fakeGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.prompts = append(g.prompts, prompt)

	if g.err != nil {
		return "", g.err
	}

	return g.answer, nil
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.prompts)
}

// queryFailingEmbedder embeds the first batch and fails every later call,
// so a knowledge base builds but no query can be encoded.
type queryFailingEmbedder struct {
	vector.Embedder

	mu    sync.Mutex
	calls int
}

func (e *queryFailingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls++
	calls := e.calls
	e.mu.Unlock()

	if calls > 1 {
		return nil, errBoom
	}

	return e.Embedder.Embed(ctx, texts)
}
