package ragblade

import (
	"context"
	"errors"
	"fmt"

	"github.com/flarexio/ragblade/vector"
)

// Retrieve encodes query with the knowledge base's encoder and returns up
// to k matches, nearest first. There is no similarity cutoff: the best
// candidate is always returned. k below 1 means 1.
func Retrieve(ctx context.Context, kb *KnowledgeBase, query string, k int) ([]Match, error) {
	if kb == nil || kb.index == nil || kb.corpus.Len() == 0 || kb.index.Len() == 0 {
		return nil, ErrIndexNotBuilt
	}

	if kb.index.Len() != kb.corpus.Len() {
		return nil, ErrIndexSizeMismatch
	}

	if k < 1 {
		k = 1
	}

	q, err := kb.encoder.Encode(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}

	neighbors, err := kb.index.Nearest(ctx, q, k)
	if err != nil {
		if errors.Is(err, vector.ErrEmptyIndex) {
			return nil, ErrIndexNotBuilt
		}

		return nil, err
	}

	if len(neighbors) == 0 {
		return nil, ErrIndexNotBuilt
	}

	matches := make([]Match, len(neighbors))
	for i, n := range neighbors {
		doc, ok := kb.corpus.At(n.Position)
		if !ok {
			return nil, fmt.Errorf("%w: position %d", ErrIndexSizeMismatch, n.Position)
		}

		matches[i] = Match{
			Position: n.Position,
			Document: doc,
			Score:    n.Score,
		}
	}

	return matches, nil
}
