package vector

import (
	"context"
	"fmt"
)

// Encoder pairs an Embedder with one normalization policy. Documents and
// queries must pass through the same Encoder, otherwise their distances
// are not comparable.
type Encoder struct {
	embedder  Embedder
	normalize bool
}

func NewEncoder(embedder Embedder, normalize bool) Encoder {
	return Encoder{
		embedder:  embedder,
		normalize: normalize,
	}
}

func (e Encoder) Normalized() bool {
	return e.normalize
}

func (e Encoder) Dimension() int {
	if e.embedder == nil {
		return 0
	}

	return e.embedder.Dimension()
}

// EncodeBatch embeds texts in a single call and checks that every vector
// has the embedder's dimension.
func (e Encoder) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if e.embedder == nil {
		return nil, ErrEmbedderNotSet
	}

	vectors, err := e.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}

	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrBatchSizeMismatch, len(texts), len(vectors))
	}

	dim := e.embedder.Dimension()
	if dim <= 0 && len(vectors) > 0 {
		dim = len(vectors[0])
	}

	out := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: want %d, got %d at %d", ErrDimensionMismatch, dim, len(v), i)
		}

		if e.normalize {
			v = Normalize(v)
		}

		out[i] = v
	}

	return out, nil
}

func (e Encoder) Encode(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EncodeBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	return vectors[0], nil
}
