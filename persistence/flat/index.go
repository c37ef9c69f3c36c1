package flat

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/flarexio/ragblade/vector"
)

// NewFlatIndex returns an exact brute-force index over squared L2 distance.
func NewFlatIndex() vector.Index {
	return &flatIndex{}
}

type flatIndex struct {
	data  []float32 // row-major, n*dim
	dim   int
	n     int
	built bool
}

func (idx *flatIndex) BulkInsert(ctx context.Context, vectors [][]float32) error {
	if idx.built {
		return vector.ErrIndexAlreadyBuilt
	}

	if len(vectors) == 0 {
		return vector.ErrNoVectors
	}

	dim := len(vectors[0])
	if dim == 0 {
		return fmt.Errorf("%w: zero-length vector", vector.ErrDimensionMismatch)
	}

	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("%w: want %d, got %d at %d", vector.ErrDimensionMismatch, dim, len(v), i)
		}
	}

	data := make([]float32, 0, len(vectors)*dim)
	for _, v := range vectors {
		data = append(data, v...)
	}

	idx.data = data
	idx.dim = dim
	idx.n = len(vectors)
	idx.built = true

	return nil
}

func (idx *flatIndex) Nearest(ctx context.Context, query []float32, k int) ([]vector.Neighbor, error) {
	if idx.n == 0 {
		return nil, vector.ErrEmptyIndex
	}

	if k < 1 {
		return nil, vector.ErrInvalidK
	}

	if len(query) != idx.dim {
		return nil, fmt.Errorf("%w: want %d, got %d", vector.ErrDimensionMismatch, idx.dim, len(query))
	}

	neighbors := make([]vector.Neighbor, idx.n)
	for i := range idx.n {
		row := idx.data[i*idx.dim : (i+1)*idx.dim]

		score, err := vector.SquaredL2(query, row)
		if err != nil {
			return nil, err
		}

		neighbors[i] = vector.Neighbor{
			Position: i,
			Score:    score,
		}
	}

	slices.SortFunc(neighbors, func(a, b vector.Neighbor) int {
		if c := cmp.Compare(a.Score, b.Score); c != 0 {
			return c
		}

		return cmp.Compare(a.Position, b.Position)
	})

	if k > len(neighbors) {
		k = len(neighbors)
	}

	return neighbors[:k], nil
}

func (idx *flatIndex) Len() int {
	return idx.n
}
