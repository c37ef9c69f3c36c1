package chromem

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"slices"
	"strconv"

	"github.com/philippgille/chromem-go"

	"github.com/flarexio/ragblade/vector"
)

var (
	ErrNotNormalized    = errors.New("chromem index requires unit-length vectors")
	ErrEmbeddingRefused = errors.New("chromem collection does not embed text")
	ErrPartialInsert    = errors.New("chromem collection is missing documents")
)

const positionKey = "position"

// NewChromemIndex returns an index backed by an in-memory chromem-go
// collection. chromem ranks by cosine similarity, so callers must use unit
// normalization; scores are reported as squared L2 distance.
func NewChromemIndex(cfg vector.Config) (vector.Index, error) {
	if !cfg.Normalize() {
		return nil, fmt.Errorf("%w: normalization %q", ErrNotNormalized, cfg.Normalization)
	}

	name := cfg.Collection
	if name == "" {
		name = "documents"
	}

	return &chromemIndex{
		db:   chromem.NewDB(),
		name: name,
	}, nil
}

type chromemIndex struct {
	db         *chromem.DB
	name       string
	collection *chromem.Collection
	dim        int
}

func refuseEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, ErrEmbeddingRefused
}

func (idx *chromemIndex) BulkInsert(ctx context.Context, vectors [][]float32) error {
	if idx.collection != nil {
		return vector.ErrIndexAlreadyBuilt
	}

	if len(vectors) == 0 {
		return vector.ErrNoVectors
	}

	dim := len(vectors[0])
	docs := make([]chromem.Document, len(vectors))
	for i, v := range vectors {
		if len(v) != dim || dim == 0 {
			return fmt.Errorf("%w: want %d, got %d at %d", vector.ErrDimensionMismatch, dim, len(v), i)
		}

		if !isUnit(v) {
			return fmt.Errorf("%w: vector %d", ErrNotNormalized, i)
		}

		docs[i] = chromem.Document{
			ID:        strconv.Itoa(i),
			Metadata:  map[string]string{positionKey: strconv.Itoa(i)},
			Embedding: v,
		}
	}

	collection, err := idx.db.CreateCollection(idx.name, nil, refuseEmbedding)
	if err != nil {
		return err
	}

	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return idx.rollback(err)
	}

	// AddDocuments stops early without an error once ctx is done.
	if n := collection.Count(); n != len(docs) {
		err := fmt.Errorf("%w: inserted %d of %d", ErrPartialInsert, n, len(docs))
		return idx.rollback(errors.Join(err, context.Cause(ctx)))
	}

	idx.collection = collection
	idx.dim = dim

	return nil
}

func (idx *chromemIndex) rollback(err error) error {
	return errors.Join(err, idx.db.DeleteCollection(idx.name))
}

func (idx *chromemIndex) Nearest(ctx context.Context, query []float32, k int) ([]vector.Neighbor, error) {
	if idx.collection == nil || idx.collection.Count() == 0 {
		return nil, vector.ErrEmptyIndex
	}

	if k < 1 {
		return nil, vector.ErrInvalidK
	}

	if len(query) != idx.dim {
		return nil, fmt.Errorf("%w: want %d, got %d", vector.ErrDimensionMismatch, idx.dim, len(query))
	}

	if !isUnit(query) {
		return nil, fmt.Errorf("%w: query", ErrNotNormalized)
	}

	// chromem does not order ties, so rank the whole collection and break
	// ties on position here.
	results, err := idx.collection.QueryEmbedding(ctx, query, idx.collection.Count(), nil, nil)
	if err != nil {
		return nil, err
	}

	neighbors := make([]vector.Neighbor, len(results))
	for i, result := range results {
		pos, err := strconv.Atoi(result.Metadata[positionKey])
		if err != nil {
			return nil, err
		}

		neighbors[i] = vector.Neighbor{
			Position: pos,
			Score:    squaredL2FromCosine(result.Similarity),
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

func (idx *chromemIndex) Len() int {
	if idx.collection == nil {
		return 0
	}

	return idx.collection.Count()
}

// For unit vectors |a-b|^2 = 2 - 2cos(a,b).
func squaredL2FromCosine(similarity float32) float64 {
	d := 2 - 2*float64(similarity)
	if d < 0 {
		return 0
	}

	return d
}

func isUnit(v []float32) bool {
	return math.Abs(vector.Magnitude(v)-1) < 1e-3
}
