package vector

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyIndex        = errors.New("index is empty")
	ErrIndexAlreadyBuilt = errors.New("index already built")
	ErrNoVectors         = errors.New("no vectors to insert")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrInvalidK          = errors.New("k must be at least 1")
	ErrBatchSizeMismatch = errors.New("embedding batch size mismatch")
	ErrEmbedderNotSet    = errors.New("embedder not set")
	ErrUnknownPolicy     = errors.New("unknown normalization policy")
)

type Backend string

const (
	BackendFlat    Backend = "flat"
	BackendChromem Backend = "chromem"
)

type Normalization string

const (
	NormalizationUnit Normalization = "unit"
	NormalizationNone Normalization = "none"
)

type Config struct {
	Backend       Backend       `yaml:"backend"`
	Normalization Normalization `yaml:"normalization"`
	Collection    string        `yaml:"collection"`
}

// Normalize reports whether vectors are scaled to unit length before
// indexing and querying. An empty policy means unit.
func (cfg Config) Normalize() bool {
	return cfg.Normalization != NormalizationNone
}

// Validate rejects normalization policies other than unit and none.
func (cfg Config) Validate() error {
	switch cfg.Normalization {
	case "", NormalizationUnit, NormalizationNone:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPolicy, cfg.Normalization)
	}
}

// Embedder maps text to fixed-length vectors. Embed is the batched form;
// a single text is a batch of one.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// Index is an immutable nearest-neighbor structure. BulkInsert is called
// exactly once; Nearest returns up to k neighbors, best first, scored by
// squared Euclidean distance (lower is better). Ties are broken by the
// lower position.
type Index interface {
	BulkInsert(ctx context.Context, vectors [][]float32) error
	Nearest(ctx context.Context, query []float32, k int) ([]Neighbor, error)
	Len() int
}

type Neighbor struct {
	Position int     `json:"position"`
	Score    float64 `json:"score"`
}

// SquaredL2 returns the squared Euclidean distance between a and b.
func SquaredL2(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}

	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}

	return sum, nil
}

func Magnitude(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}

	return math.Sqrt(sum)
}

// Normalize returns a unit-length copy of v. A zero vector is returned
// unchanged.
func Normalize(v []float32) []float32 {
	out := make([]float32, len(v))

	mag := Magnitude(v)
	if mag == 0 {
		copy(out, v)
		return out
	}

	for i, x := range v {
		out[i] = float32(float64(x) / mag)
	}

	return out
}
