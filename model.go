package ragblade

import (
	"errors"
	"fmt"

	"github.com/flarexio/ragblade/embedding"
	"github.com/flarexio/ragblade/generation"
	"github.com/flarexio/ragblade/vector"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrEncoding      = errors.New("encoding failure")
	ErrGeneration    = errors.New("generation failure")
	ErrValidation    = errors.New("validation error")
)

var (
	ErrEmptyCorpus       = fmt.Errorf("%w: corpus is empty", ErrConfiguration)
	ErrIndexNotSet       = fmt.Errorf("%w: vector index not set", ErrConfiguration)
	ErrIndexNotBuilt     = fmt.Errorf("%w: vector index not built", ErrConfiguration)
	ErrIndexSizeMismatch = fmt.Errorf("%w: index size does not match corpus size", ErrConfiguration)
	ErrGeneratorNotSet   = fmt.Errorf("%w: generator not set", ErrConfiguration)
	ErrEmptyQuery        = fmt.Errorf("%w: query cannot be empty", ErrValidation)
	ErrInvalidTopK       = fmt.Errorf("%w: top_k cannot be negative", ErrValidation)
)

type ContextKey string

const (
	RequestID ContextKey = "request_id"
)

type Config struct {
	Documents      []string          `yaml:"documents"`
	TopK           int               `yaml:"topK"`
	AllowedOrigins []string          `yaml:"allowedOrigins"`
	Vector         vector.Config     `yaml:"vector"`
	Embedding      embedding.Config  `yaml:"embedding"`
	Generation     generation.Config `yaml:"generation"`
}

// Corpus returns the configured documents, or the built-in corpus when
// none are configured.
func (cfg Config) Corpus() []string {
	if len(cfg.Documents) == 0 {
		return DefaultDocuments()
	}

	return cfg.Documents
}

func (cfg Config) DefaultTopK() int {
	if cfg.TopK < 1 {
		return 1
	}

	return cfg.TopK
}

type Document string

// Corpus is an ordered, immutable list of documents addressed by position.
type Corpus struct {
	docs []Document
}

func NewCorpus(texts []string) Corpus {
	docs := make([]Document, len(texts))
	for i, text := range texts {
		docs[i] = Document(text)
	}

	return Corpus{docs}
}

func (c Corpus) Len() int {
	return len(c.docs)
}

func (c Corpus) At(position int) (Document, bool) {
	if position < 0 || position >= len(c.docs) {
		return "", false
	}

	return c.docs[position], true
}

func (c Corpus) Texts() []string {
	texts := make([]string, len(c.docs))
	for i, doc := range c.docs {
		texts[i] = string(doc)
	}

	return texts
}

type Match struct {
	Position int      `json:"position"`
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

type Response struct {
	RetrievedDocument string `json:"retrieved_doc"`
	Answer            string `json:"response"`

	// diagnostics for the best match, kept off the wire
	Position int     `json:"-"`
	Score    float64 `json:"-"`
}
