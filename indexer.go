package ragblade

import (
	"context"
	"fmt"

	"github.com/flarexio/ragblade/vector"
)

// KnowledgeBase holds the corpus, its vector index and the encoder that
// produced the index. It is read-only once built and safe for concurrent
// retrievals.
type KnowledgeBase struct {
	corpus  Corpus
	index   vector.Index
	encoder vector.Encoder
}

func (kb *KnowledgeBase) Corpus() Corpus {
	return kb.corpus
}

func (kb *KnowledgeBase) Len() int {
	return kb.corpus.Len()
}

// BuildKnowledgeBase encodes every document in one batch and bulk inserts
// the vectors into index, position i holding document i. The index must
// be fresh; on failure it must be discarded.
func BuildKnowledgeBase(ctx context.Context, documents []string, encoder vector.Encoder, index vector.Index) (*KnowledgeBase, error) {
	if len(documents) == 0 {
		return nil, ErrEmptyCorpus
	}

	if index == nil {
		return nil, ErrIndexNotSet
	}

	if index.Len() != 0 {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, vector.ErrIndexAlreadyBuilt)
	}

	corpus := NewCorpus(documents)

	vectors, err := encoder.EncodeBatch(ctx, corpus.Texts())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}

	if err := index.BulkInsert(ctx, vectors); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	if index.Len() != corpus.Len() {
		return nil, fmt.Errorf("%w: %d vectors for %d documents", ErrIndexSizeMismatch, index.Len(), corpus.Len())
	}

	return &KnowledgeBase{
		corpus:  corpus,
		index:   index,
		encoder: encoder,
	}, nil
}
