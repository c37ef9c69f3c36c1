// Package hashing implements a deterministic, offline embedder based on the
// hashing trick: each content word of a text is hashed into one of a fixed
// number of buckets and the bucket counts form the vector.
package hashing

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/flarexio/ragblade/vector"
)

const DefaultDimension = 384

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"been": {}, "being": {}, "by": {}, "can": {}, "did": {}, "do": {},
	"does": {}, "for": {}, "from": {}, "had": {}, "has": {}, "have": {},
	"how": {}, "i": {}, "in": {}, "into": {}, "is": {}, "it": {}, "its": {},
	"me": {}, "of": {}, "on": {}, "or": {}, "over": {}, "so": {}, "than": {},
	"that": {}, "the": {}, "their": {}, "then": {}, "there": {}, "these": {},
	"this": {}, "those": {}, "to": {}, "was": {}, "we": {}, "were": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "who": {}, "whom": {},
	"why": {}, "will": {}, "with": {}, "you": {}, "your": {},
}

// NewHashingEmbedder returns an embedder producing vectors of length dim.
// A non-positive dim selects DefaultDimension.
func NewHashingEmbedder(dim int) vector.Embedder {
	if dim <= 0 {
		dim = DefaultDimension
	}

	return &hashingEmbedder{dim}
}

type hashingEmbedder struct {
	dim int
}

func (e *hashingEmbedder) Dimension() int {
	return e.dim
}

func (e *hashingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		vectors[i] = e.embed(text)
	}

	return vectors, nil
}

func (e *hashingEmbedder) embed(text string) []float32 {
	v := make([]float32, e.dim)

	for _, token := range Tokens(text) {
		v[e.bucket(token)]++
	}

	return v
}

func (e *hashingEmbedder) bucket(token string) int {
	h := fnv.New64a()
	h.Write([]byte(token))
	return int(h.Sum64() % uint64(e.dim))
}

// Tokens returns the lower-cased content words of text. When every word is
// a stopword the stopwords are kept, and text without any word yields the
// trimmed text itself, so no input maps to the zero vector.
func Tokens(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	content := make([]string, 0, len(words))
	for _, w := range words {
		if _, ok := stopwords[w]; ok {
			continue
		}

		content = append(content, w)
	}

	if len(content) > 0 {
		return content
	}

	if len(words) > 0 {
		return words
	}

	return []string{strings.TrimSpace(text)}
}
