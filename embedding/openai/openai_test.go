package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flarexio/ragblade/embedding"
)

func TestEmbedOrdersByIndex(t *testing.T) {
	assert := assert.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"object": "list",
			"model": "text-embedding-3-small",
			"data": [
				{"object": "embedding", "index": 1, "embedding": [0, 1]},
				{"object": "embedding", "index": 0, "embedding": [1, 0]}
			],
			"usage": {"prompt_tokens": 2, "total_tokens": 2}
		}`))
	}))
	defer srv.Close()

	e, err := NewOpenAIEmbedder(embedding.Config{
		APIKey:    "test",
		BaseURL:   srv.URL,
		Dimension: 2,
	})
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Equal(2, e.Dimension())

	vectors, err := e.Embed(context.Background(), []string{"first", "second"})
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Equal([][]float32{{1, 0}, {0, 1}}, vectors)
}

func TestNewOpenAIEmbedderRequiresKey(t *testing.T) {
	_, err := NewOpenAIEmbedder(embedding.Config{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
