package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flarexio/ragblade"
	"github.com/flarexio/ragblade/vector"
)

func TestNewIndex(t *testing.T) {
	assert := assert.New(t)

	idx, err := newIndex(vector.Config{})
	assert.NoError(err)
	assert.NotNil(idx)

	idx, err = newIndex(vector.Config{Backend: vector.BackendChromem, Normalization: vector.NormalizationUnit})
	assert.NoError(err)
	assert.NotNil(idx)

	_, err = newIndex(vector.Config{Normalization: "l2"})
	assert.ErrorIs(err, ragblade.ErrConfiguration)
	assert.ErrorIs(err, vector.ErrUnknownPolicy)

	_, err = newIndex(vector.Config{Backend: "faiss"})
	assert.ErrorIs(err, ragblade.ErrConfiguration)
}

func TestLoadConfig(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()

	cfg, err := loadConfig(dir)
	assert.NoError(err, "a missing config file means defaults")
	assert.Empty(cfg.Documents)

	data := []byte("topK: 2\nvector:\n  backend: chromem\n  normalization: none\n")
	err = os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o644)
	if !assert.NoError(err) {
		return
	}

	cfg, err = loadConfig(dir)
	assert.NoError(err)
	assert.Equal(2, cfg.TopK)
	assert.Equal(vector.BackendChromem, cfg.Vector.Backend)

	_, err = newIndex(cfg.Vector)
	assert.ErrorIs(err, ragblade.ErrConfiguration, "chromem refuses unnormalized vectors")
}
