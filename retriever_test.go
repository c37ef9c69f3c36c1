package ragblade

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetrieveCapitalOfFrance(t *testing.T) {
	assert := assert.New(t)

	kb, err := newTestKnowledgeBase(DefaultDocuments())
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	matches, err := Retrieve(context.Background(), kb, "What is the capital of France?", 1)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Len(matches, 1)
	assert.Equal(1, matches[0].Position)
	assert.Contains(string(matches[0].Document), "Paris is the capital of France")
}

func TestRetrieveTallestMountain(t *testing.T) {
	assert := assert.New(t)

	kb, err := newTestKnowledgeBase(DefaultDocuments())
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	matches, err := Retrieve(context.Background(), kb, "Which mountain is tallest?", 3)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Len(matches, 3)
	assert.Contains(string(matches[0].Document), "Mount Everest")
	assert.NotContains(string(matches[0].Document), "Great Wall")

	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(matches[i-1].Score, matches[i].Score, "matches are ranked nearest first")
	}
}

func TestRetrieveAlwaysReturnsBestCandidate(t *testing.T) {
	assert := assert.New(t)

	kb, err := newTestKnowledgeBase(DefaultDocuments())
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	matches, err := Retrieve(context.Background(), kb, "zebra quantum saxophone", 0)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Len(matches, 1, "k below 1 means top-1")
}

func TestRetrieveDeterministic(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	kb, err := newTestKnowledgeBase(DefaultDocuments())
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	first, err := Retrieve(ctx, kb, "Who walked on the Moon?", 1)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	for range 5 {
		again, err := Retrieve(ctx, kb, "Who walked on the Moon?", 1)
		assert.NoError(err)
		assert.Equal(first, again)
	}
}

func TestRetrieveTieBreaksOnLowerPosition(t *testing.T) {
	assert := assert.New(t)

	docs := []string{
		"Kubernetes is an orchestration tool.",
		"Water boils at 100 degrees Celsius at sea level.",
		"Water boils at 100 degrees Celsius at sea level.",
	}

	kb, err := newTestKnowledgeBase(docs)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	for range 5 {
		matches, err := Retrieve(context.Background(), kb, docs[2], 2)
		assert.NoError(err)
		assert.Equal(1, matches[0].Position)
		assert.Equal(2, matches[1].Position)
		assert.Equal(matches[0].Score, matches[1].Score)
	}
}

func TestRetrieveConcurrent(t *testing.T) {
	assert := assert.New(t)

	kb, err := newTestKnowledgeBase(DefaultDocuments())
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	queries := map[string]int{
		"What is the capital of France?": 1,
		"Which mountain is tallest?":     10,
		"What is Kubernetes?":            12,
	}

	var wg sync.WaitGroup
	for range 8 {
		for query, want := range queries {
			wg.Add(1)
			go func() {
				defer wg.Done()

				matches, err := Retrieve(context.Background(), kb, query, 1)
				if assert.NoError(err) {
					assert.Equal(want, matches[0].Position)
				}
			}()
		}
	}

	wg.Wait()
}

func TestRetrieveWithoutKnowledgeBase(t *testing.T) {
	assert := assert.New(t)

	_, err := Retrieve(context.Background(), nil, "query", 1)
	assert.ErrorIs(err, ErrIndexNotBuilt)
	assert.ErrorIs(err, ErrConfiguration)

	_, err = Retrieve(context.Background(), &KnowledgeBase{}, "query", 1)
	assert.ErrorIs(err, ErrIndexNotBuilt)
}
