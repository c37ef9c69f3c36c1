package ragblade

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingService struct {
	retrieveCalls int
	generateCalls int
}

func (s *countingService) Retrieve(ctx context.Context, query string, k ...int) ([]Match, error) {
	s.retrieveCalls++
	return []Match{{Position: 0, Document: "doc", Score: 0.5}}, nil
}

func (s *countingService) RetrieveAndGenerate(ctx context.Context, query string, k ...int) (*Response, error) {
	s.generateCalls++
	return &Response{RetrievedDocument: "doc", Answer: "answer", Score: 0.25}, nil
}

func TestQueryRequestValidate(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(QueryRequest{Query: "capital of France"}.Validate())
	assert.ErrorIs(QueryRequest{Query: ""}.Validate(), ErrEmptyQuery)
	assert.ErrorIs(QueryRequest{Query: " \t\n "}.Validate(), ErrEmptyQuery)
	assert.ErrorIs(QueryRequest{Query: "q", TopK: -1}.Validate(), ErrInvalidTopK)
}

func TestEndpointsRejectEmptyQuery(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	svc := &countingService{}
	endpoints := MakeEndpoints(svc)

	_, err := endpoints.RetrieveAndGenerate(ctx, QueryRequest{Query: "   "})
	assert.ErrorIs(err, ErrValidation)

	_, err = endpoints.Retrieve(ctx, QueryRequest{Query: ""})
	assert.ErrorIs(err, ErrValidation)

	assert.Equal(0, svc.generateCalls, "blank queries never reach the service")
	assert.Equal(0, svc.retrieveCalls)

	_, err = endpoints.Retrieve(ctx, "not a request")
	assert.Error(err)
}

func TestProxyMiddleware(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	svc := &countingService{}
	endpoints := MakeEndpoints(svc)

	var proxy Service
	proxy = ProxyMiddleware(&endpoints)(proxy)

	resp, err := proxy.RetrieveAndGenerate(ctx, "question")
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Equal("doc", resp.RetrievedDocument)
	assert.Equal("answer", resp.Answer)

	matches, err := proxy.Retrieve(ctx, "question", 2)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Len(matches, 1)
	assert.Equal(1, svc.generateCalls)
	assert.Equal(1, svc.retrieveCalls)

	_, err = proxy.Retrieve(ctx, "")
	assert.ErrorIs(err, ErrEmptyQuery)
}
