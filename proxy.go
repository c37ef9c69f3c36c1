package ragblade

import (
	"context"
	"errors"
)

func ProxyMiddleware(endpoints *EndpointSet) ServiceMiddleware {
	return func(next Service) Service {
		return &proxyMiddleware{
			endpoints: endpoints,
		}
	}
}

type proxyMiddleware struct {
	endpoints *EndpointSet
}

func (mw *proxyMiddleware) Retrieve(ctx context.Context, query string, k ...int) ([]Match, error) {
	n := 0
	if len(k) > 0 {
		n = k[0]
	}

	req := QueryRequest{
		Query: query,
		TopK:  n,
	}

	resp, err := mw.endpoints.Retrieve(ctx, req)
	if err != nil {
		return nil, err
	}

	matches, ok := resp.([]Match)
	if !ok {
		return nil, errors.New("invalid response type")
	}

	return matches, nil
}

func (mw *proxyMiddleware) RetrieveAndGenerate(ctx context.Context, query string, k ...int) (*Response, error) {
	n := 0
	if len(k) > 0 {
		n = k[0]
	}

	req := QueryRequest{
		Query: query,
		TopK:  n,
	}

	resp, err := mw.endpoints.RetrieveAndGenerate(ctx, req)
	if err != nil {
		return nil, err
	}

	result, ok := resp.(*Response)
	if !ok {
		return nil, errors.New("invalid response type")
	}

	return result, nil
}
