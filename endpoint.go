package ragblade

import (
	"context"
	"errors"
	"strings"

	"github.com/go-kit/kit/endpoint"
)

type EndpointSet struct {
	Retrieve            endpoint.Endpoint
	RetrieveAndGenerate endpoint.Endpoint
}

func MakeEndpoints(svc Service) EndpointSet {
	return EndpointSet{
		Retrieve:            RetrieveEndpoint(svc),
		RetrieveAndGenerate: RetrieveAndGenerateEndpoint(svc),
	}
}

type QueryRequest struct {
	Query string `json:"query" form:"query"`
	TopK  int    `json:"top_k,omitempty" form:"top_k"`
}

// Validate rejects blank queries before they reach the knowledge base.
func (req QueryRequest) Validate() error {
	if strings.TrimSpace(req.Query) == "" {
		return ErrEmptyQuery
	}

	if req.TopK < 0 {
		return ErrInvalidTopK
	}

	return nil
}

func RetrieveEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(QueryRequest)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		if err := req.Validate(); err != nil {
			return nil, err
		}

		return svc.Retrieve(ctx, req.Query, req.TopK)
	}
}

func RetrieveAndGenerateEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(QueryRequest)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		if err := req.Validate(); err != nil {
			return nil, err
		}

		return svc.RetrieveAndGenerate(ctx, req.Query, req.TopK)
	}
}
