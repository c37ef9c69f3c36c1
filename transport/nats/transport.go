package nats

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-kit/kit/endpoint"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go/micro"

	"github.com/flarexio/ragblade"
)

const RequestIDHeader = "request_id"

func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ragblade.ErrValidation):
		return "400"
	case errors.Is(err, ragblade.ErrEncoding):
		return "422"
	case errors.Is(err, ragblade.ErrGeneration):
		return "502"
	default:
		return "417"
	}
}

func requestContext(r micro.Request) context.Context {
	id := r.Headers().Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}

	return context.WithValue(context.Background(), ragblade.RequestID, id)
}

func RetrieveHandler(endpoint endpoint.Endpoint) micro.HandlerFunc {
	return func(r micro.Request) {
		var req ragblade.QueryRequest
		if err := json.Unmarshal(r.Data(), &req); err != nil {
			r.Error("400", err.Error(), nil)
			return
		}

		ctx := requestContext(r)
		resp, err := endpoint(ctx, req)
		if err != nil {
			r.Error(ErrorCode(err), err.Error(), nil)
			return
		}

		matches, ok := resp.([]ragblade.Match)
		if !ok {
			r.Error("500", "invalid response type", nil)
			return
		}

		r.RespondJSON(&matches)
	}
}

func QueryHandler(endpoint endpoint.Endpoint) micro.HandlerFunc {
	return func(r micro.Request) {
		var req ragblade.QueryRequest
		if err := json.Unmarshal(r.Data(), &req); err != nil {
			r.Error("400", err.Error(), nil)
			return
		}

		ctx := requestContext(r)
		resp, err := endpoint(ctx, req)
		if err != nil {
			r.Error(ErrorCode(err), err.Error(), nil)
			return
		}

		result, ok := resp.(*ragblade.Response)
		if !ok {
			r.Error("500", "invalid response type", nil)
			return
		}

		r.RespondJSON(result)
	}
}
