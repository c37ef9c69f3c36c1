package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-kit/kit/endpoint"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/micro"

	"github.com/flarexio/ragblade"
)

// Generation may take far longer than nats.DefaultTimeout.
const RequestTimeout = 2 * time.Minute

func MakeEndpoints(nc *nats.Conn, prefix string) *ragblade.EndpointSet {
	return &ragblade.EndpointSet{
		Retrieve:            RetrieveEndpoint(nc, prefix+".retrieve"),
		RetrieveAndGenerate: QueryEndpoint(nc, prefix+".query"),
	}
}

func doRequest(ctx context.Context, nc *nats.Conn, topic string, req ragblade.QueryRequest) (*nats.Msg, error) {
	data, err := json.Marshal(&req)
	if err != nil {
		return nil, err
	}

	msg := nats.NewMsg(topic)
	msg.Data = data

	requestID, ok := ctx.Value(ragblade.RequestID).(string)
	if ok {
		msg.Header.Set(RequestIDHeader, requestID)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
	}

	resp, err := nc.RequestMsgWithContext(ctx, msg)
	if err != nil {
		return nil, err
	}

	if err := Error(resp); err != nil {
		return nil, err
	}

	return resp, nil
}

func RetrieveEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(ragblade.QueryRequest)
		if !ok {
			return nil, errors.New("invalid request")
		}

		resp, err := doRequest(ctx, nc, topic, req)
		if err != nil {
			return nil, err
		}

		var matches []ragblade.Match
		if err := json.Unmarshal(resp.Data, &matches); err != nil {
			return nil, err
		}

		return matches, nil
	}
}

func QueryEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(ragblade.QueryRequest)
		if !ok {
			return nil, errors.New("invalid request")
		}

		resp, err := doRequest(ctx, nc, topic, req)
		if err != nil {
			return nil, err
		}

		var result ragblade.Response
		if err := json.Unmarshal(resp.Data, &result); err != nil {
			return nil, err
		}

		return &result, nil
	}
}

// Error maps micro error headers back onto the service's error taxonomy.
func Error(msg *nats.Msg) error {
	if msg == nil {
		return errors.New("nil message")
	}

	code := msg.Header.Get(micro.ErrorCodeHeader)
	if code == "" {
		return nil
	}

	description := msg.Header.Get(micro.ErrorHeader)
	if description == "" {
		description = "unknown error"
	}

	switch code {
	case "400":
		return fmt.Errorf("%w: %s", ragblade.ErrValidation, description)
	case "422":
		return fmt.Errorf("%w: %s", ragblade.ErrEncoding, description)
	case "502":
		return fmt.Errorf("%w: %s", ragblade.ErrGeneration, description)
	default:
		return errors.New(code + ":" + description)
	}
}
