package nats

import (
	"github.com/nats-io/nats.go/micro"

	"github.com/flarexio/ragblade"
)

func AddEndpoints(group micro.Group, endpoints ragblade.EndpointSet) {
	group.AddEndpoint("retrieve", RetrieveHandler(endpoints.Retrieve))
	group.AddEndpoint("query", QueryHandler(endpoints.RetrieveAndGenerate))
}
