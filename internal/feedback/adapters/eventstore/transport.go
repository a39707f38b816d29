// Package eventstore delivers feedback envelopes to an EventStore stream
// over its HTTP API.
package eventstore

import (
	"context"

	"usage-telemetry-service/internal/feedback/core/domain"
	"usage-telemetry-service/internal/feedback/core/ports"
	"usage-telemetry-service/internal/platform/httpclient"
)

const DefaultURL = "http://127.0.0.1:2113/streams/mattermost-clicks"

const (
	HeaderEventType = "ES-EventType"
	HeaderEventID   = "ES-EventId"
)

type Transport struct {
	client *httpclient.Client
	url    string
}

func NewTransport(client *httpclient.Client, url string) *Transport {
	if url == "" {
		url = DefaultURL
	}
	return &Transport{client: client, url: url}
}

var _ ports.Transport = (*Transport)(nil)

func (t *Transport) Name() string { return "eventstore" }

func (t *Transport) Deliver(ctx context.Context, env domain.Envelope) error {
	headers := map[string]string{
		HeaderEventType: env.EventType,
		HeaderEventID:   env.ID.String(),
	}
	return t.client.PostJSON(ctx, t.url, headers, env.Body)
}
