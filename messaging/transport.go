package messaging

import (
	"context"

	"github.com/relaypulse/relaypulse-go/contracts"
)

// TransportPublisher hands a resolved envelope and serialized payload to the
// broker
type TransportPublisher interface {
	// Publish sends body with the metadata in envelope
	Publish(ctx context.Context, exchange, routingKey string, envelope *contracts.Envelope, body []byte) error
}

// TransportPublisherFunc adapts a function to TransportPublisher
type TransportPublisherFunc func(ctx context.Context, exchange, routingKey string, envelope *contracts.Envelope, body []byte) error

// Publish calls f
func (f TransportPublisherFunc) Publish(ctx context.Context, exchange, routingKey string, envelope *contracts.Envelope, body []byte) error {
	return f(ctx, exchange, routingKey, envelope, body)
}
