package rabbitmq

import (
	"context"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/relaypulse/relaypulse-go/contracts"
	"github.com/relaypulse/relaypulse-go/messaging"
)

// Publisher implements messaging.TransportPublisher on an AMQP channel
type Publisher struct {
	channel      Channel
	clock        messaging.Clock
	logger       *slog.Logger
	deliveryMode uint8
	mandatory    bool
}

// PublisherOption configures the publisher
type PublisherOption func(*Publisher)

// WithPublisherLogger sets the logger
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithPublisherClock sets the clock used for the AMQP timestamp property
func WithPublisherClock(clock messaging.Clock) PublisherOption {
	return func(p *Publisher) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// WithPersistent selects persistent or transient delivery
func WithPersistent(persistent bool) PublisherOption {
	return func(p *Publisher) {
		if persistent {
			p.deliveryMode = amqp.Persistent
		} else {
			p.deliveryMode = amqp.Transient
		}
	}
}

// WithMandatory sets the mandatory flag on every publish
func WithMandatory(mandatory bool) PublisherOption {
	return func(p *Publisher) {
		p.mandatory = mandatory
	}
}

// NewPublisher creates a publisher on channel
func NewPublisher(channel Channel, options ...PublisherOption) *Publisher {
	p := &Publisher{
		channel:      channel,
		clock:        messaging.SystemClock{},
		logger:       slog.Default(),
		deliveryMode: amqp.Persistent,
	}

	for _, opt := range options {
		opt(p)
	}

	return p
}

var _ messaging.TransportPublisher = (*Publisher)(nil)

// Publish implements messaging.TransportPublisher
func (p *Publisher) Publish(ctx context.Context, exchange, routingKey string, envelope *contracts.Envelope, body []byte) error {
	if envelope == nil {
		return ErrNilEnvelope
	}

	msg := ToPublishing(envelope, body)
	msg.DeliveryMode = p.deliveryMode
	msg.Timestamp = p.clock.Now().UTC()

	if err := p.channel.PublishWithContext(ctx, exchange, routingKey, p.mandatory, false, msg); err != nil {
		return &PublishError{
			Exchange:   exchange,
			RoutingKey: routingKey,
			MessageID:  envelope.MessageID,
			Err:        err,
			Timestamp:  time.Now(),
		}
	}

	p.logger.Debug("Published to broker", "exchange", exchange, "routingKey", routingKey, "messageId", envelope.MessageID)
	return nil
}

// ToPublishing maps an envelope onto AMQP basic properties
func ToPublishing(envelope *contracts.Envelope, body []byte) amqp.Publishing {
	msg := amqp.Publishing{
		ContentType:     envelope.ContentType,
		ContentEncoding: envelope.ContentEncoding,
		MessageId:       envelope.MessageID,
		CorrelationId:   envelope.CorrelationID,
		AppId:           envelope.AppID,
		UserId:          envelope.UserID,
		Type:            envelope.Type,
		Expiration:      envelope.Expiration,
		Body:            body,
	}

	if envelope.Headers != nil {
		msg.Headers = make(amqp.Table, len(envelope.Headers))
		for k, v := range envelope.Headers {
			msg.Headers[k] = v
		}
	}

	return msg
}
