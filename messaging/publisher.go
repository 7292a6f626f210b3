package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/relaypulse/relaypulse-go/contracts"
	"github.com/relaypulse/relaypulse-go/internal/metrics"
	"github.com/relaypulse/relaypulse-go/internal/resolve"
	"github.com/relaypulse/relaypulse-go/settings"
)

// MessagePublisher builds envelopes for outbound messages and hands them to a
// transport
type MessagePublisher struct {
	transport TransportPublisher
	builder   *EnvelopeBuilder
	replies   *ReplyEnvelopeBuilder
	ids       UniqueID
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// PublisherOption configures the MessagePublisher
type PublisherOption func(*publisherConfig)

type publisherConfig struct {
	settings settings.PublishSettings
	clock    Clock
	ids      UniqueID
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// WithPublishSettings sets the publisher defaults
func WithPublishSettings(s settings.PublishSettings) PublisherOption {
	return func(c *publisherConfig) {
		c.settings = s
	}
}

// WithPublisherClock sets the clock used for sent-at headers
func WithPublisherClock(clock Clock) PublisherOption {
	return func(c *publisherConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithUniqueID sets the message id generator
func WithUniqueID(ids UniqueID) PublisherOption {
	return func(c *publisherConfig) {
		if ids != nil {
			c.ids = ids
		}
	}
}

// WithPublisherLogger sets the logger
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(c *publisherConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPublisherMetrics sets the metrics collector
func WithPublisherMetrics(m *metrics.Metrics) PublisherOption {
	return func(c *publisherConfig) {
		c.metrics = m
	}
}

// NewMessagePublisher creates a new message publisher
func NewMessagePublisher(transport TransportPublisher, options ...PublisherOption) *MessagePublisher {
	cfg := &publisherConfig{
		clock:  SystemClock{},
		ids:    UUIDGenerator{},
		logger: slog.Default(),
	}

	for _, opt := range options {
		opt(cfg)
	}

	return &MessagePublisher{
		transport: transport,
		builder:   NewEnvelopeBuilder(cfg.settings, WithClock(cfg.clock)),
		replies:   NewReplyEnvelopeBuilder(cfg.ids),
		ids:       cfg.ids,
		logger:    cfg.logger,
		metrics:   cfg.metrics,
	}
}

// Builder returns the envelope builder used by the publisher
func (p *MessagePublisher) Builder() *EnvelopeBuilder {
	return p.builder
}

// PublishOptions configures a single publish
type PublishOptions struct {
	Exchange   string
	RoutingKey string
}

// PublishOption configures publish behavior
type PublishOption func(*PublishOptions)

// WithExchange sets the exchange name
func WithExchange(exchange string) PublishOption {
	return func(opts *PublishOptions) {
		opts.Exchange = exchange
	}
}

// WithRoutingKey sets the routing key
func WithRoutingKey(routingKey string) PublishOption {
	return func(opts *PublishOptions) {
		opts.RoutingKey = routingKey
	}
}

// Publish builds the envelope for msg, serializes its content as JSON and
// publishes it. The exchange falls back to the settings default; the routing
// key falls back to the settings default and then to the message type name.
func Publish[T any](ctx context.Context, p *MessagePublisher, msg contracts.Message[T], options ...PublishOption) (*contracts.Envelope, error) {
	var opts PublishOptions
	for _, opt := range options {
		opt(&opts)
	}

	body, err := json.Marshal(msg.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize message: %w", err)
	}

	envelope := Build(p.builder, p.ids.New(), msg)
	s := p.builder.Settings()
	exchange := resolve.FirstNonEmpty(opts.Exchange, s.DefaultExchange)
	routingKey := resolve.FirstNonEmpty(opts.RoutingKey, s.DefaultRoutingKey, envelope.HeaderString(p.builder.MessageTypeHeaderName()))

	return envelope, p.send(ctx, exchange, routingKey, envelope, body)
}

// Reply publishes msg to replyTo through the default exchange using a reply
// envelope
func Reply[T any](ctx context.Context, p *MessagePublisher, replyTo string, msg contracts.Message[T]) (*contracts.Envelope, error) {
	if resolve.IsBlank(replyTo) {
		return nil, fmt.Errorf("reply-to address cannot be empty")
	}

	body, err := json.Marshal(msg.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize reply: %w", err)
	}

	envelope := BuildReply(p.replies, msg)
	return envelope, p.send(ctx, "", replyTo, envelope, body)
}

func (p *MessagePublisher) send(ctx context.Context, exchange, routingKey string, envelope *contracts.Envelope, body []byte) error {
	p.metrics.IncEnvelopeBuilt(envelope.Type)

	if err := p.transport.Publish(ctx, exchange, routingKey, envelope, body); err != nil {
		p.metrics.IncPublishFailure(exchange)
		p.logger.Error("Failed to publish message",
			"messageId", envelope.MessageID,
			"type", envelope.Type,
			"exchange", exchange,
			"routingKey", routingKey,
			"error", err)
		return fmt.Errorf("failed to publish message %s: %w", envelope.MessageID, err)
	}

	p.logger.Debug("Message published",
		"messageId", envelope.MessageID,
		"type", envelope.Type,
		"exchange", exchange,
		"routingKey", routingKey)
	return nil
}
