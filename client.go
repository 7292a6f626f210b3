// Copyright 2024 Relaypulse Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package relaypulse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/relaypulse/relaypulse-go/internal/metrics"
	"github.com/relaypulse/relaypulse-go/messaging"
	"github.com/relaypulse/relaypulse-go/settings"
	"github.com/relaypulse/relaypulse-go/topology"
	rabbitmqTransport "github.com/relaypulse/relaypulse-go/transports/rabbitmq"
)

// Client provides the main entry point for relaypulse-go
type Client struct {
	queueSettings settings.QueueSettings
	publisher     *messaging.MessagePublisher
	declarer      *rabbitmqTransport.Declarer
	logger        *slog.Logger
	metrics       *metrics.Metrics
	topology      *topology.Topology
}

type clientConfig struct {
	logger          *slog.Logger
	publishSettings settings.PublishSettings
	queueSettings   settings.QueueSettings
	clock           messaging.Clock
	ids             messaging.UniqueID
	registerer      prometheus.Registerer
}

// ClientOption configures the client
type ClientOption func(*clientConfig)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *clientConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPublishSettings sets the publisher defaults used to build envelopes
func WithPublishSettings(s settings.PublishSettings) ClientOption {
	return func(c *clientConfig) {
		c.publishSettings = s
	}
}

// WithQueueSettings sets the queues provisioned by Provision
func WithQueueSettings(s settings.QueueSettings) ClientOption {
	return func(c *clientConfig) {
		c.queueSettings = s
	}
}

// WithClock sets the clock used for sent-at headers and AMQP timestamps
func WithClock(clock messaging.Clock) ClientOption {
	return func(c *clientConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithUniqueID sets the message id generator
func WithUniqueID(ids messaging.UniqueID) ClientOption {
	return func(c *clientConfig) {
		if ids != nil {
			c.ids = ids
		}
	}
}

// WithMetrics registers relaypulse metrics on reg
func WithMetrics(reg prometheus.Registerer) ClientOption {
	return func(c *clientConfig) {
		c.registerer = reg
	}
}

// NewClient creates a client publishing and declaring on channel. The channel
// is owned by the caller.
func NewClient(channel rabbitmqTransport.Channel, options ...ClientOption) (*Client, error) {
	if channel == nil {
		return nil, errors.New("relaypulse: channel cannot be nil")
	}

	cfg := &clientConfig{
		logger: slog.Default(),
		clock:  messaging.SystemClock{},
		ids:    messaging.UUIDGenerator{},
	}

	for _, opt := range options {
		opt(cfg)
	}

	var m *metrics.Metrics
	if cfg.registerer != nil {
		var err error
		m, err = metrics.New(cfg.registerer)
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	transport := rabbitmqTransport.NewPublisher(channel,
		rabbitmqTransport.WithPublisherLogger(cfg.logger),
		rabbitmqTransport.WithPublisherClock(cfg.clock),
	)

	publisher := messaging.NewMessagePublisher(transport,
		messaging.WithPublishSettings(cfg.publishSettings),
		messaging.WithPublisherClock(cfg.clock),
		messaging.WithUniqueID(cfg.ids),
		messaging.WithPublisherLogger(cfg.logger),
		messaging.WithPublisherMetrics(m),
	)

	declarer := rabbitmqTransport.NewDeclarer(channel,
		rabbitmqTransport.WithDeclarerLogger(cfg.logger),
		rabbitmqTransport.WithDeclarerMetrics(m),
	)

	return &Client{
		queueSettings: cfg.queueSettings,
		publisher:     publisher,
		declarer:      declarer,
		logger:        cfg.logger,
		metrics:       m,
	}, nil
}

// Provision validates the queue settings and declares the resulting topology.
// Validation errors are returned unwrapped so callers can match
// *topology.ConfigError; nothing is declared when validation fails.
func (c *Client) Provision(ctx context.Context) error {
	topo, err := topology.Plan(c.queueSettings)
	if err != nil {
		rule := "no-queues"
		var cfgErr *topology.ConfigError
		if errors.As(err, &cfgErr) {
			rule = string(cfgErr.Rule)
		}
		c.metrics.IncValidationFailure(rule)
		c.logger.Error("Queue settings rejected", "rule", rule, "error", err)
		return err
	}

	if err := c.declarer.Declare(ctx, topo); err != nil {
		return fmt.Errorf("failed to declare topology: %w", err)
	}

	c.topology = topo
	c.logger.Info("Topology provisioned", "topology", topo.String())
	return nil
}

// Publisher returns the message publisher
func (c *Client) Publisher() *messaging.MessagePublisher {
	return c.publisher
}

// Topology returns the topology declared by the last successful Provision,
// or nil
func (c *Client) Topology() *topology.Topology {
	return c.topology
}
