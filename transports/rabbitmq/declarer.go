package rabbitmq

import (
	"context"
	"log/slog"
	"time"

	"github.com/relaypulse/relaypulse-go/internal/metrics"
	"github.com/relaypulse/relaypulse-go/topology"
)

// Declarer issues the declarations of a planned topology on a channel
type Declarer struct {
	channel Channel
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// DeclarerOption configures the declarer
type DeclarerOption func(*Declarer)

// WithDeclarerLogger sets the logger
func WithDeclarerLogger(logger *slog.Logger) DeclarerOption {
	return func(d *Declarer) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithDeclarerMetrics sets the metrics collector
func WithDeclarerMetrics(m *metrics.Metrics) DeclarerOption {
	return func(d *Declarer) {
		d.metrics = m
	}
}

// NewDeclarer creates a declarer on channel
func NewDeclarer(channel Channel, options ...DeclarerOption) *Declarer {
	d := &Declarer{
		channel: channel,
		logger:  slog.Default(),
	}

	for _, opt := range options {
		opt(d)
	}

	return d
}

// Declare declares exchanges, then queues, then bindings. It stops at the
// first failure and returns it as a *TopologyError.
func (d *Declarer) Declare(ctx context.Context, topo *topology.Topology) error {
	if topo == nil {
		return ErrNilTopology
	}

	for _, exchange := range topo.Exchanges {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := d.channel.ExchangeDeclare(
			exchange.Name,
			exchange.Type,
			exchange.Durable,
			exchange.AutoDelete,
			false, // internal
			false, // no-wait
			exchange.Arguments,
		)
		if err != nil {
			return topologyError("exchange", exchange.Name, "declare", err)
		}
	}
	d.metrics.AddDeclarations("exchange", len(topo.Exchanges))

	for _, queue := range topo.Queues {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := d.channel.QueueDeclare(
			queue.Name,
			queue.Durable,
			queue.AutoDelete,
			queue.Exclusive,
			false, // no-wait
			queue.Arguments,
		)
		if err != nil {
			return topologyError("queue", queue.Name, "declare", err)
		}
	}
	d.metrics.AddDeclarations("queue", len(topo.Queues))

	for _, binding := range topo.Bindings {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := d.channel.QueueBind(
			binding.Queue,
			binding.RoutingKey,
			binding.Exchange,
			false, // no-wait
			binding.Arguments,
		)
		if err != nil {
			return topologyError("binding", binding.Queue+"->"+binding.Exchange, "bind", err)
		}
	}
	d.metrics.AddDeclarations("binding", len(topo.Bindings))

	d.logger.Info("Topology declared",
		"exchanges", len(topo.Exchanges),
		"queues", len(topo.Queues),
		"bindings", len(topo.Bindings))
	return nil
}

func topologyError(component, name, op string, err error) *TopologyError {
	return &TopologyError{
		Component: component,
		Name:      name,
		Op:        op,
		Err:       err,
		Timestamp: time.Now(),
	}
}
