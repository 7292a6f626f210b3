package topology

import (
	"fmt"
	"math"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/relaypulse/relaypulse-go/settings"
)

// DefaultRetryDelaySeconds is the retry queue TTL used when a queue does not
// set RetryDelaySeconds.
const DefaultRetryDelaySeconds = 30

// MaxRetryDelaySeconds is the longest retry delay that fits the broker's
// signed 32-bit x-message-ttl.
const MaxRetryDelaySeconds = math.MaxInt32 / 1000

// DefaultExchangeName is the broker's nameless exchange, which routes a
// message directly to the queue named by its routing key.
const DefaultExchangeName = ""

// Suffixes appended to exchange and queue names for auxiliary entities
const (
	DeadLetterExchangeSuffix = ".dlx"
	DeadLetterQueueSuffix    = ".dlq"
	RetryExchangeSuffix      = ".retry"
	RetryQueueSuffix         = ".retry"
)

// Queue arguments set on declared queues
const (
	ArgDeadLetterExchange   = "x-dead-letter-exchange"
	ArgDeadLetterRoutingKey = "x-dead-letter-routing-key"
	ArgMessageTTL           = "x-message-ttl"
	ArgMatch                = "x-match"
)

// ExchangeDeclaration defines an exchange to be declared
type ExchangeDeclaration struct {
	Name       string     `yaml:"name"`
	Type       string     `yaml:"type"`
	Durable    bool       `yaml:"durable"`
	AutoDelete bool       `yaml:"autoDelete,omitempty"`
	Arguments  amqp.Table `yaml:"arguments,omitempty"`
}

// QueueDeclaration defines a queue to be declared
type QueueDeclaration struct {
	Name       string     `yaml:"name"`
	Durable    bool       `yaml:"durable"`
	AutoDelete bool       `yaml:"autoDelete,omitempty"`
	Exclusive  bool       `yaml:"exclusive,omitempty"`
	Arguments  amqp.Table `yaml:"arguments,omitempty"`
}

// Binding defines a queue-to-exchange binding
type Binding struct {
	Queue      string     `yaml:"queue"`
	Exchange   string     `yaml:"exchange"`
	RoutingKey string     `yaml:"routingKey"`
	Arguments  amqp.Table `yaml:"arguments,omitempty"`
}

// Topology is the complete set of declarations derived from queue settings,
// ordered so exchanges precede queues and queues precede bindings.
type Topology struct {
	Exchanges []ExchangeDeclaration `yaml:"exchanges"`
	Queues    []QueueDeclaration    `yaml:"queues"`
	Bindings  []Binding             `yaml:"bindings"`
}

// Plan validates s and derives the declarations needed on the broker.
// Validation errors are returned unchanged.
func Plan(s settings.QueueSettings) (*Topology, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}

	p := &planner{exchangeTypes: make(map[string]string)}
	for _, q := range s.Queues {
		if err := p.addQueue(resolveQueue(s, q), q); err != nil {
			return nil, err
		}
	}
	return &p.topology, nil
}

type planner struct {
	topology      Topology
	exchangeTypes map[string]string
}

func (p *planner) addExchange(queue, name, kind string) error {
	if existing, ok := p.exchangeTypes[name]; ok {
		if existing != kind {
			return newConfigError(queue, RuleExchangeConflict,
				"exchange %s is already declared as %s, cannot redeclare as %s", name, existing, kind)
		}
		return nil
	}
	p.exchangeTypes[name] = kind
	p.topology.Exchanges = append(p.topology.Exchanges, ExchangeDeclaration{
		Name:    name,
		Type:    kind,
		Durable: true,
	})
	return nil
}

func (p *planner) bind(queue, exchange, routingKey string, args amqp.Table) {
	p.topology.Bindings = append(p.topology.Bindings, Binding{
		Queue:      queue,
		Exchange:   exchange,
		RoutingKey: routingKey,
		Arguments:  args,
	})
}

func (p *planner) addQueue(r resolved, q settings.QueueDefinition) error {
	if err := p.addExchange(q.Name, r.exchange, r.exchangeType); err != nil {
		return err
	}

	main := QueueDeclaration{
		Name:    q.Name,
		Durable: q.IsDurable(),
	}

	if r.deadLetterEnabled {
		dlx := r.exchange + DeadLetterExchangeSuffix
		dlq := q.Name + DeadLetterQueueSuffix
		if err := p.addExchange(q.Name, dlx, r.deadLetterType); err != nil {
			return err
		}
		main.Arguments = amqp.Table{
			ArgDeadLetterExchange:   dlx,
			ArgDeadLetterRoutingKey: q.Name,
		}
		p.topology.Queues = append(p.topology.Queues, QueueDeclaration{Name: dlq, Durable: true})
		p.bind(dlq, dlx, q.Name, nil)

		if r.retryEnabled {
			if err := p.addRetry(r, q); err != nil {
				return err
			}
		}
	}

	p.topology.Queues = append(p.topology.Queues, main)
	p.addBindings(r, q)
	return nil
}

// addRetry declares a parking queue whose expired messages dead-letter
// through the default exchange, so they return only to the originating queue
// whatever the main exchange type.
func (p *planner) addRetry(r resolved, q settings.QueueDefinition) error {
	delay := q.RetryDelaySeconds
	if delay <= 0 {
		delay = DefaultRetryDelaySeconds
	}
	if delay > MaxRetryDelaySeconds {
		return newConfigError(q.Name, RuleRetryDelay,
			"retry delay %ds exceeds the maximum of %ds", delay, MaxRetryDelaySeconds)
	}

	retryExchange := r.exchange + RetryExchangeSuffix
	retryQueue := q.Name + RetryQueueSuffix
	if err := p.addExchange(q.Name, retryExchange, r.retryExchangeType); err != nil {
		return err
	}
	p.topology.Queues = append(p.topology.Queues, QueueDeclaration{
		Name:    retryQueue,
		Durable: true,
		Arguments: amqp.Table{
			ArgMessageTTL:           int32(delay * 1000),
			ArgDeadLetterExchange:   DefaultExchangeName,
			ArgDeadLetterRoutingKey: q.Name,
		},
	})
	p.bind(retryQueue, retryExchange, q.Name, nil)
	return nil
}

func (p *planner) addBindings(r resolved, q settings.QueueDefinition) {
	if len(q.Bindings) == 0 {
		switch r.exchangeType {
		case ExchangeDirect, ExchangeTopic:
			p.bind(q.Name, r.exchange, q.Name, nil)
		default:
			p.bind(q.Name, r.exchange, "", nil)
		}
		return
	}

	for _, b := range q.Bindings {
		var args amqp.Table
		if r.exchangeType == ExchangeHeaders {
			args = headersBindingArgs(b)
		}
		p.bind(q.Name, r.exchange, b.RoutingKey, args)
	}
}

func headersBindingArgs(b settings.Binding) amqp.Table {
	args := amqp.Table{ArgMatch: "all"}
	if b.MatchAny {
		args[ArgMatch] = "any"
	}
	for k, v := range b.Headers {
		args[k] = v
	}
	return args
}

// String summarizes the topology for logging
func (t *Topology) String() string {
	return fmt.Sprintf("topology(exchanges=%d, queues=%d, bindings=%d)",
		len(t.Exchanges), len(t.Queues), len(t.Bindings))
}
