package settings

// QueueSettings describes the queues a subscriber needs and library-wide
// exchange defaults.
type QueueSettings struct {
	DefaultExchange               string `yaml:"defaultExchange"`
	DefaultExchangeType           string `yaml:"defaultExchangeType"`
	DefaultDeadLetterExchangeType string `yaml:"defaultDeadLetterExchangeType"`
	DefaultRetryExchangeType      string `yaml:"defaultRetryExchangeType"`

	Queues []QueueDefinition `yaml:"queues"`
}

// QueueDefinition describes a single queue and how it is bound
type QueueDefinition struct {
	Name         string    `yaml:"name"`
	Exchange     string    `yaml:"exchange"`
	ExchangeType string    `yaml:"exchangeType"`
	Bindings     []Binding `yaml:"bindings"`

	DeadLetterDisabled     bool   `yaml:"deadLetterDisabled"`
	DeadLetterExchangeType string `yaml:"deadLetterExchangeType"`

	RetryDisabled     bool   `yaml:"retryDisabled"`
	RetryExchangeType string `yaml:"retryExchangeType"`
	RetryDelaySeconds int    `yaml:"retryDelaySeconds"`

	// Durable defaults to true when unset
	Durable       *bool `yaml:"durable"`
	PrefetchCount int   `yaml:"prefetchCount"`
}

// Binding routes messages from the queue's exchange to the queue. Headers and
// MatchAny only apply to headers exchanges.
type Binding struct {
	RoutingKey string                 `yaml:"routingKey"`
	Headers    map[string]interface{} `yaml:"headers"`
	MatchAny   bool                   `yaml:"matchAny"`
}

// IsDurable reports whether the queue should survive a broker restart
func (q QueueDefinition) IsDurable() bool {
	return q.Durable == nil || *q.Durable
}
