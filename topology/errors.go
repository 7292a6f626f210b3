package topology

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is matched by every validation failure
	ErrInvalidConfiguration = errors.New("topology: invalid configuration")

	// ErrNoQueues is returned when the queue list is nil or empty
	ErrNoQueues = fmt.Errorf("%w: no queues configured", ErrInvalidConfiguration)
)

// Rule identifies which validation rule a queue violated
type Rule string

const (
	RuleExchangeName        Rule = "exchange-name"
	RuleExchangeType        Rule = "exchange-type"
	RuleExchangeTypeSupport Rule = "exchange-type-supported"
	RuleFanoutBindings      Rule = "fanout-bindings"
	RuleDeadLetterExchange  Rule = "dead-letter-exchange-type"
	RuleRetryExchange       Rule = "retry-exchange-type"
	RuleExchangeConflict    Rule = "exchange-type-conflict"
	RuleRetryDelay          Rule = "retry-delay"
)

// ConfigError describes a queue definition the broker would reject
type ConfigError struct {
	Queue  string // Offending queue
	Rule   Rule   // Violated rule
	Reason string // Human readable description
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("topology: invalid configuration for queue %q: %s", e.Queue, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}

func newConfigError(queue string, rule Rule, format string, args ...interface{}) *ConfigError {
	return &ConfigError{
		Queue:  queue,
		Rule:   rule,
		Reason: fmt.Sprintf(format, args...),
	}
}
