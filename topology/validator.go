package topology

import (
	"github.com/relaypulse/relaypulse-go/internal/resolve"
	"github.com/relaypulse/relaypulse-go/settings"
)

// resolved holds the effective exchange configuration of one queue after
// falling back to library defaults.
type resolved struct {
	exchange          string
	exchangeType      string
	deadLetterType    string
	retryExchangeType string
	deadLetterEnabled bool
	retryEnabled      bool
}

func resolveQueue(s settings.QueueSettings, q settings.QueueDefinition) resolved {
	r := resolved{
		exchange:          resolve.FirstNonEmpty(q.Exchange, s.DefaultExchange),
		exchangeType:      resolve.FirstNonEmpty(q.ExchangeType, s.DefaultExchangeType),
		deadLetterEnabled: !q.DeadLetterDisabled,
	}
	if r.deadLetterEnabled {
		r.deadLetterType = resolve.FirstNonEmpty(q.DeadLetterExchangeType, s.DefaultDeadLetterExchangeType, ExchangeDirect)
		// Retry routing hangs off the dead-letter exchange, so it is only
		// considered while dead-lettering is on.
		r.retryEnabled = !q.RetryDisabled
		if r.retryEnabled {
			r.retryExchangeType = resolve.FirstNonEmpty(q.RetryExchangeType, s.DefaultRetryExchangeType, ExchangeDirect)
		}
	}
	return r
}

// Validate checks that every queue in s can be declared on the broker. Queues
// are checked in order and the first violation is returned as a *ConfigError;
// later queues are not inspected. A nil or empty queue list returns
// ErrNoQueues.
func Validate(s settings.QueueSettings) error {
	if len(s.Queues) == 0 {
		return ErrNoQueues
	}

	for _, q := range s.Queues {
		if err := checkQueue(s, q); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAll reports the first violation of every invalid queue, in queue
// order. It returns nil when the settings are valid.
func ValidateAll(s settings.QueueSettings) []error {
	if len(s.Queues) == 0 {
		return []error{ErrNoQueues}
	}

	var errs []error
	for _, q := range s.Queues {
		if err := checkQueue(s, q); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// checkQueue applies the per-queue rules in a fixed order and stops at the
// first one that fails.
func checkQueue(s settings.QueueSettings, q settings.QueueDefinition) *ConfigError {
	r := resolveQueue(s, q)

	if r.exchange == "" {
		return newConfigError(q.Name, RuleExchangeName,
			"exchange name cannot be empty, provide an exchange name for queue %s", q.Name)
	}

	if r.exchangeType == "" {
		return newConfigError(q.Name, RuleExchangeType,
			"exchange type cannot be empty, provide an exchange type for queue %s", q.Name)
	}

	if !IsSupportedExchangeType(r.exchangeType) {
		return newConfigError(q.Name, RuleExchangeTypeSupport,
			"exchange type %q is not valid, supported values are %s", r.exchangeType, supportedList())
	}

	if r.exchangeType == ExchangeFanout && len(q.Bindings) > 0 {
		return newConfigError(q.Name, RuleFanoutBindings,
			"bindings not supported for exchange type %s", r.exchangeType)
	}

	if !r.deadLetterEnabled {
		return nil
	}

	if !isRoutedExchangeType(r.deadLetterType) {
		return newConfigError(q.Name, RuleDeadLetterExchange,
			"only direct or topic is supported for dead letter exchange type, got %q", r.deadLetterType)
	}

	if r.retryEnabled && !isRoutedExchangeType(r.retryExchangeType) {
		return newConfigError(q.Name, RuleRetryExchange,
			"only direct or topic is supported for retry exchange type, got %q", r.retryExchangeType)
	}

	return nil
}
