package topology

import (
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange types the broker supports
const (
	ExchangeFanout  = amqp.ExchangeFanout
	ExchangeDirect  = amqp.ExchangeDirect
	ExchangeTopic   = amqp.ExchangeTopic
	ExchangeHeaders = amqp.ExchangeHeaders
)

var supportedExchangeTypes = []string{
	ExchangeFanout,
	ExchangeDirect,
	ExchangeTopic,
	ExchangeHeaders,
}

// SupportedExchangeTypes returns the exchange type names accepted for main
// exchanges, in canonical order.
func SupportedExchangeTypes() []string {
	out := make([]string, len(supportedExchangeTypes))
	copy(out, supportedExchangeTypes)
	return out
}

// IsSupportedExchangeType reports whether kind exactly matches a canonical
// exchange type name. Matching is case sensitive.
func IsSupportedExchangeType(kind string) bool {
	for _, s := range supportedExchangeTypes {
		if s == kind {
			return true
		}
	}
	return false
}

// isRoutedExchangeType reports whether kind may back a dead-letter or retry
// exchange. Those exchanges route by the queue name, so only direct and topic
// qualify.
func isRoutedExchangeType(kind string) bool {
	return kind == ExchangeDirect || kind == ExchangeTopic
}

func supportedList() string {
	return strings.Join(supportedExchangeTypes, ", ")
}
