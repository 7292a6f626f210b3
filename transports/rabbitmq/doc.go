// Package rabbitmq adapts relaypulse envelopes and topologies to an AMQP
// 0-9-1 channel from github.com/rabbitmq/amqp091-go.
//
// Publisher maps a contracts.Envelope onto amqp.Publishing properties.
// Declarer issues ExchangeDeclare, QueueDeclare and QueueBind calls for a
// topology.Topology. Opening, recovering and closing the connection and
// channel is left to the caller.
package rabbitmq
