// Package relaypulse wires envelope building, topology validation and
// declaration over a RabbitMQ channel.
//
// At startup Client.Provision validates the configured queues and declares
// the derived exchanges, queues and bindings; nothing is declared when the
// settings are invalid. Messages are then published with messaging.Publish on
// Client.Publisher.
package relaypulse
