// Package contracts provides the message and envelope types exchanged between
// relaypulse publishers and the broker transport.
//
//   - Message: a typed outbound payload plus optional metadata and headers
//   - Envelope: the resolved wire-level metadata for one publish
//
// The header constants in this package are a fixed contract with consumers
// written against other relaypulse implementations.
package contracts
