// Package topology validates declarative queue settings before anything is
// declared on the broker, and derives the exchanges, queues and bindings the
// settings describe.
//
// Validation is fail-fast: Validate returns the first violation as a
// *ConfigError naming the queue and the rule it broke. Every validation error
// matches ErrInvalidConfiguration with errors.Is.
package topology
