// Package settings holds the read-only configuration consumed by the envelope
// builder and the topology validator, and loads it from YAML files and
// environment variables.
package settings
