package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current time to envelope builders
type Clock interface {
	Now() time.Time
}

// UniqueID generates message identifiers
type UniqueID interface {
	New() uuid.UUID
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns the current UTC time
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// UUIDGenerator produces random (version 4) UUIDs
type UUIDGenerator struct{}

// New returns a fresh UUID
func (UUIDGenerator) New() uuid.UUID {
	return uuid.New()
}

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

// Now calls f
func (f ClockFunc) Now() time.Time {
	return f()
}
