// Package resolve implements "first present wins" resolution for layered
// configuration: per-call override, then per-publisher default, then library
// default.
package resolve

import "strings"

// Optional holds a value that may be absent
type Optional[T any] struct {
	value T
	ok    bool
}

// Some returns a present value
func Some[T any](value T) Optional[T] {
	return Optional[T]{value: value, ok: true}
}

// None returns an absent value
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// NonEmpty is present only when s contains something other than whitespace
func NonEmpty(s string) Optional[string] {
	if IsBlank(s) {
		return None[string]()
	}
	return Some(s)
}

// Get returns the value and whether it is present
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsPresent reports whether a value is held
func (o Optional[T]) IsPresent() bool {
	return o.ok
}

// OrElse returns the held value, or fallback when absent
func (o Optional[T]) OrElse(fallback T) T {
	if o.ok {
		return o.value
	}
	return fallback
}

// First returns the leftmost present candidate, or None when every candidate
// is absent.
func First[T any](candidates ...Optional[T]) Optional[T] {
	for _, c := range candidates {
		if c.ok {
			return c
		}
	}
	return None[T]()
}

// FirstNonEmpty returns the leftmost value that is not blank, or "" when all
// of them are.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if !IsBlank(v) {
			return v
		}
	}
	return ""
}

// IsBlank reports whether s is empty or whitespace only
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
