// Package headers builds message header tables from prioritized entries.
package headers

import "sort"

// Tier orders header sources. Entries from a higher tier always replace
// entries with the same key from a lower tier, regardless of the order in
// which they were added.
type Tier int

const (
	// TierComputed holds headers derived from settings and message metadata
	TierComputed Tier = iota
	// TierCaller holds headers supplied explicitly on the message
	TierCaller
)

// Entry is a single header assignment
type Entry struct {
	Key   string
	Value interface{}
	Tier  Tier
}

// Set accumulates header entries. The zero value is ready to use.
type Set struct {
	entries []Entry
}

// Add appends an entry
func (s *Set) Add(tier Tier, key string, value interface{}) {
	s.entries = append(s.entries, Entry{Key: key, Value: value, Tier: tier})
}

// AddAll appends every pair of m under the given tier
func (s *Set) AddAll(tier Tier, m map[string]interface{}) {
	for k, v := range m {
		s.Add(tier, k, v)
	}
}

// Len returns the number of entries added so far
func (s *Set) Len() int {
	return len(s.entries)
}

// Fold resolves the entries into a fresh map. Within a tier the last entry for
// a key wins; across tiers the highest tier wins.
func (s *Set) Fold() map[string]interface{} {
	ordered := make([]Entry, len(s.entries))
	copy(ordered, s.entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Tier < ordered[j].Tier
	})

	out := make(map[string]interface{}, len(ordered))
	for _, e := range ordered {
		out[e.Key] = e.Value
	}
	return out
}
