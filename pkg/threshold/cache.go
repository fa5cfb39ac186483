// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package threshold holds the in-memory table of numeric eligibility
// limits extracted from the manual corpus at startup. Nothing on the
// eligibility-decision path ever hard-codes a numeric limit; every
// number traces back to an Entry in a Cache.
package threshold

import (
	"strings"
	"sync"
)

// Entry is one extracted numeric limit.
type Entry struct {
	Amount    float64
	Formatted string
	Source    string
}

// Cache is a read-mostly map from normalized threshold name to Entry.
// It is populated once at startup by Bootstrap and is safe for
// concurrent readers thereafter.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]Entry)}
}

// Lookup returns the entry for name, normalizing name first.
func (c *Cache) Lookup(name string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[Normalize(name)]
	return e, ok
}

// Set inserts or overwrites the entry for name.
func (c *Cache) Set(name string, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[Normalize(name)] = entry
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Snapshot returns a copy of the current entries, keyed by normalized name.
func (c *Cache) Snapshot() map[string]Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]Entry, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

// LoadSnapshot replaces the cache contents with a previously saved
// snapshot, used to serve needs_lookup-free answers immediately after a
// restart while the authoritative Bootstrap rebuild runs.
func (c *Cache) LoadSnapshot(snapshot map[string]Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Entry, len(snapshot))
	for k, v := range snapshot {
		c.entries[k] = v
	}
}

// Normalize converts a threshold name to lowercase snake_case, collapsing
// any run of non-alphanumeric characters into a single underscore.
func Normalize(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))

	var b strings.Builder
	lastWasUnderscore := true // suppress a leading underscore
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastWasUnderscore = false
			continue
		}
		if !lastWasUnderscore {
			b.WriteByte('_')
			lastWasUnderscore = true
		}
	}

	return strings.TrimSuffix(b.String(), "_")
}
