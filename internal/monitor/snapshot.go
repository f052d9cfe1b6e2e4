package monitor

import (
	"encoding/json"

	"github.com/rileyhilliard/vantasys/internal/api"
)

// SnapshotCache keeps the raw body of the last successful fetch per kind.
// Entries are replaced wholesale, never merged.
type SnapshotCache struct {
	entries map[api.Kind]json.RawMessage
}

// NewSnapshotCache creates an empty cache.
func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{entries: make(map[api.Kind]json.RawMessage)}
}

// Put stores raw as the latest snapshot for kind.
func (c *SnapshotCache) Put(kind api.Kind, raw json.RawMessage) {
	buf := make(json.RawMessage, len(raw))
	copy(buf, raw)
	c.entries[kind] = buf
}

// Get returns the latest snapshot for kind, if any.
func (c *SnapshotCache) Get(kind api.Kind) (json.RawMessage, bool) {
	raw, ok := c.entries[kind]
	return raw, ok
}

// Len returns how many kinds have a snapshot.
func (c *SnapshotCache) Len() int {
	return len(c.entries)
}
