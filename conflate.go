// Package conflate aggregates configuration fragments from an ordered list
// of providers into a single published mapping, merging them under a
// first-write-wins policy: earlier sources pin scalar values, mappings are
// deep-extended, and sequences concatenate.
//
// The published aggregate is immutable. Readers receive deep clones, and
// every successful Load or Append swaps in a brand-new value with a fresh
// snapshot ID, so values handed out earlier stay frozen snapshots of the
// state they were read from.
package conflate

import (
	"sync"

	"github.com/google/uuid"

	"github.com/confkit/go-conflate/merge"
)

// Config owns a published aggregate and the event registry bound to it.
// Construct with New; the zero value is not usable.
type Config struct {
	mu         sync.RWMutex
	value      map[string]any
	snapshotID string

	listeners listenerSet
	cfg       config
}

// New constructs a Config. A seed supplied through WithValue must be a
// non-nil mapping and is deep-cloned, so later mutations by the caller never
// reach the aggregate. Without a seed the aggregate starts empty.
func New(opts ...Option) (*Config, error) {
	cfg := applyOptions(opts)
	if cfg.seedSet && cfg.seed == nil {
		return nil, ErrInvalidValue
	}
	return &Config{
		value:      merge.CloneMap(cfg.seed),
		snapshotID: uuid.NewString(),
		cfg:        cfg,
	}, nil
}

// Value returns a deep clone of the published aggregate. Mutating the result
// has no effect on the store or on values returned by other calls.
func (c *Config) Value() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return merge.CloneMap(c.value)
}

// SnapshotID identifies the currently published aggregate. Every commit
// assigns a new ID.
func (c *Config) SnapshotID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotID
}

// Append merges one or more mappings into the aggregate in order, honoring
// first-write-wins against already-present keys, and publishes the result
// before returning. At least one value is required. Each value is cloned
// before merging, so the aggregate never aliases caller-owned data.
func (c *Config) Append(values ...map[string]any) error {
	if len(values) == 0 {
		return ErrNoValues
	}
	next, _ := c.snapshot()
	for _, value := range values {
		merge.Merge(next, merge.CloneMap(value))
	}
	id := c.commit(next)
	c.logger().Log(LogEvent{Op: "append.commit", Snapshot: id})
	return nil
}

// snapshot returns an owned clone of the published aggregate together with
// its snapshot ID.
func (c *Config) snapshot() (map[string]any, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return merge.CloneMap(c.value), c.snapshotID
}

// commit publishes value as the new aggregate. This is the only mutation
// path. Commits from racing Load/Append calls land in arrival order; the
// last one wins.
func (c *Config) commit(value map[string]any) string {
	id := uuid.NewString()
	c.mu.Lock()
	c.value = value
	c.snapshotID = id
	c.mu.Unlock()
	return id
}
