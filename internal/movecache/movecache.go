// Package movecache memoizes legal-target lookups for the square under the
// pointer, so hover and selection bursts do not regenerate moves.
package movecache

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/hailam/chessboard/internal/board"
)

// DefaultTTL bounds the lifetime of an entry to one interaction burst.
const DefaultTTL = 2 * time.Second

// Source computes the legal targets of the piece on a square.
type Source func(sq board.Square) board.SquareSet

// Entry is one cached lookup.
type Entry struct {
	Square      board.Square
	Fingerprint string
	Targets     board.SquareSet
	ExpiresAt   time.Time
}

// Cache is a TTL cache keyed by (square, position fingerprint).
type Cache struct {
	store       *ristretto.Cache[string, Entry]
	ttl         time.Duration
	now         func() time.Time
	fingerprint string

	hits   atomic.Uint64
	misses atomic.Uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets the entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithClock replaces time.Now, for tests and frame-clock driven boards.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates an empty cache.
func New(opts ...Option) (*Cache, error) {
	c := &Cache{
		ttl: DefaultTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	store, err := ristretto.NewCache(&ristretto.Config[string, Entry]{
		NumCounters:        1 << 12,
		MaxCost:            1 << 12,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("movecache: %w", err)
	}
	c.store = store
	return c, nil
}

func key(sq board.Square, fingerprint string) string {
	return sq.String() + "|" + fingerprint
}

// LegalTargets returns the cached targets of sq in the position identified
// by fingerprint, computing them with src on a miss.
func (c *Cache) LegalTargets(sq board.Square, fingerprint string, src Source) board.SquareSet {
	now := c.now()
	k := key(sq, fingerprint)

	if e, ok := c.store.Get(k); ok && now.Before(e.ExpiresAt) && e.Fingerprint == fingerprint {
		c.hits.Add(1)
		return e.Targets
	}

	c.misses.Add(1)
	var targets board.SquareSet
	if src != nil {
		targets = src(sq)
	}

	c.store.SetWithTTL(k, Entry{
		Square:      sq,
		Fingerprint: fingerprint,
		Targets:     targets,
		ExpiresAt:   now.Add(c.ttl),
	}, 1, c.ttl)
	c.store.Wait()
	return targets
}

// Invalidate records a position write. Entries for any other fingerprint
// are dropped.
func (c *Cache) Invalidate(fingerprint string) {
	if fingerprint == c.fingerprint {
		return
	}
	c.fingerprint = fingerprint
	c.store.Clear()
}

// HitRate returns the cache hit rate as a percentage.
func (c *Cache) HitRate() float64 {
	hits, misses := c.hits.Load(), c.misses.Load()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// Stats returns the raw hit and miss counters.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Close releases the underlying store.
func (c *Cache) Close() {
	c.store.Close()
}
