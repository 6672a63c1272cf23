package service

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/reshetovitsme/keyword-monitor/internal/modules/message/domain"
	"github.com/samber/oops"
)

const (
	DefaultDedupTTL      = 24 * time.Hour
	DefaultDedupCapacity = 1_000_000
)

// DuplicateGuard remembers message keys for a sliding window so that a
// message delivered more than once is processed only once.
//
// Keys are never refreshed after insertion, so the LRU list doubles as an
// insertion-ordered expiry queue: purging from the oldest end stops at the
// first live entry.
type DuplicateGuard struct {
	mu    sync.Mutex
	seen  *simplelru.LRU[domain.MessageKey, time.Time]
	ttl   time.Duration
	clock func() time.Time
}

// GuardOption configures a DuplicateGuard.
type GuardOption func(*DuplicateGuard)

// WithClock replaces the wall clock, used by tests.
func WithClock(clock func() time.Time) GuardOption {
	return func(g *DuplicateGuard) {
		g.clock = clock
	}
}

// NewDuplicateGuard creates a guard. Non-positive ttl or capacity fall back to defaults.
func NewDuplicateGuard(ttl time.Duration, capacity int, opts ...GuardOption) (*DuplicateGuard, error) {
	if ttl <= 0 {
		ttl = DefaultDedupTTL
	}
	if capacity <= 0 {
		capacity = DefaultDedupCapacity
	}

	seen, err := simplelru.NewLRU[domain.MessageKey, time.Time](capacity, nil)
	if err != nil {
		return nil, oops.With("capacity", capacity, "context", "failed to create dedup index").Wrap(err)
	}

	g := &DuplicateGuard{
		seen:  seen,
		ttl:   ttl,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Observe returns true the first time key is seen within the window and
// false for every repeat. Check and insert happen under one lock.
func (g *DuplicateGuard) Observe(key domain.MessageKey) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock()
	g.purge(now)

	// Contains does not touch recency, which keeps the list insertion-ordered.
	if g.seen.Contains(key) {
		return false
	}
	g.seen.Add(key, now)
	return true
}

// Len returns the number of keys currently remembered.
func (g *DuplicateGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seen.Len()
}

func (g *DuplicateGuard) purge(now time.Time) {
	for {
		_, ts, ok := g.seen.GetOldest()
		if !ok || now.Sub(ts) <= g.ttl {
			return
		}
		g.seen.RemoveOldest()
	}
}
