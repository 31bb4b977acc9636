/*
Package snapshot owns the data-fetch side of the reporting system.

PURPOSE:
  The reporting engine is a pure function over an immutable, fully
  fetched snapshot of cases and adjustments. This package supplies that
  snapshot: a Provider abstraction over the persistence layer, a
  short-TTL cache in front of it, and a scheduled background refresher.

KEY CONCEPTS:
  - Provider:  fetches the full current record sets; transient I/O
               failures propagate to the caller untouched
  - Cache:     get/set/invalidate with a fixed expiry window; every
               write path invalidates explicitly
  - Refresher: cron-driven full refresh; an incoming snapshot simply
               replaces the previous one (last-write-wins, overlapping
               refreshes are tolerated)

FAILURE POLICY:
  Fetch failures are hard failures. The cache does not mask them: Get
  returns the error, and the caller decides whether to fall back to the
  previous snapshot via Stale().

SEE ALSO:
  - store/sqlite: The production Provider
  - report/: The engine consuming snapshots
*/
package snapshot

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/warp/caseflow/cases"
)

// =============================================================================
// PROVIDER - The persistence collaborator
// =============================================================================

// Provider fetches full current record sets from the persistence layer.
type Provider interface {
	// FetchCases returns the full case snapshot.
	FetchCases(ctx context.Context) ([]cases.Record, error)

	// FetchAdjustments returns all billing adjustments.
	FetchAdjustments(ctx context.Context) ([]cases.Adjustment, error)
}

// Snapshot is one immutable fetch result. Consumers never mutate it;
// a refresh builds a new one and swaps the pointer.
type Snapshot struct {
	Cases       []cases.Record
	Adjustments []cases.Adjustment
	FetchedAt   time.Time
}

// =============================================================================
// CACHE - Short-TTL memo in front of the provider
// =============================================================================

// Cache memoizes the latest snapshot for a fixed expiry window.
type Cache struct {
	provider Provider
	ttl      time.Duration

	mu      sync.RWMutex
	current *Snapshot

	// now is injectable for tests.
	now func() time.Time
}

// DefaultTTL is the cache expiry window when none is configured.
const DefaultTTL = 60 * time.Second

// NewCache creates a cache over the provider. A non-positive ttl falls
// back to DefaultTTL.
func NewCache(provider Provider, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{provider: provider, ttl: ttl, now: time.Now}
}

// Get returns a fresh snapshot, fetching through the provider when the
// cached one has expired. A fetch failure is returned as-is; the
// previous snapshot, if any, remains available through Stale.
func (c *Cache) Get(ctx context.Context) (*Snapshot, error) {
	c.mu.RLock()
	current := c.current
	c.mu.RUnlock()

	if current != nil && c.now().Sub(current.FetchedAt) < c.ttl {
		return current, nil
	}
	return c.Refresh(ctx)
}

// Refresh fetches unconditionally and replaces the cached snapshot.
// Last write wins; concurrent refreshes are allowed and harmless.
func (c *Cache) Refresh(ctx context.Context) (*Snapshot, error) {
	records, err := c.provider.FetchCases(ctx)
	if err != nil {
		return nil, err
	}
	adjustments, err := c.provider.FetchAdjustments(ctx)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{Cases: records, Adjustments: adjustments, FetchedAt: c.now()}

	c.mu.Lock()
	c.current = snap
	c.mu.Unlock()
	return snap, nil
}

// Invalidate drops the cached snapshot. Called on every write so the
// next read observes its own write.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}

// Stale returns the last fetched snapshot regardless of age, or nil.
func (c *Cache) Stale() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// =============================================================================
// REFRESHER - Scheduled background refresh
// =============================================================================

// Refresher re-fetches the snapshot on a cron schedule so interactive
// reads rarely pay fetch latency.
type Refresher struct {
	cache    *Cache
	schedule string
	cron     *cron.Cron
}

// DefaultSchedule refreshes every five minutes.
const DefaultSchedule = "@every 5m"

// NewRefresher creates a refresher on the given cron schedule
// (e.g. "@every 5m"). Empty schedule uses DefaultSchedule.
func NewRefresher(cache *Cache, schedule string) *Refresher {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return &Refresher{cache: cache, schedule: schedule}
}

// Start begins scheduled refreshing. Invalid schedules are reported
// immediately rather than at first tick.
func (r *Refresher) Start() error {
	c := cron.New()
	_, err := c.AddFunc(r.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := r.cache.Refresh(ctx); err != nil {
			log.Printf("[Refresher] Snapshot refresh failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	r.cron = c
	c.Start()
	log.Printf("[Refresher] Started with schedule %q", r.schedule)
	return nil
}

// Stop halts scheduled refreshing. Safe to call when never started.
func (r *Refresher) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}
