package reconcile

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/models"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/store"
)

// Snapshot is one scope's record-store state, read once at the start of a run
// and treated as immutable for the duration of that run.
type Snapshot struct {
	// Records indexes the scope's reservations by uid.
	Records map[string]*models.Reservation

	// Built is the timestamp when this snapshot was taken.
	Built time.Time

	// TTL is the time-to-live for this snapshot.
	TTL time.Duration
}

// IsExpired returns true if this snapshot has expired based on its TTL.
func (s *Snapshot) IsExpired() bool {
	if s.TTL == 0 {
		return true // No caching
	}
	return time.Since(s.Built) > s.TTL
}

// SnapshotCache caches scope snapshots for read-heavy callers (the HTTP API).
// It is an explicitly constructed instance, never package state, so separate
// environments can run concurrently without sharing anything. Batch runs
// should use TTL zero and always read fresh.
type SnapshotCache struct {
	records store.RecordStore
	ttl     time.Duration

	mu        sync.RWMutex
	snapshots map[string]*Snapshot
	sf        singleflight.Group
}

// NewSnapshotCache creates a cache over the given record store.
func NewSnapshotCache(records store.RecordStore, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		records:   records,
		ttl:       ttl,
		snapshots: make(map[string]*Snapshot),
	}
}

// Take builds a fresh snapshot for the scope, bypassing the cache.
func Take(ctx context.Context, records store.RecordStore, scope models.Scope) (*Snapshot, error) {
	listing, err := records.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("reconcile: snapshot %s: %w", scope.Source, err)
	}
	indexed, err := store.SnapshotOf(listing)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Records: indexed, Built: time.Now()}, nil
}

// Get returns a cached snapshot for the scope, or builds one if missing or
// expired. Singleflight collapses concurrent builds for the same scope.
func (c *SnapshotCache) Get(ctx context.Context, scope models.Scope) (*Snapshot, error) {
	key := scopeKey(scope)

	c.mu.RLock()
	snap, exists := c.snapshots[key]
	c.mu.RUnlock()

	if exists && !snap.IsExpired() {
		return snap, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		snap, exists := c.snapshots[key]
		c.mu.RUnlock()

		if exists && !snap.IsExpired() {
			return snap, nil
		}

		fresh, err := Take(ctx, c.records, scope)
		if err != nil {
			return nil, err
		}
		fresh.TTL = c.ttl

		c.mu.Lock()
		c.snapshots[key] = fresh
		c.mu.Unlock()

		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Snapshot), nil
}

// Invalidate drops the cached snapshot for a scope, forcing a rebuild. Runs
// call this after applying writes so readers do not see pre-run state.
func (c *SnapshotCache) Invalidate(scope models.Scope) {
	c.mu.Lock()
	delete(c.snapshots, scopeKey(scope))
	c.mu.Unlock()
}

func scopeKey(scope models.Scope) string {
	return string(scope.Source) + "|" + strings.Join(scope.PropertyIDs, ",")
}
