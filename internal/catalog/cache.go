// Package catalog maintains the in-memory snapshot of the panel's sellable
// services. It is the only caching layer in front of the provider gateway:
//
//   - Snapshot freshness is TTL-based (default 5m); a fresh, non-empty
//     snapshot is served without touching the network.
//   - Concurrent cache misses collapse into one remote fetch via
//     golang.org/x/sync/singleflight; followers wait and share the result.
//   - A refresh either fully replaces the snapshot or leaves it untouched.
//     Fetch failures propagate the error; the previous snapshot stays
//     available for diagnostics rather than being wiped.
//   - Lookups and keyword search run against the current snapshot with
//     Unicode case folding (the catalog is Indonesian-language text).
package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"

	"github.com/rezahp/go-smm-backend/internal/domain"
)

// ErrServiceNotFound reports a service id that is not in the current catalog.
var ErrServiceNotFound = errors.New("service not found in catalog")

// DefaultTTL is the snapshot lifetime when Cache.TTL is zero.
const DefaultTTL = 5 * time.Minute

// defaultSearchLimit caps Search results when the caller passes limit <= 0.
const defaultSearchLimit = 12

// Lister is the single provider capability the cache needs.
type Lister interface {
	ListServices(ctx context.Context) ([]domain.Service, error)
}

// Cache is a TTL-bound snapshot of the provider catalog. The zero value with
// Provider set is ready to use.
type Cache struct {
	Provider Lister
	TTL      time.Duration // snapshot lifetime; DefaultTTL when zero

	mu        sync.RWMutex
	services  []domain.Service
	byID      map[string]domain.Service
	fetchedAt time.Time

	group singleflight.Group
	now   func() time.Time // test seam; time.Now when nil
}

func (c *Cache) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

func (c *Cache) ttl() time.Duration {
	if c.TTL > 0 {
		return c.TTL
	}
	return DefaultTTL
}

// fresh returns the snapshot if it is non-empty and within TTL.
func (c *Cache) fresh() ([]domain.Service, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.services) == 0 {
		return nil, false
	}
	if c.clock().Sub(c.fetchedAt) >= c.ttl() {
		return nil, false
	}
	return c.copySnapshot(), true
}

// copySnapshot must be called with at least a read lock held.
func (c *Cache) copySnapshot() []domain.Service {
	out := make([]domain.Service, len(c.services))
	copy(out, c.services)
	return out
}

// Fetch returns the current catalog, refreshing it from the provider when
// the snapshot is missing, empty, or older than TTL, or when force is set.
// Concurrent refreshes collapse into a single provider call. On refresh
// failure the error is returned and the previous snapshot is left intact.
// The returned slice is a copy; callers may retain it.
func (c *Cache) Fetch(ctx context.Context, force bool) ([]domain.Service, error) {
	if !force {
		if snap, ok := c.fresh(); ok {
			return snap, nil
		}
	}

	v, err, _ := c.group.Do("services", func() (any, error) {
		// A follower queued behind a just-finished refresh should not pay
		// for another one.
		if !force {
			if snap, ok := c.fresh(); ok {
				return snap, nil
			}
		}

		services, err := c.Provider.ListServices(ctx)
		if err != nil {
			return nil, err
		}

		byID := make(map[string]domain.Service, len(services))
		for _, s := range services {
			// First occurrence wins: provider ids are not guaranteed unique.
			if _, seen := byID[s.ID]; !seen {
				byID[s.ID] = s
			}
		}

		c.mu.Lock()
		c.services = services
		c.byID = byID
		c.fetchedAt = c.clock()
		snap := c.copySnapshot()
		c.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Service), nil
}

// Resolve returns the catalog entry for serviceID, refreshing the snapshot
// first if it is stale. Unknown ids report ErrServiceNotFound.
func (c *Cache) Resolve(ctx context.Context, serviceID string) (*domain.Service, error) {
	if _, err := c.Fetch(ctx, false); err != nil {
		return nil, err
	}
	c.mu.RLock()
	svc, ok := c.byID[serviceID]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrServiceNotFound
	}
	return &svc, nil
}

// Search returns up to limit services whose name or category contains
// keyword under Unicode case folding. An empty keyword returns the head of
// the catalog. limit <= 0 means defaultSearchLimit.
func (c *Cache) Search(ctx context.Context, keyword string, limit int) ([]domain.Service, error) {
	services, err := c.Fetch(ctx, false)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	folder := cases.Fold()
	kw := folder.String(strings.TrimSpace(keyword))

	out := make([]domain.Service, 0, limit)
	for _, s := range services {
		if kw != "" &&
			!strings.Contains(folder.String(s.Name), kw) &&
			!strings.Contains(folder.String(s.Category), kw) {
			continue
		}
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// Snapshot exposes the current snapshot and its fetch time without touching
// the network. Used for cache-validator headers on the HTTP surface.
func (c *Cache) Snapshot() ([]domain.Service, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.copySnapshot(), c.fetchedAt
}
