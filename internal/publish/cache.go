// internal/publish/cache.go
//
// In-memory cache of live deployments for the public serving path.
//
// Context
// -------
// Every public request needs the site's live snapshot.  Deployments are
// immutable, so the cached copy only goes stale when a new one is promoted;
// Publish calls Invalidate on success, and a short TTL covers promotions
// made by other processes.  Loads collapse through singleflight so a cold
// popular site costs one query, not one per concurrent visitor.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package publish

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yanizio/stanza/internal/metrics"
)

// Static defaults.  Override through the serve config section.
const (
	LiveTTL       = 5 * time.Minute
	MaxEntries    = 1000
	EvictInterval = time.Minute
)

type liveEntry struct {
	dep      *Deployment
	loadedAt time.Time
	lastSeen int64 // UnixNano
}

// LiveCache caches live deployments keyed by site ID.
type LiveCache struct {
	pipeline    *Pipeline
	sfg         singleflight.Group
	m           sync.Map // uint64 → *liveEntry
	evictTicker *time.Ticker
	ttl         time.Duration
	maxEntries  int
}

// NewLiveCache constructs a LiveCache and starts the background evictor.
func NewLiveCache(pipeline *Pipeline, ttl time.Duration, maxEntries int) *LiveCache {
	if ttl <= 0 {
		ttl = LiveTTL
	}
	if maxEntries <= 0 {
		maxEntries = MaxEntries
	}
	c := &LiveCache{
		pipeline:   pipeline,
		ttl:        ttl,
		maxEntries: maxEntries,
	}
	c.evictTicker = time.NewTicker(EvictInterval)
	go c.evictLoop()
	return c
}

// Get returns the site's live deployment, loading it on demand.  A site
// with no live deployment returns ErrNoLiveDeployment; that result is not
// cached, so the first request after a site's first publish sees it.
func (c *LiveCache) Get(ctx context.Context, siteID uint64) (*Deployment, error) {
	if v, ok := c.m.Load(siteID); ok {
		ent := v.(*liveEntry)
		if time.Since(ent.loadedAt) < c.ttl {
			atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
			metrics.LiveCacheHits.Inc()
			return ent.dep, nil
		}
		c.m.Delete(siteID)
		metrics.LiveSites.Dec()
	}

	metrics.LiveCacheMisses.Inc()
	v, err, _ := c.sfg.Do(keyFor(siteID), func() (any, error) {
		// Double-check after singleflight barrier.
		if v, ok := c.m.Load(siteID); ok {
			ent := v.(*liveEntry)
			if time.Since(ent.loadedAt) < c.ttl {
				atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
				return ent.dep, nil
			}
		}
		dep, err := c.pipeline.Live(ctx, siteID)
		if err != nil {
			return nil, err
		}
		now := time.Now()
		c.m.Store(siteID, &liveEntry{
			dep:      dep,
			loadedAt: now,
			lastSeen: now.UnixNano(),
		})
		metrics.LiveSites.Inc()
		return dep, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Deployment), nil
}

// Invalidate drops the site's entry so the next request reloads.  Called
// after a successful publish.
func (c *LiveCache) Invalidate(siteID uint64) {
	if _, ok := c.m.LoadAndDelete(siteID); ok {
		metrics.LiveSites.Dec()
	}
}

// Close stops the background evictor.
func (c *LiveCache) Close() {
	c.evictTicker.Stop()
}

func (c *LiveCache) evictLoop() {
	for range c.evictTicker.C {
		now := time.Now()
		var count int

		c.m.Range(func(key, value any) bool {
			count++
			ent := value.(*liveEntry)
			if now.Sub(ent.loadedAt) > c.ttl {
				c.m.Delete(key)
				metrics.LiveSites.Dec()
				count--
			}
			return true
		})

		if count > c.maxEntries {
			type kv struct {
				key uint64
				at  int64
			}
			var all []kv
			c.m.Range(func(key, value any) bool {
				ent := value.(*liveEntry)
				all = append(all, kv{key: key.(uint64), at: atomic.LoadInt64(&ent.lastSeen)})
				return true
			})
			sort.Slice(all, func(i, j int) bool { return all[i].at < all[j].at })
			for i := 0; i < len(all)-c.maxEntries; i++ {
				if _, ok := c.m.LoadAndDelete(all[i].key); ok {
					metrics.LiveSites.Dec()
				}
			}
		}
	}
}

func keyFor(siteID uint64) string {
	return strconv.FormatUint(siteID, 10)
}
