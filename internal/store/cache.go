package store

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"commitforge/internal/models"
)

type cacheEntry struct {
	analysis *models.DiffAnalysis
	expires  time.Time
}

// AnalysisCache deduplicates analysis work per diff fingerprint. At most one
// computation per fingerprint is in flight; concurrent callers join it.
// Results are held for their TTL before recomputation is allowed. A failed
// computation propagates the error to every waiter and caches nothing.
type AnalysisCache struct {
	group singleflight.Group

	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func NewAnalysisCache() *AnalysisCache {
	return &AnalysisCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// GetOrCompute returns the cached analysis for fingerprint when fresh,
// otherwise runs compute exactly once for all concurrent callers.
func (c *AnalysisCache) GetOrCompute(ctx context.Context, fingerprint string, ttl time.Duration, compute func(ctx context.Context) (*models.DiffAnalysis, error)) (*models.DiffAnalysis, error) {
	if analysis, ok := c.lookup(fingerprint); ok {
		return analysis, nil
	}

	v, err, _ := c.group.Do(fingerprint, func() (interface{}, error) {
		// A racing caller may have stored a result between our lookup and
		// acquiring the flight.
		if analysis, ok := c.lookup(fingerprint); ok {
			return analysis, nil
		}
		// The flight is shared: joiners must not inherit the first caller's
		// cancellation, so compute runs detached from it.
		analysis, err := compute(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.store(fingerprint, analysis, ttl)
		return analysis, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.DiffAnalysis), nil
}

// Invalidate drops the cached entry for fingerprint, if any.
func (c *AnalysisCache) Invalidate(fingerprint string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, fingerprint)
}

func (c *AnalysisCache) lookup(fingerprint string) (*models.DiffAnalysis, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[fingerprint]
	if !ok || c.now().After(entry.expires) {
		return nil, false
	}
	return entry.analysis, true
}

func (c *AnalysisCache) store(fingerprint string, analysis *models.DiffAnalysis, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fingerprint] = cacheEntry{
		analysis: analysis,
		expires:  c.now().Add(ttl),
	}
}
