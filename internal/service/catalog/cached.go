// Package catalog provides the symbol catalog port backed by the engine,
// with a cache in front so repeated lookups do not hit the rate-limited
// remote service.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	svccache "BackScan/internal/service/cache"

	"BackScan/internal/domain/models"
	drepo "BackScan/internal/domain/repository"
)

const cacheKey = "catalog:symbols"

// Cached wraps a Catalog with a TTL byte cache. A cache failure is treated
// as a miss, never as a catalog failure.
type Cached struct {
	inner drepo.Catalog
	cache svccache.BytesCache
	ttl   time.Duration
}

// NewCached builds the caching decorator. ttl <= 0 disables caching.
func NewCached(inner drepo.Catalog, cache svccache.BytesCache, ttl time.Duration) *Cached {
	return &Cached{inner: inner, cache: cache, ttl: ttl}
}

// Symbols returns the catalog, sorted alphabetically by symbol, serving from
// cache when a fresh entry exists.
func (c *Cached) Symbols(ctx context.Context) ([]models.SymbolInfo, error) {
	if c.cache != nil && c.ttl > 0 {
		if b, ok, err := c.cache.GetBytes(cacheKey); err == nil && ok {
			var cached []models.SymbolInfo
			if err := json.Unmarshal(b, &cached); err == nil {
				return cached, nil
			}
		}
	}

	infos, err := c.inner.Symbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch symbols: %w", err)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Symbol < infos[j].Symbol })

	if c.cache != nil && c.ttl > 0 {
		if b, err := json.Marshal(infos); err == nil {
			_ = c.cache.SetBytes(cacheKey, b, c.ttl)
		}
	}
	return infos, nil
}

var _ drepo.Catalog = (*Cached)(nil)
