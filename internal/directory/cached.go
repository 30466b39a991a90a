package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/zjrosen/taglet/internal/cachemanager"
	"github.com/zjrosen/taglet/internal/log"
)

// Cache TTLs are short: the directory changes rarely but the watcher
// flushes on every database write anyway.
const (
	searchTTL = 30 * time.Second
	lookupTTL = 5 * time.Minute
)

type searchInput struct {
	trigger rune
	query   string
}

type lookupInput struct {
	trigger rune
	id      string
}

// Cached decorates a Provider with read-through caching so that repeated
// keystrokes and re-renders do not hit the backing store.
type Cached struct {
	inner    Provider
	searches *cachemanager.ReadThroughCache[string, []Candidate, searchInput]
	lookups  *cachemanager.ReadThroughCache[string, Candidate, lookupInput]
	manager  *cachemanager.InMemoryCacheManager[string, []Candidate]
	idCache  *cachemanager.InMemoryCacheManager[string, Candidate]
}

// NewCached wraps inner with caching. Set skipCache to bypass the cache
// entirely while keeping the same wiring.
func NewCached(inner Provider, skipCache bool) *Cached {
	searchManager := cachemanager.NewInMemoryCacheManager[string, []Candidate](
		"directory-search", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	lookupManager := cachemanager.NewInMemoryCacheManager[string, Candidate](
		"directory-lookup", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)

	return &Cached{
		inner: inner,
		searches: cachemanager.NewReadThroughCache[string, []Candidate, searchInput](
			searchManager,
			func(ctx context.Context, in searchInput) ([]Candidate, error) {
				return inner.Search(ctx, in.trigger, in.query)
			},
			skipCache,
		),
		lookups: cachemanager.NewReadThroughCache[string, Candidate, lookupInput](
			lookupManager,
			func(ctx context.Context, in lookupInput) (Candidate, error) {
				return inner.Lookup(ctx, in.trigger, in.id)
			},
			skipCache,
		),
		manager: searchManager,
		idCache: lookupManager,
	}
}

// Search resolves through the cache.
func (c *Cached) Search(ctx context.Context, trigger rune, query string) ([]Candidate, error) {
	key := fmt.Sprintf("search:%c:%s", trigger, query)
	return c.searches.Get(ctx, key, searchInput{trigger: trigger, query: query}, searchTTL)
}

// Lookup resolves through the cache.
func (c *Cached) Lookup(ctx context.Context, trigger rune, id string) (Candidate, error) {
	key := fmt.Sprintf("lookup:%c:%s", trigger, id)
	return c.lookups.Get(ctx, key, lookupInput{trigger: trigger, id: id}, lookupTTL)
}

// Invalidate drops every cached entry. Called when the watcher sees the
// directory database change.
func (c *Cached) Invalidate(ctx context.Context) {
	if err := c.manager.Flush(ctx); err != nil {
		log.ErrorErr(log.CatCache, "failed to flush search cache", err)
	}
	if err := c.idCache.Flush(ctx); err != nil {
		log.ErrorErr(log.CatCache, "failed to flush lookup cache", err)
	}
	log.Debug(log.CatCache, "directory cache invalidated")
}
