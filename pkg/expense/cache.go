package expense

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/vmkteam/embedlog"
	"golang.org/x/sync/singleflight"
)

// DefaultCategoryTTL is how long a fetched category list is served without a remote call.
const DefaultCategoryTTL = 5 * time.Minute

var ErrCategoryCreationFailed = errors.New("expense: category creation failed")

// CategoryCache keeps a time-boxed copy of the remote category list.
//
// Reads go through to the store when the copy is stale. Successful category
// creation is written through, so the next List within TTL needs no fetch.
type CategoryCache struct {
	store CategoryStore
	log   embedlog.Logger
	ttl   time.Duration
	now   func() time.Time

	mu        sync.RWMutex
	names     []string
	fetchedAt time.Time

	group singleflight.Group
}

type CacheOption func(*CategoryCache)

// WithTTL overrides DefaultCategoryTTL.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *CategoryCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, used by tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *CategoryCache) {
		c.now = now
	}
}

func NewCategoryCache(store CategoryStore, log embedlog.Logger, opts ...CacheOption) *CategoryCache {
	c := &CategoryCache{
		store: store,
		log:   log,
		ttl:   DefaultCategoryTTL,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// List returns cached names while fresh, otherwise fetches them.
// A failed fetch is logged and yields an empty list.
func (c *CategoryCache) List(ctx context.Context) []string {
	if names, ok := c.cached(); ok {
		categoryCacheLookups.WithLabelValues("hit").Inc()
		return names
	}
	categoryCacheLookups.WithLabelValues("miss").Inc()

	v, err, _ := c.group.Do("list", func() (any, error) {
		return c.refresh(ctx)
	})
	if err != nil {
		categoryFetchErrors.Inc()
		c.log.Error(ctx, "failed to fetch categories", "err", err)
		return []string{}
	}

	return slices.Clone(v.([]string))
}

// Ensure makes sure name exists remotely, creating it when absent.
// Cached membership is trusted regardless of freshness.
func (c *CategoryCache) Ensure(ctx context.Context, name string) error {
	if c.Contains(name) {
		return nil
	}

	_, err, _ := c.group.Do("ensure:"+name, func() (any, error) {
		if slices.Contains(c.List(ctx), name) {
			return nil, nil
		}

		c.log.Print(ctx, "adding new category", "category", name)
		if err := c.store.AppendCategory(ctx, name); err != nil {
			c.log.Error(ctx, "failed to add category", "category", name, "err", err)
			return nil, fmt.Errorf("%w %q: %w", ErrCategoryCreationFailed, name, err)
		}

		c.mu.Lock()
		if !slices.Contains(c.names, name) {
			c.names = append(c.names, name)
		}
		c.fetchedAt = c.now()
		c.mu.Unlock()

		categoriesCreated.Inc()
		c.log.Print(ctx, "category added", "category", name)

		return nil, nil
	})

	return err
}

// Contains reports whether name is in the cached list, fresh or not.
func (c *CategoryCache) Contains(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Contains(c.names, name)
}

// Reset drops cached names, the next List fetches them again.
func (c *CategoryCache) Reset() {
	c.mu.Lock()
	c.names = nil
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}

// Snapshot returns cached names and the time they were fetched or last written.
// Zero time means nothing was cached yet.
func (c *CategoryCache) Snapshot() ([]string, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.names), c.fetchedAt
}

func (c *CategoryCache) cached() ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.fetchedAt.IsZero() || c.now().Sub(c.fetchedAt) >= c.ttl {
		return nil, false
	}

	return slices.Clone(c.names), true
}

func (c *CategoryCache) refresh(ctx context.Context) ([]string, error) {
	c.log.Print(ctx, "fetching categories")

	names, err := c.store.Categories(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.names = slices.Clone(names)
	c.fetchedAt = c.now()
	c.mu.Unlock()

	c.log.Print(ctx, "categories fetched", "count", len(names))

	return names, nil
}
