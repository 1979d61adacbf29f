package lookup

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"golang.org/x/sync/singleflight"
)

var ErrCacheClosed = errors.New("lookup: cache closed")

// Cached fetches reference data once and replays it to every caller.
// Concurrent first callers share a single fetch; failures are not cached.
//
// The fetch runs on the cache's own lifetime context, so a caller giving up
// never fails the callers still waiting on the same fetch. Close ends that
// lifetime.
type Cached[T any] struct {
	fetch  func(ctx context.Context) ([]T, error)
	ctx    context.Context
	cancel context.CancelFunc
	group  singleflight.Group
	mu     sync.RWMutex
	items  []T
	loaded bool
}

func NewCached[T any](fetch func(ctx context.Context) ([]T, error)) *Cached[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Cached[T]{fetch: fetch, ctx: ctx, cancel: cancel}
}

// Get returns the cached items, joining or starting the shared fetch when
// nothing is cached yet. ctx only bounds how long this caller waits.
func (c *Cached[T]) Get(ctx context.Context) ([]T, error) {
	if items, ok := c.cached(); ok {
		return items, nil
	}
	if c.ctx.Err() != nil {
		return nil, ErrCacheClosed
	}
	ch := c.group.DoChan("items", func() (any, error) {
		if items, ok := c.cached(); ok {
			return items, nil
		}
		items, err := c.fetch(c.ctx)
		if err != nil {
			if c.ctx.Err() != nil {
				return nil, ErrCacheClosed
			}
			return nil, err
		}
		c.mu.Lock()
		c.items = items
		c.loaded = true
		c.mu.Unlock()
		return items, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]T), nil
	}
}

// Close cancels a fetch in progress. Items already cached stay readable.
func (c *Cached[T]) Close() {
	c.cancel()
}

func (c *Cached[T]) cached() ([]T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items, c.loaded
}
