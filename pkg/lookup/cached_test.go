package lookup_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/cams7/cadferias/pkg/lookup"
)

func TestCached_FetchesOnceForConcurrentCallers(t *testing.T) {
	var fetches atomic.Int32
	gate := make(chan struct{})
	cache := lookup.NewCached(func(ctx context.Context) ([]string, error) {
		fetches.Add(1)
		<-gate
		return []string{"SP", "RJ"}, nil
	})

	var wg sync.WaitGroup
	results := make([][]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			items, err := cache.Get(context.Background())
			assert.NoError(t, err)
			results[i] = items
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.EqualValues(t, 1, fetches.Load())
	for _, items := range results {
		assert.Equal(t, []string{"SP", "RJ"}, items)
	}

	_, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, fetches.Load())
}

func TestCached_DoesNotCacheFailures(t *testing.T) {
	var fetches atomic.Int32
	cache := lookup.NewCached(func(ctx context.Context) ([]int, error) {
		if fetches.Add(1) == 1 {
			return nil, errors.New("unavailable")
		}
		return []int{1}, nil
	})

	_, err := cache.Get(context.Background())
	require.Error(t, err)

	items, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1}, items)
	assert.EqualValues(t, 2, fetches.Load())
}

func TestCached_CallerGivingUpDoesNotFailOthers(t *testing.T) {
	defer goleak.VerifyNone(t)

	var fetches atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	cache := lookup.NewCached(func(ctx context.Context) ([]string, error) {
		fetches.Add(1)
		close(started)
		select {
		case <-release:
			return []string{"RJ"}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	defer cache.Close()

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := cache.Get(firstCtx)
		firstErr <- err
	}()
	<-started

	type outcome struct {
		items []string
		err   error
	}
	second := make(chan outcome, 1)
	go func() {
		items, err := cache.Get(context.Background())
		second <- outcome{items, err}
	}()

	cancelFirst()
	require.ErrorIs(t, <-firstErr, context.Canceled)
	close(release)

	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, []string{"RJ"}, got.items)
	assert.EqualValues(t, 1, fetches.Load())
}

func TestCached_CloseStopsFetching(t *testing.T) {
	defer goleak.VerifyNone(t)

	var fetches atomic.Int32
	started := make(chan struct{})
	cache := lookup.NewCached(func(ctx context.Context) ([]string, error) {
		fetches.Add(1)
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})

	errCh := make(chan error, 1)
	go func() {
		_, err := cache.Get(context.Background())
		errCh <- err
	}()
	<-started
	cache.Close()
	require.ErrorIs(t, <-errCh, lookup.ErrCacheClosed)

	_, err := cache.Get(context.Background())
	require.ErrorIs(t, err, lookup.ErrCacheClosed)
	assert.EqualValues(t, 1, fetches.Load())
}
