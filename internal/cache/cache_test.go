package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orders-backend/internal/cache"
)

func counter(n *int32, value string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) {
		atomic.AddInt32(n, 1)
		return value, nil
	}
}

func TestRemember_CachesUntilInvalidated(t *testing.T) {
	c := cache.New(0)
	ctx := context.Background()
	var calls int32

	v, err := cache.Remember(ctx, c, "orders:list", []string{cache.TagOrders}, counter(&calls, "a"))
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	v, err = cache.Remember(ctx, c, "orders:list", []string{cache.TagOrders}, counter(&calls, "b"))
	require.NoError(t, err)
	assert.Equal(t, "a", v)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	c.Invalidate(ctx, cache.TagOrders)

	v, err = cache.Remember(ctx, c, "orders:list", []string{cache.TagOrders}, counter(&calls, "b"))
	require.NoError(t, err)
	assert.Equal(t, "b", v)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRemember_InvalidateLeavesOtherTags(t *testing.T) {
	c := cache.New(0)
	ctx := context.Background()
	var calls int32

	_, _ = cache.Remember(ctx, c, "orders:list", []string{cache.TagOrders}, counter(&calls, "o"))
	_, _ = cache.Remember(ctx, c, "products:all", []string{cache.TagProducts}, counter(&calls, "p"))
	require.Equal(t, 2, c.Len())

	c.Invalidate(ctx, cache.TagOrders)
	assert.Equal(t, 1, c.Len())
}

func TestRemember_ErrorsNotCached(t *testing.T) {
	c := cache.New(0)
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := cache.Remember(ctx, c, "k", []string{"t"}, func(context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func TestRemember_TTLExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := cache.New(time.Minute, cache.WithClock(func() time.Time { return now }))
	ctx := context.Background()
	var calls int32

	_, _ = cache.Remember(ctx, c, "k", []string{"t"}, counter(&calls, "a"))
	now = now.Add(30 * time.Second)
	_, _ = cache.Remember(ctx, c, "k", []string{"t"}, counter(&calls, "a"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	now = now.Add(time.Minute)
	_, _ = cache.Remember(ctx, c, "k", []string{"t"}, counter(&calls, "a"))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRemember_FillRacingInvalidationIsNotStored(t *testing.T) {
	c := cache.New(0)
	ctx := context.Background()

	v, err := cache.Remember(ctx, c, "k", []string{"t"}, func(ctx context.Context) (string, error) {
		c.Invalidate(ctx, "t")
		return "stale", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "stale", v)
	assert.Equal(t, 0, c.Len())
}

func TestRemember_CoalescesConcurrentMisses(t *testing.T) {
	c := cache.New(0)
	ctx := context.Background()
	var calls int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := cache.Remember(ctx, c, "k", []string{"t"}, func(context.Context) (string, error) {
				atomic.AddInt32(&calls, 1)
				<-release
				return "v", nil
			})
			assert.NoError(t, err)
			assert.Equal(t, "v", v)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(8))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
}

func TestRemember_NilCache(t *testing.T) {
	var calls int32
	var c *cache.Cache
	_, _ = cache.Remember(context.Background(), c, "k", nil, counter(&calls, "a"))
	_, _ = cache.Remember(context.Background(), c, "k", nil, counter(&calls, "a"))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	c.Invalidate(context.Background(), "t")
}

type recordingBroadcaster struct {
	tags chan string
}

func (b *recordingBroadcaster) PublishInvalidation(_ context.Context, tag string) error {
	b.tags <- tag
	return nil
}

func TestInvalidate_Broadcasts(t *testing.T) {
	b := &recordingBroadcaster{tags: make(chan string, 1)}
	c := cache.New(0, cache.WithBroadcaster(b))

	c.Invalidate(context.Background(), cache.TagProducts)

	select {
	case tag := <-b.tags:
		assert.Equal(t, cache.TagProducts, tag)
	case <-time.After(time.Second):
		t.Fatal("invalidation was not broadcast")
	}
}

func TestRemember_CancelledCallerDoesNotFailSharedFill(t *testing.T) {
	c := cache.New(0)
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	fill := func(ctx context.Context) (string, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		<-release
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "orders", nil
	}

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := cache.Remember(first, c, "orders:list", []string{cache.TagOrders}, fill)
		firstErr <- err
	}()
	<-started

	type result struct {
		value string
		err   error
	}
	second := make(chan result, 1)
	go func() {
		v, err := cache.Remember(context.Background(), c, "orders:list", []string{cache.TagOrders}, fill)
		second <- result{v, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, "orders", got.value)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	v, err := cache.Remember(context.Background(), c, "orders:list", []string{cache.TagOrders}, fill)
	require.NoError(t, err)
	assert.Equal(t, "orders", v)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
