package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_SharesConcurrentMisses(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "statistics", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			got, err := Load(context.Background(), store, "storage:statistics", loader)
			assert.NoError(t, err)
			assert.Equal(t, "statistics", got)
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestLoad_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.April, 6, 12, 0, 0, 0, time.UTC)
	store := NewStore(time.Minute)
	store.now = func() time.Time { return now }

	var calls int
	loader := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	first, err := Load(context.Background(), store, "k", loader)
	require.NoError(t, err)
	second, err := Load(context.Background(), store, "k", loader)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	now = now.Add(time.Minute)
	third, err := Load(context.Background(), store, "k", loader)
	require.NoError(t, err)
	assert.Equal(t, 2, third)
}

func TestLoad_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	boom := errors.New("connection refused")

	_, err := Load(context.Background(), store, "k", func(context.Context) (string, error) { return "", boom })
	require.ErrorIs(t, err, boom)
	assert.Zero(t, store.Len())

	got, err := Load(context.Background(), store, "k", func(context.Context) (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestInvalidate_DropsEntriesAndInFlightLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	_, err := Load(context.Background(), store, "a", func(context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	require.NoError(t, store.Invalidate(context.Background()))
	assert.Zero(t, store.Len())

	// a load that raced with Invalidate returns its value but is not kept
	_, err = Load(context.Background(), store, "b", func(ctx context.Context) (int, error) {
		_ = store.Invalidate(ctx)
		return 2, nil
	})
	require.NoError(t, err)
	assert.Zero(t, store.Len())
}

func TestLoad_TypeMismatch(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	_, err := Load(context.Background(), store, "k", func(context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)

	_, err = Load(context.Background(), store, "k", func(context.Context) (string, error) { return "x", nil })
	assert.ErrorContains(t, err, `cache entry "k" has type int`)
}
