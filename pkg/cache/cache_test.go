package cache_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/jobarch/pkg/cache"
)

func TestGetMemoizes(t *testing.T) {
	c := cache.New[string]()
	calls := 0
	load := func(key string) (string, error) {
		calls++
		return "value:" + key, nil
	}

	v1, err := c.Get("/data/a.xlsx", load)
	require.NoError(t, err)
	v2, err := c.Get("/data/a.xlsx", load)
	require.NoError(t, err)

	assert.Equal(t, "value:/data/a.xlsx", v1)
	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, calls)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func TestGetDoesNotStoreErrors(t *testing.T) {
	c := cache.New[int]()
	boom := errors.New("boom")
	calls := 0

	_, err := c.Get("k", func(string) (int, error) {
		calls++
		return 0, boom
	})
	require.ErrorIs(t, err, boom)

	v, err := c.Get("k", func(string) (int, error) {
		calls++
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 2, calls)
}

func TestInvalidateAndClear(t *testing.T) {
	c := cache.New[int]()
	n := 0
	load := func(string) (int, error) {
		n++
		return n, nil
	}

	_, _ = c.Get("a", load)
	_, _ = c.Get("b", load)
	assert.Equal(t, []string{"a", "b"}, c.Keys())

	assert.True(t, c.Invalidate("a"))
	assert.False(t, c.Invalidate("missing"))

	v, _ := c.Get("a", load)
	assert.Equal(t, 3, v)

	c.Clear()
	assert.Empty(t, c.Keys())
	v, _ = c.Get("b", load)
	assert.Equal(t, 4, v)
}

func TestGetCollapsesConcurrentLoads(t *testing.T) {
	c := cache.New[string]()
	var calls atomic.Int32
	release := make(chan struct{})

	load := func(key string) (string, error) {
		calls.Add(1)
		<-release
		return key, nil
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			v, err := c.Get("shared", load)
			assert.NoError(t, err)
			assert.Equal(t, "shared", v)
		})
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestInvalidateDuringLoadDiscardsResult(t *testing.T) {
	for name, drop := range map[string]func(c *cache.Cache[string]){
		"invalidate": func(c *cache.Cache[string]) { c.Invalidate("k") },
		"clear":      func(c *cache.Cache[string]) { c.Clear() },
	} {
		t.Run(name, func(t *testing.T) {
			c := cache.New[string]()
			started := make(chan struct{})
			release := make(chan struct{})

			done := make(chan string)
			go func() {
				v, err := c.Get("k", func(string) (string, error) {
					close(started)
					<-release
					return "old", nil
				})
				assert.NoError(t, err)
				done <- v
			}()

			<-started
			drop(c)
			close(release)
			assert.Equal(t, "old", <-done)

			v, err := c.Get("k", func(string) (string, error) { return "new", nil })
			require.NoError(t, err)
			assert.Equal(t, "new", v)
		})
	}
}
