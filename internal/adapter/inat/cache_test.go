package inat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallsgap-landcare/weed-priority-service/internal/domain"
)

// --- mock for cache tests ---

type countingFinder struct {
	calls  int
	result domain.PhotoResult
	err    error
}

func (m *countingFinder) FindPhoto(_ context.Context, _ string) (domain.PhotoResult, error) {
	m.calls++
	return m.result, m.err
}

// --- CachedFinder tests ---

func TestCachedFinder_CacheHit(t *testing.T) {
	inner := &countingFinder{
		result: domain.PhotoResult{URL: "https://example.org/gorse.jpg", Attribution: "(c) someone"},
	}
	cached := NewCachedFinder(inner, 10, testMetrics())

	r1, err := cached.FindPhoto(context.Background(), "Ulex europaeus")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/gorse.jpg", r1.URL)

	r2, err := cached.FindPhoto(context.Background(), "Ulex europaeus")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/gorse.jpg", r2.URL)

	assert.Equal(t, 1, inner.calls, "should only call inner once")
}

func TestCachedFinder_DifferentNamesMiss(t *testing.T) {
	inner := &countingFinder{result: domain.PhotoResult{URL: "https://example.org/p.jpg"}}
	cached := NewCachedFinder(inner, 10, testMetrics())

	_, _ = cached.FindPhoto(context.Background(), "Ulex europaeus")
	_, _ = cached.FindPhoto(context.Background(), "Moraea flaccida")

	assert.Equal(t, 2, inner.calls)
}

func TestCachedFinder_EmptyResultNotCached(t *testing.T) {
	inner := &countingFinder{}
	cached := NewCachedFinder(inner, 10, testMetrics())

	_, err := cached.FindPhoto(context.Background(), "Nothingus foundus")
	require.NoError(t, err)
	_, err = cached.FindPhoto(context.Background(), "Nothingus foundus")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls, "empty results should be retried")
}

func TestCachedFinder_ErrorNotCached(t *testing.T) {
	inner := &countingFinder{err: errors.New("rate limited")}
	cached := NewCachedFinder(inner, 10, testMetrics())

	_, err := cached.FindPhoto(context.Background(), "Ulex europaeus")
	require.Error(t, err)
	_, err = cached.FindPhoto(context.Background(), "Ulex europaeus")
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	_, ok := c.get("a")
	assert.False(t, ok)

	c.put("a", domain.PhotoResult{URL: "a.jpg"})
	got, ok := c.get("a")
	require.True(t, ok)
	assert.Equal(t, "a.jpg", got.URL)
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.PhotoResult{URL: "a.jpg"})
	c.put("b", domain.PhotoResult{URL: "b.jpg"})

	// Touch "a" so "b" becomes least recently used.
	_, ok := c.get("a")
	require.True(t, ok)

	c.put("c", domain.PhotoResult{URL: "c.jpg"})

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
	_, ok = c.get("a")
	assert.True(t, ok)
	_, ok = c.get("c")
	assert.True(t, ok)
}

func TestLRUCache_UpdateExistingKey(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.PhotoResult{URL: "old.jpg"})
	c.put("a", domain.PhotoResult{URL: "new.jpg"})

	got, ok := c.get("a")
	require.True(t, ok)
	assert.Equal(t, "new.jpg", got.URL)
	assert.Len(t, c.entries, 1)
}
