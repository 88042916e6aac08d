package geocode

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartroad-be/models"
	"smartroad-be/observability"
)

// --- mock for cache tests ---

type countingGeocoder struct {
	searchCalls  int
	reverseCalls int
	places       []models.Place
	err          error
}

func (m *countingGeocoder) Search(_ context.Context, _ string, _ int) ([]models.Place, error) {
	m.searchCalls++
	return m.places, m.err
}

func (m *countingGeocoder) Reverse(_ context.Context, _ models.Position) (models.Place, error) {
	m.reverseCalls++
	if len(m.places) == 0 {
		return models.Place{}, m.err
	}
	return m.places[0], m.err
}

// --- CachedGeocoder tests ---

func TestCachedGeocoder_SearchCacheHit(t *testing.T) {
	inner := &countingGeocoder{places: []models.Place{{DisplayName: "Charminar"}}}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedGeocoder(inner, 10, metrics)

	r1, err := cached.Search(context.Background(), "Charminar", 5)
	require.NoError(t, err)
	r2, err := cached.Search(context.Background(), "  charminar ", 5)
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, inner.searchCalls, "should only call inner once")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.GeocodeCache.WithLabelValues("search", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.GeocodeCache.WithLabelValues("search", "miss")))
}

func TestCachedGeocoder_SearchResultsAreCopies(t *testing.T) {
	inner := &countingGeocoder{places: []models.Place{{DisplayName: "Charminar"}}}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	first, err := cached.Search(context.Background(), "Charminar", 5)
	require.NoError(t, err)
	first[0].DisplayName = "edited by caller"
	inner.places[0].DisplayName = "edited upstream"

	second, err := cached.Search(context.Background(), "Charminar", 5)
	require.NoError(t, err)
	second[0].Position = models.Position{1, 1}

	third, err := cached.Search(context.Background(), "Charminar", 5)
	require.NoError(t, err)
	assert.Equal(t, []models.Place{{DisplayName: "Charminar"}}, third)
	assert.Equal(t, 1, inner.searchCalls)
}

func TestCachedGeocoder_EmptyResultsNotCached(t *testing.T) {
	inner := &countingGeocoder{}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.Search(context.Background(), "nowhere", 5)
	_, _ = cached.Search(context.Background(), "nowhere", 5)
	assert.Equal(t, 2, inner.searchCalls)

	_, _ = cached.Reverse(context.Background(), models.Position{1, 1})
	_, _ = cached.Reverse(context.Background(), models.Position{1, 1})
	assert.Equal(t, 2, inner.reverseCalls)
}

func TestCachedGeocoder_ErrorsPassThrough(t *testing.T) {
	inner := &countingGeocoder{err: errors.New("upstream down")}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.Search(context.Background(), "charminar", 5)
	require.Error(t, err)
}

func TestCachedGeocoder_ReverseCacheHit(t *testing.T) {
	inner := &countingGeocoder{places: []models.Place{{DisplayName: "Abids"}}}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.Reverse(context.Background(), models.Position{17.385, 78.4867})
	require.NoError(t, err)
	_, err = cached.Reverse(context.Background(), models.Position{17.385001, 78.486701})
	require.NoError(t, err)

	assert.Equal(t, 1, inner.reverseCalls, "nearby points share a cache key")
}

// --- LRU cache unit tests ---

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache[string](2)

	c.put("a", "A")
	c.put("b", "B")
	c.put("c", "C") // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	v, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, "B", v)
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache[string](2)

	c.put("a", "A")
	c.put("b", "B")
	c.get("a")
	c.put("c", "C")

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")
	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache[int](2)

	c.put("a", 1)
	c.put("a", 2)

	v, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}
