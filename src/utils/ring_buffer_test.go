package utils

import (
	"testing"

	"market-reporter/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeBar(ts int64, close float64) models.MDailyBar {
	return models.MDailyBar{
		Symbol:    "TSLA",
		Timestamp: ts,
		Open:      close - 1,
		High:      close + 1,
		Low:       close - 2,
		Close:     close,
		Volume:    100,
	}
}

func TestRingBuffer_AppendAndGetAll(t *testing.T) {
	rb := NewRingBuffer("TSLA", 3)

	rb.Append(makeBar(1, 100))
	rb.Append(makeBar(2, 101))
	assert.Equal(t, 2, rb.Size())
	assert.False(t, rb.IsFull())

	all := rb.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, int64(1), all[0].Timestamp)
	assert.Equal(t, 101.0, all[1].Close)
	assert.Equal(t, "TSLA", all[0].Symbol)
}

func TestRingBuffer_WrapAround(t *testing.T) {
	rb := NewRingBuffer("TSLA", 3)
	for i := int64(1); i <= 5; i++ {
		rb.Append(makeBar(i, float64(100+i)))
	}

	assert.True(t, rb.IsFull())
	assert.Equal(t, 3, rb.Size())

	all := rb.GetAll()
	require.Len(t, all, 3)
	// Oldest two entries were overwritten.
	assert.Equal(t, int64(3), all[0].Timestamp)
	assert.Equal(t, int64(5), all[2].Timestamp)
}

func TestRingBuffer_GetLatest(t *testing.T) {
	rb := NewRingBuffer("TSLA", 10)
	for i := int64(1); i <= 4; i++ {
		rb.Append(makeBar(i, float64(100+i)))
	}

	latest := rb.GetLatest(2)
	require.Len(t, latest, 2)
	assert.Equal(t, int64(3), latest[0].Timestamp)
	assert.Equal(t, int64(4), latest[1].Timestamp)

	// Asking for more than stored returns everything.
	assert.Len(t, rb.GetLatest(99), 4)
	assert.Empty(t, rb.GetLatest(0))
}

func TestRingBuffer_Resize(t *testing.T) {
	rb := NewRingBuffer("TSLA", 5)
	for i := int64(1); i <= 5; i++ {
		rb.Append(makeBar(i, float64(100+i)))
	}

	rb.Resize(3)
	assert.Equal(t, 3, rb.Capacity())
	assert.Equal(t, 3, rb.Size())

	all := rb.GetAll()
	require.Len(t, all, 3)
	// Newest three survive a shrink.
	assert.Equal(t, int64(3), all[0].Timestamp)
	assert.Equal(t, int64(5), all[2].Timestamp)

	// Appending keeps wrapping correctly after the resize.
	rb.Append(makeBar(6, 106))
	all = rb.GetAll()
	assert.Equal(t, int64(4), all[0].Timestamp)
	assert.Equal(t, int64(6), all[2].Timestamp)
}

func TestBarCache_Freshness(t *testing.T) {
	cache := NewBarCache(512, 100, 300)

	bars := []models.MDailyBar{makeBar(1, 100), makeBar(2, 101), makeBar(3, 102)}
	cache.Put("TSLA", bars)

	got, ok := cache.GetFresh("TSLA", 2)
	require.True(t, ok)
	assert.Len(t, got, 3)

	// Too few bars for the requested minimum.
	_, ok = cache.GetFresh("TSLA", 10)
	assert.False(t, ok)

	// Unknown symbol.
	_, ok = cache.GetFresh("AAPL", 1)
	assert.False(t, ok)

	assert.True(t, cache.HasSymbol("TSLA"))
	assert.Equal(t, 1, cache.SymbolCount())
}

func TestBarCache_TTLExpiry(t *testing.T) {
	cache := NewBarCache(512, 100, 0) // zero TTL: everything is stale

	cache.Put("TSLA", []models.MDailyBar{makeBar(1, 100), makeBar(2, 101)})

	_, ok := cache.GetFresh("TSLA", 1)
	assert.False(t, ok, "zero TTL must never report fresh data")

	// Stale data is still reachable through GetLatest.
	assert.Len(t, cache.GetLatest("TSLA", 5), 2)
}
