package utils

import (
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"market-reporter/src/logger"
	"market-reporter/src/models"
)

// -----------------------------------------------------------------------------
// BarCache keeps recently fetched daily series in memory, one ring buffer per
// symbol, so back-to-back report requests for the same ticker skip the
// upstream fetch while the series is still fresh.
// -----------------------------------------------------------------------------

type BarCache struct {
	DataStreams   map[string]*RingBuffer
	fetchedAt     map[string]time.Time // Last successful fill per symbol
	MaxMemoryMB   int
	MaxDataPoints int
	TTL           time.Duration
	Logger        *logger.Logger
	mu            sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewBarCache(maxMemoryMB, maxDataPoints, ttlSeconds int) *BarCache {
	return &BarCache{
		DataStreams:   make(map[string]*RingBuffer),
		fetchedAt:     make(map[string]time.Time),
		MaxMemoryMB:   maxMemoryMB,
		MaxDataPoints: maxDataPoints,
		TTL:           time.Duration(ttlSeconds) * time.Second,
		Logger:        logger.NewLogger("", "BarCache"),
	}
}

// -----------------------------------------------------------------------------

// Put replaces the cached series for a symbol with a fresh fetch.
func (bc *BarCache) Put(symbol string, bars []models.MDailyBar) {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	buffer, ok := bc.DataStreams[symbol]
	if !ok {
		buffer = NewRingBuffer(symbol, bc.MaxDataPoints)
		bc.DataStreams[symbol] = buffer
	}

	buffer.Clear()
	for _, bar := range bars {
		buffer.Append(bar)
	}
	bc.fetchedAt[symbol] = time.Now()

	if len(bc.DataStreams)%10 == 0 {
		bc.checkMemoryLimits()
	}
}

// -----------------------------------------------------------------------------

// GetFresh returns the cached series if it was filled within the TTL and
// holds at least minBars entries. Second return reports a cache hit.
func (bc *BarCache) GetFresh(symbol string, minBars int) ([]models.MDailyBar, bool) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	buffer, ok := bc.DataStreams[symbol]
	if !ok || buffer.Size() < minBars {
		return nil, false
	}

	filled, ok := bc.fetchedAt[symbol]
	if !ok || time.Since(filled) > bc.TTL {
		return nil, false
	}

	return buffer.GetAll(), true
}

// -----------------------------------------------------------------------------

// GetLatest returns up to n latest cached bars regardless of freshness.
func (bc *BarCache) GetLatest(symbol string, n int) []models.MDailyBar {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	buffer, ok := bc.DataStreams[symbol]
	if !ok {
		return []models.MDailyBar{}
	}
	return buffer.GetLatest(n)
}

// -----------------------------------------------------------------------------

// checkMemoryLimits shrinks buffers when the heap grows past the budget.
// Caller must hold the write lock.
func (bc *BarCache) checkMemoryLimits() {
	currentMemory := bc.ProcessMemoryMB()
	if currentMemory <= float64(bc.MaxMemoryMB) {
		return
	}

	bc.Logger.Info("Memory usage %.1fMB exceeds limit %dMB. Shrinking buffers.",
		currentMemory, bc.MaxMemoryMB)

	for symbol := range bc.DataStreams {
		buffer := bc.DataStreams[symbol]
		if buffer.Capacity() > 100 {
			newCapacity := buffer.Capacity() / 2
			if newCapacity < 50 {
				newCapacity = 50
			}
			buffer.Resize(newCapacity)
		}
	}

	runtime.GC()
	debug.FreeOSMemory()
}

// -----------------------------------------------------------------------------

// ProcessMemoryMB returns current heap usage in MB.
func (bc *BarCache) ProcessMemoryMB() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return float64(m.HeapAlloc) / 1024 / 1024
}

// -----------------------------------------------------------------------------

// Cleanup drops all cached series.
func (bc *BarCache) Cleanup() {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	bc.DataStreams = make(map[string]*RingBuffer)
	bc.fetchedAt = make(map[string]time.Time)
	runtime.GC()
	debug.FreeOSMemory()
}

// -----------------------------------------------------------------------------

// HasSymbol checks if a symbol has cached data.
func (bc *BarCache) HasSymbol(symbol string) bool {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	_, ok := bc.DataStreams[symbol]
	return ok
}

// -----------------------------------------------------------------------------

// SymbolCount returns number of symbols with cached data.
func (bc *BarCache) SymbolCount() int {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	return len(bc.DataStreams)
}
