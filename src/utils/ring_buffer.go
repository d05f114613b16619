package utils

import (
	"market-reporter/src/models"
)

// -----------------------------------------------------------------------------
// RingBuffer is a fixed-size circular buffer holding one daily bar per slot.
// True ring buffer - no implicit resizing.
// -----------------------------------------------------------------------------

type RingBuffer struct {
	// Data storage as 2D slice (rows x features)
	data     [][models.RB_NUM_FEATURES]float64
	symbol   string
	capacity int
	index    int // Next write position
	size     int // Current number of elements
}

// -----------------------------------------------------------------------------

// NewRingBuffer creates a new buffer with fixed capacity
func NewRingBuffer(symbol string, capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 365 // One year of daily bars
	}

	return &RingBuffer{
		data:     make([][models.RB_NUM_FEATURES]float64, capacity),
		symbol:   symbol,
		capacity: capacity,
		index:    0,
		size:     0,
	}
}

// -----------------------------------------------------------------------------

// Append adds one daily bar (Strict Type)
func (rb *RingBuffer) Append(bar models.MDailyBar) {
	rb.data[rb.index] = [models.RB_NUM_FEATURES]float64{
		float64(bar.Timestamp),
		bar.Open,
		bar.High,
		bar.Low,
		bar.Close,
		bar.Volume,
	}

	rb.index = (rb.index + 1) % rb.capacity

	// Update size (never exceeds capacity)
	if rb.size < rb.capacity {
		rb.size++
	}
}

// -----------------------------------------------------------------------------

// GetLatest returns n latest bars in insertion order
func (rb *RingBuffer) GetLatest(n int) []models.MDailyBar {
	if rb.size == 0 || n <= 0 {
		return []models.MDailyBar{}
	}

	count := n
	if n > rb.size {
		count = rb.size
	}

	result := make([]models.MDailyBar, count)

	// Latest data is at index-1
	startIdx := (rb.index - count + rb.capacity) % rb.capacity

	for i := 0; i < count; i++ {
		idx := (startIdx + i) % rb.capacity
		result[i] = rb.barAt(idx)
	}

	return result
}

// -----------------------------------------------------------------------------

// GetAll returns all bars in insertion order (oldest to newest)
func (rb *RingBuffer) GetAll() []models.MDailyBar {
	if rb.size == 0 {
		return []models.MDailyBar{}
	}

	result := make([]models.MDailyBar, rb.size)

	var startIdx int
	if rb.size == rb.capacity {
		// Buffer is full, oldest is at current index (wrap-around)
		startIdx = rb.index
	} else {
		startIdx = 0
	}

	for i := 0; i < rb.size; i++ {
		idx := (startIdx + i) % rb.capacity
		result[i] = rb.barAt(idx)
	}

	return result
}

// -----------------------------------------------------------------------------

// GetSnapshot returns raw data as 2D array (rows x features)
func (rb *RingBuffer) GetSnapshot() [][models.RB_NUM_FEATURES]float64 {
	if rb.size == 0 {
		return [][models.RB_NUM_FEATURES]float64{}
	}

	result := make([][models.RB_NUM_FEATURES]float64, rb.size)

	var startIdx int
	if rb.size == rb.capacity {
		startIdx = rb.index
	} else {
		startIdx = 0
	}

	for i := 0; i < rb.size; i++ {
		idx := (startIdx + i) % rb.capacity
		result[i] = rb.data[idx]
	}

	return result
}

// -----------------------------------------------------------------------------

func (rb *RingBuffer) barAt(idx int) models.MDailyBar {
	row := rb.data[idx]
	return models.MDailyBar{
		Symbol:    rb.symbol,
		Timestamp: int64(row[models.RB_IDX_TIMESTAMP]),
		Open:      row[models.RB_IDX_OPEN],
		High:      row[models.RB_IDX_HIGH],
		Low:       row[models.RB_IDX_LOW],
		Close:     row[models.RB_IDX_CLOSE],
		Volume:    row[models.RB_IDX_VOLUME],
	}
}

// -----------------------------------------------------------------------------

// Size returns current number of elements
func (rb *RingBuffer) Size() int {
	return rb.size
}

// -----------------------------------------------------------------------------

// Capacity returns buffer capacity (fixed)
func (rb *RingBuffer) Capacity() int {
	return rb.capacity
}

// -----------------------------------------------------------------------------

// Resize changes the capacity of the buffer.
// If newCapacity < size, oldest data is dropped.
func (rb *RingBuffer) Resize(newCapacity int) {
	if newCapacity <= 0 || newCapacity == rb.capacity {
		return
	}

	newData := make([][models.RB_NUM_FEATURES]float64, newCapacity)

	count := rb.size
	if count > newCapacity {
		count = newCapacity
	}

	// Copy the newest 'count' rows into the new buffer
	startIdx := (rb.index - count + rb.capacity) % rb.capacity
	for i := 0; i < count; i++ {
		idx := (startIdx + i) % rb.capacity
		newData[i] = rb.data[idx]
	}

	rb.data = newData
	rb.capacity = newCapacity
	rb.size = count
	rb.index = count % newCapacity
}

// -----------------------------------------------------------------------------

// IsFull returns whether buffer is full
func (rb *RingBuffer) IsFull() bool {
	return rb.size == rb.capacity
}

// -----------------------------------------------------------------------------

// Clear resets the buffer
func (rb *RingBuffer) Clear() {
	rb.index = 0
	rb.size = 0
}
