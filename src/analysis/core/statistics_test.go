package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateMeanStd(t *testing.T) {
	mean, std := CalculateMeanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5.0, mean, 1e-9)
	assert.InDelta(t, 2.0, std, 1e-9) // population std

	mean, std = CalculateMeanStd(nil)
	assert.Equal(t, 0.0, mean)
	assert.Equal(t, 0.0, std)

	mean, std = CalculateMeanStd([]float64{3})
	assert.Equal(t, 3.0, mean)
	assert.Equal(t, 0.0, std)
}

func TestCalculateSampleStd(t *testing.T) {
	// Sample std uses the N-1 denominator.
	std := CalculateSampleStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 2.13808993, std, 1e-6)

	// NaN entries are skipped, matching a pandas-style std.
	std = CalculateSampleStd([]float64{math.NaN(), 2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 2.13808993, std, 1e-6)

	assert.True(t, math.IsNaN(CalculateSampleStd([]float64{math.NaN(), 1})))
	assert.True(t, math.IsNaN(CalculateSampleStd(nil)))
}

func TestCalculateRollingStd(t *testing.T) {
	data := []float64{math.NaN(), 1, 2, 3, 4, 5}
	out := CalculateRollingStd(data, 3)

	// Positions without a full window, or with a NaN inside it, are NaN.
	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	assert.True(t, math.IsNaN(out[2])) // window covers the leading NaN
	assert.InDelta(t, 1.0, out[3], 1e-9)
	assert.InDelta(t, 1.0, out[4], 1e-9)
	assert.InDelta(t, 1.0, out[5], 1e-9)
}

func TestCalculateZScore(t *testing.T) {
	assert.InDelta(t, 2.0, CalculateZScore(4, 0, 2), 1e-9)
	assert.Equal(t, 0.0, CalculateZScore(4, 0, 0))
}
