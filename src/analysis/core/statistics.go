package core

import "math"

// -----------------------------------------------------------------------------

// CalculateMeanStd computes mean and population standard deviation (N denominator).
func CalculateMeanStd(data []float64) (float64, float64) {
	if len(data) == 0 {
		return 0, 0
	}

	sum := 0.0
	for _, v := range data {
		sum += v
	}
	mean := sum / float64(len(data))

	if len(data) == 1 {
		return mean, 0
	}

	varianceSum := 0.0
	for _, v := range data {
		varianceSum += (v - mean) * (v - mean)
	}
	std := math.Sqrt(varianceSum / float64(len(data)))
	return mean, std
}

// -----------------------------------------------------------------------------

// CalculateSampleStd computes the sample standard deviation (N-1 denominator),
// skipping NaN entries. Returns NaN for fewer than two valid values.
func CalculateSampleStd(data []float64) float64 {
	var valid []float64
	for _, v := range data {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) < 2 {
		return math.NaN()
	}

	sum := 0.0
	for _, v := range valid {
		sum += v
	}
	mean := sum / float64(len(valid))

	varianceSum := 0.0
	for _, v := range valid {
		varianceSum += (v - mean) * (v - mean)
	}
	return math.Sqrt(varianceSum / float64(len(valid)-1))
}

// -----------------------------------------------------------------------------

// CalculateRollingStd computes a trailing-window sample standard deviation for
// each position. Positions without a full window, or whose window contains a
// NaN, yield NaN.
func CalculateRollingStd(data []float64, window int) []float64 {
	out := make([]float64, len(data))
	for i := range data {
		out[i] = math.NaN()
		if i+1 < window {
			continue
		}

		slice := data[i+1-window : i+1]
		complete := true
		for _, v := range slice {
			if math.IsNaN(v) {
				complete = false
				break
			}
		}
		if complete {
			out[i] = CalculateSampleStd(slice)
		}
	}
	return out
}

// -----------------------------------------------------------------------------

// CalculateZScore calculates Z-Score (Standard Score).
func CalculateZScore(value, mean, std float64) float64 {
	if std == 0 {
		return 0.0
	}
	return (value - mean) / std
}
