// Package stats holds the descriptive statistics, correlation and
// technical-indicator math shared by the correlation, macro, valuation and
// stocks datasets. Every function is total: degenerate input yields a zero
// value rather than NaN.
package stats

import (
	"math"
	"slices"
)

// Mean returns the arithmetic mean, or 0 for an empty sample.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median returns the middle value of a sorted copy of values.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// StdDev returns the population standard deviation.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// Min returns the smallest value, or 0 for an empty sample.
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return slices.Min(values)
}

// Max returns the largest value, or 0 for an empty sample.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return slices.Max(values)
}

// PercentileRank returns the share of the sample at or below v, in percent.
// The minimum of a sample of n therefore ranks at 100/n, not 0.
func PercentileRank(v float64, sample []float64) float64 {
	if len(sample) == 0 {
		return 0
	}
	count := 0
	for _, s := range sample {
		if s <= v {
			count++
		}
	}
	return float64(count) / float64(len(sample)) * 100
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
