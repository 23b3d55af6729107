// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// IsFinite returns whether a float is neither NaN nor +/- infinity
func IsFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

// AllFinite returns whether all argument floats are finite
func AllFinite(values ...float64) bool {
	for _, value := range values {
		if !IsFinite(value) {
			return false
		}
	}
	return true
}
