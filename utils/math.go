package utils

import (
	"math"
	"sort"
)

// Median returns the middle value of values, or NaN if there are none. values is left untouched.
func Median(values ...float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	return sorted[int(math.Floor(float64(len(sorted))/2))]
}

// Float64AlmostEqual compares two float64s and returns if the difference between them is less than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}
