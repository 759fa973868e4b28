package utils

import "math"

// Round2 rounds a monetary amount to 2 decimal places.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// SafeAdd adds two monetary amounts and rounds the result to 2 decimal places.
func SafeAdd(a, b float64) float64 {
	return Round2(a + b)
}

// SafeSubtract subtracts b from a and rounds the result to 2 decimal places.
func SafeSubtract(a, b float64) float64 {
	return Round2(a - b)
}

// HasMaxTwoDecimals reports whether the amount has at most 2 decimal places.
func HasMaxTwoDecimals(amount float64) bool {
	scaled := amount * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}
