package split

import "math"

// Tolerance is the allowed drift in conservation checks.  It exists only to
// absorb binary floating-point noise; every legitimate mismatch is at least
// one cent.
const Tolerance = 0.01

// RoundToCents rounds a dollar amount to the nearest cent.  Every piece of
// monetary arithmetic in this package funnels through this one rule so that
// rounding drift cannot accumulate into spurious integrity failures.
func RoundToCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// toCents converts a dollar amount to whole cents.
func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// fromCents converts whole cents back to dollars.
func fromCents(c int64) float64 {
	return float64(c) / 100
}
