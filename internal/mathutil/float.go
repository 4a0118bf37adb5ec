package mathutil

import "math"

// Clamp limits v to the inclusive range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Frac returns the fractional part of v in [0, 1), also for negative input.
func Frac(v float64) float64 {
	f := v - math.Floor(v)
	if f >= 1 {
		return 0
	}
	return f
}

// NonZero replaces magnitudes below eps with eps, keeping the sign.
// Zero maps to +eps.
func NonZero(v, eps float64) float64 {
	if v >= 0 && v < eps {
		return eps
	}
	if v < 0 && v > -eps {
		return -eps
	}
	return v
}
