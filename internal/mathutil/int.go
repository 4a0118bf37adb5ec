package mathutil

// IntMin returns the smaller of two ints.
func IntMin(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// IntMax returns the larger of two ints.
func IntMax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// IntClamp limits v to the inclusive range [lo, hi].
func IntClamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IntWrap maps v into [0, n) using a non-negative modulo.
// n must be positive.
func IntWrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
