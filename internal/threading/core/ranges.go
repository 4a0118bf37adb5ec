package core

// Range is a half-open interval [Start, End) of work items.
type Range struct {
	Start int
	End   int
}

// Len returns the number of items in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Chunks splits [0, n) into parts contiguous ranges of n/parts items each.
// The last range absorbs the remainder. Parts is reduced so that no range is
// empty; n <= 0 yields no ranges.
func Chunks(n, parts int) []Range {
	if n <= 0 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}
	if parts > n {
		parts = n
	}

	size := n / parts
	ranges := make([]Range, parts)
	for i := range ranges {
		ranges[i] = Range{Start: i * size, End: (i + 1) * size}
	}
	ranges[parts-1].End = n
	return ranges
}
