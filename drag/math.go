package drag

import "golang.org/x/exp/constraints"

// minOf returns the smallest value of the provided parameters.
func minOf[T constraints.Ordered](values ...T) T {
	var acc T = values[0]

	for _, v := range values {
		if v < acc {
			acc = v
		}
	}
	return acc
}

// maxOf returns the biggest value of the provided parameters.
func maxOf[T constraints.Ordered](values ...T) T {
	var acc T = values[0]

	for _, v := range values {
		if v > acc {
			acc = v
		}
	}
	return acc
}

// clamp keeps v inside [lo, hi]. When the range is inverted lo wins.
func clamp[T constraints.Ordered](v, lo, hi T) T {
	return maxOf(lo, minOf(v, hi))
}
