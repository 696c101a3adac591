package median

import "errors"

// ErrEmpty is returned when a median of zero values is requested.
var ErrEmpty = errors.New("median: no values")

// Select returns the element of rank k (0-based) in a.
// It reorders a in place. k must satisfy 0 <= k < len(a).
func Select(a []float32, k int) float32 {
	l, m := 0, len(a)-1
	for l < m {
		x := a[k]
		i, j := l, m
		for i <= j {
			for a[i] < x {
				i++
			}
			for x < a[j] {
				j--
			}
			if i <= j {
				a[i], a[j] = a[j], a[i]
				i++
				j--
			}
		}
		if j < k {
			l = i
		}
		if k < i {
			m = j
		}
	}
	return a[k]
}

// Rank returns the rank Lower selects for n values: n/2 when n is odd,
// n/2-1 when n is even.
func Rank(n int) int {
	if n&1 == 1 {
		return n / 2
	}
	return n/2 - 1
}

// Lower returns the lower-middle element of a, reordering a in place.
func Lower(a []float32) (float32, error) {
	if len(a) == 0 {
		return 0, ErrEmpty
	}
	return Select(a, Rank(len(a))), nil
}
