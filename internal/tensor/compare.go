package tensor

import (
	"math"
)

// Equal reports whether a and b have the same shape and identical elements.
func Equal(a, b *Array) bool {
	if !a.shape.Equal(b.shape) {
		return false
	}
	for i := range a.data {
		if a.data[i] != b.data[i] {
			return false
		}
	}
	return true
}

// AllClose reports whether a and b have the same shape and every pair of
// elements satisfies |a-b| <= atol + rtol*|b|, like numpy.allclose.
func AllClose(a, b *Array, rtol, atol float64) bool {
	if !a.shape.Equal(b.shape) {
		return false
	}
	for i := range a.data {
		if math.Abs(a.data[i]-b.data[i]) > atol+rtol*math.Abs(b.data[i]) {
			return false
		}
	}
	return true
}
