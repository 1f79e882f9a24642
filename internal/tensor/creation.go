package tensor

import (
	"math/rand/v2"
)

// Zeros creates a zero-filled array.
func Zeros(shape ...int) *Array {
	return New(shape...)
}

// Ones creates an array filled with ones.
func Ones(shape ...int) *Array {
	return Full(1, shape...)
}

// Full creates an array filled with value.
func Full(value float64, shape ...int) *Array {
	a := New(shape...)
	for i := range a.data {
		a.data[i] = value
	}
	return a
}

// Scalar creates a rank-0 array holding v.
func Scalar(v float64) *Array {
	return &Array{shape: Shape{}, data: []float64{v}}
}

// ZerosLike creates a zero-filled array with a's shape.
func ZerosLike(a *Array) *Array {
	return New(a.shape...)
}

// OnesLike creates an array of ones with a's shape.
func OnesLike(a *Array) *Array {
	return Ones(a.shape...)
}

// Arange creates the 1-D array [0, 1, ..., n-1].
func Arange(n int) *Array {
	a := New(n)
	for i := range a.data {
		a.data[i] = float64(i)
	}
	return a
}

// RandN fills a new array with samples from the standard normal distribution.
// The caller owns rng, which keeps runs reproducible under a fixed seed.
func RandN(rng *rand.Rand, shape ...int) *Array {
	a := New(shape...)
	for i := range a.data {
		a.data[i] = rng.NormFloat64()
	}
	return a
}

// RandUniform fills a new array with samples drawn uniformly from [lo, hi).
func RandUniform(rng *rand.Rand, lo, hi float64, shape ...int) *Array {
	a := New(shape...)
	for i := range a.data {
		a.data[i] = lo + (hi-lo)*rng.Float64()
	}
	return a
}
