// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"math/rand/v2"

	"github.com/born-ml/qualia/internal/tensor"
)

// Array is a dense N-dimensional float64 array.
type Array = tensor.Array

// Shape lists the dimensions of an Array. An empty Shape is a scalar.
type Shape = tensor.Shape

// New creates a zero-filled array.
func New(shape ...int) *Array { return tensor.New(shape...) }

// FromSlice creates an array holding a copy of data.
func FromSlice(data []float64, shape ...int) (*Array, error) { return tensor.FromSlice(data, shape...) }

// MustFromSlice is FromSlice that panics on error.
func MustFromSlice(data []float64, shape ...int) *Array { return tensor.MustFromSlice(data, shape...) }

// Zeros creates a zero-filled array.
func Zeros(shape ...int) *Array { return tensor.Zeros(shape...) }

// Ones creates an array of ones.
func Ones(shape ...int) *Array { return tensor.Ones(shape...) }

// Full creates an array filled with value.
func Full(value float64, shape ...int) *Array { return tensor.Full(value, shape...) }

// Scalar creates a rank-0 array.
func Scalar(v float64) *Array { return tensor.Scalar(v) }

// Arange creates [0, 1, ..., n-1].
func Arange(n int) *Array { return tensor.Arange(n) }

// RandN samples the standard normal distribution.
func RandN(rng *rand.Rand, shape ...int) *Array { return tensor.RandN(rng, shape...) }

// RandUniform samples uniformly from [lo, hi).
func RandUniform(rng *rand.Rand, lo, hi float64, shape ...int) *Array {
	return tensor.RandUniform(rng, lo, hi, shape...)
}

// Elementwise arithmetic with broadcasting.

func Add(a, b *Array) *Array     { return tensor.Add(a, b) }
func Sub(a, b *Array) *Array     { return tensor.Sub(a, b) }
func Mul(a, b *Array) *Array     { return tensor.Mul(a, b) }
func Div(a, b *Array) *Array     { return tensor.Div(a, b) }
func Maximum(a, b *Array) *Array { return tensor.Maximum(a, b) }

// Scale multiplies every element by c.
func Scale(a *Array, c float64) *Array { return tensor.Scale(a, c) }

// Map applies f to every element.
func Map(a *Array, f func(float64) float64) *Array { return tensor.Map(a, f) }

// Reshape returns a copy of a with a new shape; one dimension may be -1.
func Reshape(a *Array, shape ...int) *Array { return tensor.Reshape(a, shape...) }

// Transpose permutes the axes of a; with no perm the axes are reversed.
func Transpose(a *Array, perm ...int) *Array { return tensor.Transpose(a, perm...) }

// Concatenate joins arrays along an existing axis.
func Concatenate(axis int, arrays ...*Array) *Array { return tensor.Concatenate(axis, arrays...) }

// Split cuts a along axis at the given boundaries.
func Split(a *Array, indices []int, axis int) []*Array { return tensor.Split(a, indices, axis) }

// Sum returns the sum of all elements.
func Sum(a *Array) float64 { return tensor.Sum(a) }

// Mean returns the mean of all elements.
func Mean(a *Array) float64 { return tensor.Mean(a) }

// SumAxes sums over axes (all when none are given).
func SumAxes(a *Array, keepDims bool, axes ...int) *Array { return tensor.SumAxes(a, keepDims, axes...) }

// ArgMax returns the index of the maximum along axis.
func ArgMax(a *Array, axis int) *Array { return tensor.ArgMax(a, axis) }

// Tensordot contracts axesA of a with axesB of b.
func Tensordot(a, b *Array, axesA, axesB []int) *Array { return tensor.Tensordot(a, b, axesA, axesB) }

// TensordotN contracts the last k axes of a with the first k axes of b.
func TensordotN(a, b *Array, k int) *Array { return tensor.TensordotN(a, b, k) }

// MatMul multiplies two matrices.
func MatMul(a, b *Array) *Array { return tensor.MatMul(a, b) }

// Equal reports whether a and b have the same shape and elements.
func Equal(a, b *Array) bool { return tensor.Equal(a, b) }

// AllClose reports elementwise |a-b| <= atol + rtol*|b|.
func AllClose(a, b *Array, rtol, atol float64) bool { return tensor.AllClose(a, b, rtol, atol) }
