package tensor

import (
	"math"

	"github.com/gomlx/exceptions"
	"gonum.org/v1/gonum/floats"
)

// Sum returns the sum of all elements.
func Sum(a *Array) float64 {
	return floats.Sum(a.data)
}

// Mean returns the arithmetic mean of all elements.
func Mean(a *Array) float64 {
	return floats.Sum(a.data) / float64(len(a.data))
}

// Max returns the largest element.
func Max(a *Array) float64 {
	return floats.Max(a.data)
}

// SumAxes sums a over the given axes. With no axes it reduces every axis.
// keepDims leaves reduced axes in place with size 1.
func SumAxes(a *Array, keepDims bool, axes ...int) *Array {
	rank := a.Rank()
	if len(axes) == 0 {
		axes = make([]int, rank)
		for i := range axes {
			axes[i] = i
		}
	}
	axes = normalizeAxes("SumAxes", axes, rank)
	reduced := make([]bool, rank)
	for _, ax := range axes {
		reduced[ax] = true
	}

	keptShape := a.shape.Clone()
	for ax := range reduced {
		if reduced[ax] {
			keptShape[ax] = 1
		}
	}
	outStrides := broadcastStrides(keptShape, a.shape)
	inStrides := a.shape.Strides()
	out := make([]float64, keptShape.NumElements())
	for i, v := range a.data {
		rem, dst := i, 0
		for d, stride := range inStrides {
			dst += (rem / stride) * outStrides[d]
			rem %= stride
		}
		out[dst] += v
	}

	if keepDims {
		return wrap(out, keptShape)
	}
	finalShape := make(Shape, 0, rank-len(axes))
	for ax, d := range a.shape {
		if !reduced[ax] {
			finalShape = append(finalShape, d)
		}
	}
	return wrap(out, finalShape)
}

// MeanAxes averages a over the given axes. With no axes it reduces every axis.
func MeanAxes(a *Array, keepDims bool, axes ...int) *Array {
	s := SumAxes(a, keepDims, axes...)
	return Scale(s, float64(s.Size())/float64(a.Size()))
}

// SumTo reduces a, the result of broadcasting some array to a.Shape(), back
// to shape. It is the adjoint of broadcasting and is used by the gradients of
// broadcasting operations.
func SumTo(a *Array, shape Shape) *Array {
	if a.shape.Equal(shape) {
		return a.Clone()
	}
	if len(shape) > a.Rank() {
		exceptions.Panicf("SumTo: cannot reduce %s to larger rank %s", a.shape, shape)
	}
	lead := a.Rank() - len(shape)
	axes := make([]int, 0, a.Rank())
	for i := 0; i < lead; i++ {
		axes = append(axes, i)
	}
	for i, d := range shape {
		switch {
		case d == 1 && a.shape[lead+i] != 1:
			axes = append(axes, lead+i)
		case d != a.shape[lead+i]:
			exceptions.Panicf("SumTo: %s is not a broadcast of %s", a.shape, shape)
		}
	}
	if len(axes) == 0 {
		return Reshape(a, shape...)
	}
	s := SumAxes(a, true, axes...)
	return Reshape(s, shape...)
}

// BroadcastTo expands a to shape following broadcasting rules.
func BroadcastTo(a *Array, shape Shape) *Array {
	if a.shape.Equal(shape) {
		return a.Clone()
	}
	out, err := BroadcastShapes(a.shape, shape)
	if err != nil || !out.Equal(shape) {
		exceptions.Panicf("BroadcastTo: cannot broadcast %s to %s", a.shape, shape)
	}
	return Add(a, New(shape...))
}

// ArgMax returns the indices of the maximum values along axis; the axis is
// removed from the result shape.
func ArgMax(a *Array, axis int) *Array {
	axis = NormalizeAxis(axis, a.Rank())
	outer := a.shape[:axis].NumElements()
	size := a.shape[axis]
	inner := a.shape[axis+1:].NumElements()
	outShape := append(a.shape[:axis].Clone(), a.shape[axis+1:]...)
	out := make([]float64, outer*inner)
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			best, bestIdx := math.Inf(-1), 0
			for j := 0; j < size; j++ {
				if v := a.data[(o*size+j)*inner+in]; v > best {
					best, bestIdx = v, j
				}
			}
			out[o*inner+in] = float64(bestIdx)
		}
	}
	return wrap(out, outShape)
}
