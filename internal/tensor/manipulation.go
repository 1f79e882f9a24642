package tensor

import (
	"github.com/gomlx/exceptions"

	"github.com/born-ml/qualia/internal/parallel"
)

// Reshape returns a copy of a with a new shape holding the same number of
// elements. At most one dimension may be -1 and is inferred.
func Reshape(a *Array, shape ...int) *Array {
	s := Shape(shape).Clone()
	infer := -1
	known := 1
	for i, d := range s {
		switch {
		case d == -1 && infer < 0:
			infer = i
		case d <= 0:
			exceptions.Panicf("Reshape%s: invalid target shape %v", a.shape, shape)
		default:
			known *= d
		}
	}
	if infer >= 0 {
		if known == 0 || len(a.data)%known != 0 {
			exceptions.Panicf("Reshape%s: cannot infer dimension for %v", a.shape, shape)
		}
		s[infer] = len(a.data) / known
	}
	if s.NumElements() != len(a.data) {
		exceptions.Panicf("Reshape%s: %v has %d elements, want %d", a.shape, shape, s.NumElements(), len(a.data))
	}
	data := make([]float64, len(a.data))
	copy(data, a.data)
	return wrap(data, s)
}

// InversePermutation returns q such that q[perm[i]] = i.
func InversePermutation(perm []int) []int {
	inv := make([]int, len(perm))
	for i, p := range perm {
		inv[p] = i
	}
	return inv
}

// Transpose permutes the axes of a: output axis i is input axis perm[i].
// With no perm the axes are reversed.
func Transpose(a *Array, perm ...int) *Array {
	rank := len(a.shape)
	if len(perm) == 0 {
		perm = make([]int, rank)
		for i := range perm {
			perm[i] = rank - 1 - i
		}
	}
	if len(perm) != rank {
		exceptions.Panicf("Transpose%s: permutation %v has wrong length", a.shape, perm)
	}
	seen := make([]bool, rank)
	outShape := make(Shape, rank)
	for i, p := range perm {
		if p < 0 || p >= rank || seen[p] {
			exceptions.Panicf("Transpose%s: invalid permutation %v", a.shape, perm)
		}
		seen[p] = true
		outShape[i] = a.shape[p]
	}

	inStrides := a.shape.Strides()
	permStrides := make([]int, rank)
	for i, p := range perm {
		permStrides[i] = inStrides[p]
	}
	outStrides := outShape.Strides()
	out := make([]float64, len(a.data))
	parallel.ForRange(len(out), func(start, end int) {
		for i := start; i < end; i++ {
			rem, src := i, 0
			for d, stride := range outStrides {
				src += (rem / stride) * permStrides[d]
				rem %= stride
			}
			out[i] = a.data[src]
		}
	}, kernelConfig)
	return wrap(out, outShape)
}

// ExpandDims inserts a new axis of size 1 at position axis.
// Negative axes count from the end of the output shape.
func ExpandDims(a *Array, axis int) *Array {
	axis = NormalizeAxis(axis, len(a.shape)+1)
	s := make(Shape, 0, len(a.shape)+1)
	s = append(s, a.shape[:axis]...)
	s = append(s, 1)
	s = append(s, a.shape[axis:]...)
	return Reshape(a, s...)
}

// Squeeze removes the size-1 axis at position axis.
func Squeeze(a *Array, axis int) *Array {
	axis = NormalizeAxis(axis, len(a.shape))
	if a.shape[axis] != 1 {
		exceptions.Panicf("Squeeze%s: axis %d has size %d, not 1", a.shape, axis, a.shape[axis])
	}
	s := make(Shape, 0, len(a.shape)-1)
	s = append(s, a.shape[:axis]...)
	s = append(s, a.shape[axis+1:]...)
	return Reshape(a, s...)
}

// Concatenate joins arrays along an existing axis. All other dimensions must
// agree.
func Concatenate(axis int, arrays ...*Array) *Array {
	if len(arrays) == 0 {
		exceptions.Panicf("Concatenate: no arrays given")
	}
	first := arrays[0]
	axis = NormalizeAxis(axis, len(first.shape))
	outShape := first.shape.Clone()
	outShape[axis] = 0
	for _, arr := range arrays {
		if len(arr.shape) != len(first.shape) {
			exceptions.Panicf("Concatenate: rank mismatch %s vs %s", first.shape, arr.shape)
		}
		for d := range arr.shape {
			if d != axis && arr.shape[d] != first.shape[d] {
				exceptions.Panicf("Concatenate: shape mismatch %s vs %s on axis %d", first.shape, arr.shape, d)
			}
		}
		outShape[axis] += arr.shape[axis]
	}

	// outer: product of dims before axis; each input contributes a
	// contiguous block of shape[axis]*inner elements per outer index.
	outer := outShape[:axis].NumElements()
	inner := outShape[axis+1:].NumElements()
	out := make([]float64, outShape.NumElements())
	rowLen := outShape[axis] * inner
	offset := 0
	for _, arr := range arrays {
		block := arr.shape[axis] * inner
		for o := 0; o < outer; o++ {
			copy(out[o*rowLen+offset:o*rowLen+offset+block], arr.data[o*block:(o+1)*block])
		}
		offset += block
	}
	return wrap(out, outShape)
}

// Stack joins arrays of identical shape along a new leading axis.
func Stack(arrays ...*Array) *Array {
	expanded := make([]*Array, len(arrays))
	for i, arr := range arrays {
		expanded[i] = ExpandDims(arr, 0)
	}
	return Concatenate(0, expanded...)
}

// Split cuts a along axis at the given boundary indices, like numpy.split
// with an index list: indices [2, 5] yield a[:2], a[2:5], a[5:].
func Split(a *Array, indices []int, axis int) []*Array {
	axis = NormalizeAxis(axis, len(a.shape))
	size := a.shape[axis]
	bounds := make([]int, 0, len(indices)+2)
	bounds = append(bounds, 0)
	bounds = append(bounds, indices...)
	bounds = append(bounds, size)
	for i := 1; i < len(bounds); i++ {
		if bounds[i] < bounds[i-1] || bounds[i] > size {
			exceptions.Panicf("Split%s: invalid boundaries %v on axis %d", a.shape, indices, axis)
		}
	}

	outer := a.shape[:axis].NumElements()
	inner := a.shape[axis+1:].NumElements()
	rowLen := size * inner
	parts := make([]*Array, len(bounds)-1)
	for p := range parts {
		width := bounds[p+1] - bounds[p]
		shape := a.shape.Clone()
		shape[axis] = width
		block := width * inner
		data := make([]float64, outer*block)
		for o := 0; o < outer; o++ {
			src := o*rowLen + bounds[p]*inner
			copy(data[o*block:(o+1)*block], a.data[src:src+block])
		}
		parts[p] = &Array{shape: shape, data: data}
	}
	return parts
}

// SplitN cuts a into n equal sections along axis.
func SplitN(a *Array, n, axis int) []*Array {
	axis = NormalizeAxis(axis, len(a.shape))
	if n <= 0 || a.shape[axis]%n != 0 {
		exceptions.Panicf("SplitN%s: axis %d of size %d is not divisible into %d sections", a.shape, axis, a.shape[axis], n)
	}
	step := a.shape[axis] / n
	indices := make([]int, n-1)
	for i := range indices {
		indices[i] = (i + 1) * step
	}
	return Split(a, indices, axis)
}
