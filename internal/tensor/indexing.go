package tensor

import (
	"github.com/gomlx/exceptions"
)

// Gather picks values along axis using an index array of the same rank:
//
//	out[i][j][k] = a[index[i][j][k]][j][k]  // axis == 0
//	out[i][j][k] = a[i][index[i][j][k]][k]  // axis == 1
//
// The result has index's shape. Index values are stored as float64 and
// truncated to int.
func Gather(a *Array, axis int, index *Array) *Array {
	axis = NormalizeAxis(axis, a.Rank())
	checkGatherShapes("Gather", a.shape, axis, index)
	out := make([]float64, index.Size())
	forEachGather(a.shape, axis, index, func(dst, src int) {
		out[dst] = a.data[src]
	})
	return wrap(out, index.shape.Clone())
}

// ScatterAdd is the adjoint of Gather: it returns an array of shape where
// every src element is added at the position Gather would have read it from.
func ScatterAdd(shape Shape, axis int, index, src *Array) *Array {
	axis = NormalizeAxis(axis, len(shape))
	checkGatherShapes("ScatterAdd", shape, axis, index)
	mustSameShape("ScatterAdd", index, src)
	out := New(shape...)
	forEachGather(shape, axis, index, func(dst, from int) {
		out.data[from] += src.data[dst]
	})
	return out
}

func checkGatherShapes(op string, shape Shape, axis int, index *Array) {
	if index.Rank() != len(shape) {
		exceptions.Panicf("%s: index rank %d differs from array rank %d", op, index.Rank(), len(shape))
	}
	for d := range shape {
		if d != axis && index.shape[d] > shape[d] {
			exceptions.Panicf("%s: index shape %s exceeds array shape %s on axis %d", op, index.shape, shape, d)
		}
	}
}

// forEachGather calls f(indexOffset, arrayOffset) for every element of index.
func forEachGather(shape Shape, axis int, index *Array, f func(dst, src int)) {
	idxStrides := index.shape.Strides()
	arrStrides := shape.Strides()
	for i, v := range index.data {
		pos := int(v)
		if pos < 0 || pos >= shape[axis] {
			exceptions.Panicf("gather index %d out of range for axis %d of size %d", pos, axis, shape[axis])
		}
		rem, src := i, 0
		for d, stride := range idxStrides {
			coord := rem / stride
			rem %= stride
			if d == axis {
				coord = pos
			}
			src += coord * arrStrides[d]
		}
		f(i, src)
	}
}
