package tensor

import (
	"github.com/gomlx/exceptions"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
)

// Tensordot contracts axesA of a against axesB of b, pairwise, like
// numpy.tensordot(a, b, axes=(axesA, axesB)).
//
// The result's axes are the free axes of a (in order) followed by the free
// axes of b (in order). It is computed by permuting both operands so the
// contracted axes meet in the middle, flattening to matrices, and running a
// single GEMM.
func Tensordot(a, b *Array, axesA, axesB []int) *Array {
	if len(axesA) != len(axesB) {
		exceptions.Panicf("Tensordot%s·%s: %d axes for a but %d for b", a.shape, b.shape, len(axesA), len(axesB))
	}
	axesA = normalizeAxes("Tensordot", axesA, a.Rank())
	axesB = normalizeAxes("Tensordot", axesB, b.Rank())
	for i := range axesA {
		if a.shape[axesA[i]] != b.shape[axesB[i]] {
			exceptions.Panicf("Tensordot%s·%s: contracted axes %d and %d differ in size (%d vs %d)",
				a.shape, b.shape, axesA[i], axesB[i], a.shape[axesA[i]], b.shape[axesB[i]])
		}
	}

	freeA := complementAxes(axesA, a.Rank())
	freeB := complementAxes(axesB, b.Rank())

	permA := append(append([]int{}, freeA...), axesA...)
	permB := append(append([]int{}, axesB...), freeB...)
	at := a
	if !isIdentity(permA) {
		at = Transpose(a, permA...)
	}
	bt := b
	if !isIdentity(permB) {
		bt = Transpose(b, permB...)
	}

	outShape := make(Shape, 0, len(freeA)+len(freeB))
	m, n, k := 1, 1, 1
	for _, ax := range freeA {
		outShape = append(outShape, a.shape[ax])
		m *= a.shape[ax]
	}
	for _, ax := range freeB {
		outShape = append(outShape, b.shape[ax])
		n *= b.shape[ax]
	}
	for _, ax := range axesA {
		k *= a.shape[ax]
	}

	out := make([]float64, m*n)
	blas64.Gemm(blas.NoTrans, blas.NoTrans, 1,
		blas64.General{Rows: m, Cols: k, Stride: k, Data: at.data},
		blas64.General{Rows: k, Cols: n, Stride: n, Data: bt.data},
		0,
		blas64.General{Rows: m, Cols: n, Stride: n, Data: out})
	return wrap(out, outShape)
}

// TensordotN contracts the last k axes of a with the first k axes of b, like
// numpy.tensordot(a, b, axes=k).
func TensordotN(a, b *Array, k int) *Array {
	if k < 0 || k > a.Rank() || k > b.Rank() {
		exceptions.Panicf("TensordotN%s·%s: cannot contract %d axes", a.shape, b.shape, k)
	}
	axesA := make([]int, k)
	axesB := make([]int, k)
	for i := 0; i < k; i++ {
		axesA[i] = a.Rank() - k + i
		axesB[i] = i
	}
	return Tensordot(a, b, axesA, axesB)
}

// MatMul multiplies two matrices: (M, K) @ (K, N) -> (M, N).
func MatMul(a, b *Array) *Array {
	if a.Rank() != 2 || b.Rank() != 2 {
		exceptions.Panicf("MatMul: only 2-D arrays supported, got %s and %s", a.shape, b.shape)
	}
	return TensordotN(a, b, 1)
}

func normalizeAxes(op string, axes []int, rank int) []int {
	out := make([]int, len(axes))
	seen := make(map[int]bool, len(axes))
	for i, ax := range axes {
		out[i] = NormalizeAxis(ax, rank)
		if seen[out[i]] {
			exceptions.Panicf("%s: repeated axis %d in %v", op, out[i], axes)
		}
		seen[out[i]] = true
	}
	return out
}

// complementAxes returns, in increasing order, the axes of [0, rank) not in axes.
func complementAxes(axes []int, rank int) []int {
	used := make([]bool, rank)
	for _, ax := range axes {
		used[ax] = true
	}
	free := make([]int, 0, rank-len(axes))
	for i := 0; i < rank; i++ {
		if !used[i] {
			free = append(free, i)
		}
	}
	return free
}

func isIdentity(perm []int) bool {
	for i, p := range perm {
		if i != p {
			return false
		}
	}
	return true
}
