package ops

import (
	"github.com/gomlx/exceptions"

	"github.com/born-ml/qualia/internal/tensor"
)

// TensordotOp is the generalized dot product of two arrays over pairs of
// axes, following numpy.tensordot.
//
// Axes accepts three forms:
//
//	int        contract the last k axes of a with the first k axes of b
//	[2]int     contract one axis of a with one axis of b
//	[2][]int   contract axes[0] of a pairwise with axes[1] of b
//
// Any other type panics. The derived permutations used by Backward are
// computed on the first Backward call and cached on the op.
type TensordotOp struct {
	Axes any

	prepared      bool
	needTranspose bool
	tpA, tpB      []int // permutations moving contracted axes last in a, first in b
	revA          []int // leading axes of (permuted) a and of the upstream gradient
	revB          []int // trailing, uncontracted axes of (permuted) b
	revC          []int // trailing axes of the upstream gradient matching revB
}

// Kind implements Operation.
func (*TensordotOp) Kind() Kind { return KindTensordot }

// Forward implements Operation.
func (op *TensordotOp) Forward(in []*tensor.Array) *tensor.Array {
	a, b := in[0], in[1]
	k, axesA, axesB, pair := parseTensordotAxes(op.Axes, a.Rank(), b.Rank())
	if pair {
		return tensor.Tensordot(a, b, axesA, axesB)
	}
	return tensor.TensordotN(a, b, k)
}

// Backward implements Operation.
//
// With the axes normalized so that a's contracted axes are last and b's are
// first:
//
//	∂L/∂a = tensordot(g, b, (revC, revB))
//	∂L/∂b = tensordot(a, g, (revA, revA))
//
// When explicit axis pairs were given, b and a are permuted into that layout
// first and the results are permuted back with the inverse permutations.
func (op *TensordotOp) Backward(g *tensor.Array, in []*tensor.Array, _ *tensor.Array) []*tensor.Array {
	a, b := in[0], in[1]
	if !op.prepared {
		op.prepare(a.Rank(), b.Rank(), g.Rank())
	}

	var da, db *tensor.Array
	if !op.needTranspose {
		da = tensor.Tensordot(g, b, op.revC, op.revB)
		db = tensor.Tensordot(a, g, op.revA, op.revA)
	} else {
		da = tensor.Tensordot(g, tensor.Transpose(b, op.tpB...), op.revC, op.revB)
		da = tensor.Transpose(da, tensor.InversePermutation(op.tpA)...)
		db = tensor.Tensordot(tensor.Transpose(a, op.tpA...), g, op.revA, op.revA)
		db = tensor.Transpose(db, tensor.InversePermutation(op.tpB)...)
	}
	return []*tensor.Array{da, db}
}

func (op *TensordotOp) prepare(rankA, rankB, rankG int) {
	k, axesA, axesB, pair := parseTensordotAxes(op.Axes, rankA, rankB)
	op.needTranspose = pair
	if pair {
		op.tpA = append(freeAxes(axesA, rankA), axesA...)
		op.tpB = append(append([]int{}, axesB...), freeAxes(axesB, rankB)...)
		k = len(axesA)
	}
	op.revB = axisRange(k, rankB)
	op.revA = axisRange(0, rankA-k)
	op.revC = axisRange(rankG-len(op.revB), rankG)
	op.prepared = true
}

// parseTensordotAxes resolves the Axes payload. It returns k, the number of
// contracted axes, and for the pair forms the normalized axis lists.
func parseTensordotAxes(axes any, rankA, rankB int) (k int, axesA, axesB []int, pair bool) {
	switch v := axes.(type) {
	case int:
		if v < 0 || v > rankA || v > rankB {
			exceptions.Panicf("Tensordot: cannot contract %d axes of ranks %d and %d", v, rankA, rankB)
		}
		return v, nil, nil, false
	case [2]int:
		axesA, axesB = []int{v[0]}, []int{v[1]}
	case [2][]int:
		axesA, axesB = v[0], v[1]
	case [][]int:
		if len(v) != 2 {
			exceptions.Panicf("Tensordot: axes must hold exactly 2 lists, got %d", len(v))
		}
		axesA, axesB = v[0], v[1]
	default:
		exceptions.Panicf("Tensordot: unsupported axes argument %v of type %T (want int, [2]int or [2][]int)", axes, axes)
	}
	if len(axesA) != len(axesB) {
		exceptions.Panicf("Tensordot: axes lists %v and %v differ in length", axesA, axesB)
	}
	axesA = normalizeAll(axesA, rankA)
	axesB = normalizeAll(axesB, rankB)
	return len(axesA), axesA, axesB, true
}

func normalizeAll(axes []int, rank int) []int {
	out := make([]int, len(axes))
	for i, ax := range axes {
		out[i] = tensor.NormalizeAxis(ax, rank)
	}
	return out
}

// freeAxes returns the axes of [0, rank) not listed in axes, in order.
func freeAxes(axes []int, rank int) []int {
	used := make(map[int]bool, len(axes))
	for _, ax := range axes {
		used[ax] = true
	}
	free := make([]int, 0, rank)
	for i := 0; i < rank; i++ {
		if !used[i] {
			free = append(free, i)
		}
	}
	return free
}

// axisRange returns [from, from+1, ..., to-1].
func axisRange(from, to int) []int {
	r := make([]int, 0, max(to-from, 0))
	for i := from; i < to; i++ {
		r = append(r, i)
	}
	return r
}

// MatMulOp multiplies two matrices: (M, K) @ (K, N).
//
//	∂(A@B)/∂A = g @ Bᵀ
//	∂(A@B)/∂B = Aᵀ @ g
type MatMulOp struct{}

// Kind implements Operation.
func (MatMulOp) Kind() Kind { return KindMatMul }

// Forward implements Operation.
func (MatMulOp) Forward(in []*tensor.Array) *tensor.Array { return tensor.MatMul(in[0], in[1]) }

// Backward implements Operation.
func (MatMulOp) Backward(g *tensor.Array, in []*tensor.Array, _ *tensor.Array) []*tensor.Array {
	return []*tensor.Array{
		tensor.MatMul(g, tensor.Transpose(in[1])),
		tensor.MatMul(tensor.Transpose(in[0]), g),
	}
}
