package ops

import (
	"github.com/born-ml/qualia/internal/tensor"
)

// ConcatOp joins any number of inputs along Axis.
//
// Backward splits the upstream gradient at the input boundaries, so every
// input receives the slice it contributed. The boundaries are computed on the
// first Backward call.
type ConcatOp struct {
	Axis int

	splits []int
}

// Kind implements Operation.
func (*ConcatOp) Kind() Kind { return KindConcat }

// Forward implements Operation.
func (op *ConcatOp) Forward(in []*tensor.Array) *tensor.Array {
	return tensor.Concatenate(op.Axis, in...)
}

// Backward implements Operation.
func (op *ConcatOp) Backward(g *tensor.Array, in []*tensor.Array, _ *tensor.Array) []*tensor.Array {
	axis := tensor.NormalizeAxis(op.Axis, g.Rank())
	if op.splits == nil {
		op.splits = make([]int, 0, len(in)-1)
		offset := 0
		for _, x := range in[:len(in)-1] {
			offset += x.Shape()[axis]
			op.splits = append(op.splits, offset)
		}
	}
	return tensor.Split(g, op.splits, axis)
}

// ListConcatOp stacks same-shaped inputs along a new leading axis.
type ListConcatOp struct{}

// Kind implements Operation.
func (ListConcatOp) Kind() Kind { return KindListConcat }

// Forward implements Operation.
func (ListConcatOp) Forward(in []*tensor.Array) *tensor.Array { return tensor.Stack(in...) }

// Backward implements Operation.
func (ListConcatOp) Backward(g *tensor.Array, in []*tensor.Array, _ *tensor.Array) []*tensor.Array {
	parts := tensor.SplitN(g, len(in), 0)
	for i, p := range parts {
		parts[i] = tensor.Squeeze(p, 0)
	}
	return parts
}
