package ops

import (
	"github.com/born-ml/qualia/internal/tensor"
)

// ReshapeOp changes the shape of its input without changing its elements.
type ReshapeOp struct {
	Shape []int
}

// Kind implements Operation.
func (*ReshapeOp) Kind() Kind { return KindReshape }

// Forward implements Operation.
func (op *ReshapeOp) Forward(in []*tensor.Array) *tensor.Array {
	return tensor.Reshape(in[0], op.Shape...)
}

// Backward implements Operation.
func (op *ReshapeOp) Backward(g *tensor.Array, in []*tensor.Array, _ *tensor.Array) []*tensor.Array {
	return []*tensor.Array{tensor.Reshape(g, in[0].Shape()...)}
}

// TransposeOp permutes the axes of its input. The gradient is permuted back
// by the inverse permutation.
type TransposeOp struct {
	Perm []int
}

// Kind implements Operation.
func (*TransposeOp) Kind() Kind { return KindTranspose }

// Forward implements Operation.
func (op *TransposeOp) Forward(in []*tensor.Array) *tensor.Array {
	if len(op.Perm) == 0 {
		op.Perm = reversedAxes(in[0].Rank())
	}
	return tensor.Transpose(in[0], op.Perm...)
}

// Backward implements Operation.
func (op *TransposeOp) Backward(g *tensor.Array, _ []*tensor.Array, _ *tensor.Array) []*tensor.Array {
	return []*tensor.Array{tensor.Transpose(g, tensor.InversePermutation(op.Perm)...)}
}

func reversedAxes(rank int) []int {
	perm := make([]int, rank)
	for i := range perm {
		perm[i] = rank - 1 - i
	}
	return perm
}

// ExpandDimsOp inserts a size-1 axis.
type ExpandDimsOp struct {
	Axis int
}

// Kind implements Operation.
func (*ExpandDimsOp) Kind() Kind { return KindExpandDims }

// Forward implements Operation.
func (op *ExpandDimsOp) Forward(in []*tensor.Array) *tensor.Array {
	return tensor.ExpandDims(in[0], op.Axis)
}

// Backward implements Operation.
func (op *ExpandDimsOp) Backward(g *tensor.Array, in []*tensor.Array, _ *tensor.Array) []*tensor.Array {
	return []*tensor.Array{tensor.Reshape(g, in[0].Shape()...)}
}

// SqueezeOp removes a size-1 axis.
type SqueezeOp struct {
	Axis int
}

// Kind implements Operation.
func (*SqueezeOp) Kind() Kind { return KindSqueeze }

// Forward implements Operation.
func (op *SqueezeOp) Forward(in []*tensor.Array) *tensor.Array {
	return tensor.Squeeze(in[0], op.Axis)
}

// Backward implements Operation.
func (op *SqueezeOp) Backward(g *tensor.Array, in []*tensor.Array, _ *tensor.Array) []*tensor.Array {
	return []*tensor.Array{tensor.Reshape(g, in[0].Shape()...)}
}
