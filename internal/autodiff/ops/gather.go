package ops

import (
	"github.com/born-ml/qualia/internal/tensor"
)

// GatherOp selects elements along Axis with an index array of the input's
// rank (see tensor.Gather). The index is a payload, not a differentiable
// input.
type GatherOp struct {
	Axis  int
	Index *tensor.Array
}

// Kind implements Operation.
func (*GatherOp) Kind() Kind { return KindGather }

// Forward implements Operation.
func (op *GatherOp) Forward(in []*tensor.Array) *tensor.Array {
	return tensor.Gather(in[0], op.Axis, op.Index)
}

// Backward implements Operation.
func (op *GatherOp) Backward(g *tensor.Array, in []*tensor.Array, _ *tensor.Array) []*tensor.Array {
	return []*tensor.Array{tensor.ScatterAdd(in[0].Shape(), op.Axis, op.Index, g)}
}
