package ops

import (
	"github.com/born-ml/qualia/internal/tensor"
)

// SumOp sums its input over Axes (all axes when empty).
//
// Backward broadcasts the upstream gradient back over the reduced axes.
type SumOp struct {
	Axes     []int
	KeepDims bool
}

// Kind implements Operation.
func (*SumOp) Kind() Kind { return KindSum }

// Forward implements Operation.
func (op *SumOp) Forward(in []*tensor.Array) *tensor.Array {
	return tensor.SumAxes(in[0], op.KeepDims, op.Axes...)
}

// Backward implements Operation.
func (op *SumOp) Backward(g *tensor.Array, in []*tensor.Array, _ *tensor.Array) []*tensor.Array {
	return []*tensor.Array{expandReduced(g, in[0].Shape(), op.Axes)}
}

// MeanOp averages its input over Axes (all axes when empty).
type MeanOp struct {
	Axes     []int
	KeepDims bool
}

// Kind implements Operation.
func (*MeanOp) Kind() Kind { return KindMean }

// Forward implements Operation.
func (op *MeanOp) Forward(in []*tensor.Array) *tensor.Array {
	return tensor.MeanAxes(in[0], op.KeepDims, op.Axes...)
}

// Backward implements Operation.
func (op *MeanOp) Backward(g *tensor.Array, in []*tensor.Array, out *tensor.Array) []*tensor.Array {
	scale := float64(out.Size()) / float64(in[0].Size())
	return []*tensor.Array{tensor.Scale(expandReduced(g, in[0].Shape(), op.Axes), scale)}
}

// expandReduced broadcasts a reduction's gradient back to the input shape.
func expandReduced(g *tensor.Array, inShape tensor.Shape, axes []int) *tensor.Array {
	kept := inShape.Clone()
	if len(axes) == 0 {
		for i := range kept {
			kept[i] = 1
		}
	}
	for _, ax := range axes {
		kept[tensor.NormalizeAxis(ax, len(inShape))] = 1
	}
	return tensor.BroadcastTo(tensor.Reshape(g, kept...), inShape)
}
