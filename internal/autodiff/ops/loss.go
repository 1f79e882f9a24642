package ops

import (
	"github.com/born-ml/qualia/internal/tensor"
)

// MSELossOp computes the mean squared error between a prediction and a
// target of the same shape, as a scalar:
//
//	L = mean((x - t)²),  ∂L/∂x = 2(x - t)/N,  ∂L/∂t = -∂L/∂x
type MSELossOp struct{}

// Kind implements Operation.
func (MSELossOp) Kind() Kind { return KindMSELoss }

// Forward implements Operation.
func (MSELossOp) Forward(in []*tensor.Array) *tensor.Array {
	return tensor.Scalar(tensor.Mean(tensor.Square(tensor.Sub(in[0], in[1]))))
}

// Backward implements Operation.
func (MSELossOp) Backward(g *tensor.Array, in []*tensor.Array, _ *tensor.Array) []*tensor.Array {
	diff := tensor.Sub(in[0], in[1])
	gx := tensor.Scale(diff, 2*g.Item()/float64(diff.Size()))
	return []*tensor.Array{
		tensor.SumTo(gx, in[0].Shape()),
		tensor.SumTo(tensor.Neg(gx), in[1].Shape()),
	}
}
