package ops

import (
	"github.com/born-ml/qualia/internal/tensor"
)

// ExpOp computes e^x. Its derivative is its own output.
type ExpOp struct{}

// Kind implements Operation.
func (ExpOp) Kind() Kind { return KindExp }

// Forward implements Operation.
func (ExpOp) Forward(in []*tensor.Array) *tensor.Array { return tensor.Exp(in[0]) }

// Backward implements Operation.
func (ExpOp) Backward(g *tensor.Array, _ []*tensor.Array, out *tensor.Array) []*tensor.Array {
	return []*tensor.Array{tensor.Mul(g, out)}
}

// LogOp computes the natural logarithm.
type LogOp struct{}

// Kind implements Operation.
func (LogOp) Kind() Kind { return KindLog }

// Forward implements Operation.
func (LogOp) Forward(in []*tensor.Array) *tensor.Array { return tensor.Log(in[0]) }

// Backward implements Operation.
func (LogOp) Backward(g *tensor.Array, in []*tensor.Array, _ *tensor.Array) []*tensor.Array {
	return []*tensor.Array{tensor.Div(g, in[0])}
}

// SqrtOp computes √x.
//
//	∂√x/∂x = 1 / (2√x)
type SqrtOp struct{}

// Kind implements Operation.
func (SqrtOp) Kind() Kind { return KindSqrt }

// Forward implements Operation.
func (SqrtOp) Forward(in []*tensor.Array) *tensor.Array { return tensor.Sqrt(in[0]) }

// Backward implements Operation.
func (SqrtOp) Backward(g *tensor.Array, _ []*tensor.Array, out *tensor.Array) []*tensor.Array {
	return []*tensor.Array{tensor.Div(tensor.Scale(g, 0.5), out)}
}

// SquareOp computes x².
type SquareOp struct{}

// Kind implements Operation.
func (SquareOp) Kind() Kind { return KindSquare }

// Forward implements Operation.
func (SquareOp) Forward(in []*tensor.Array) *tensor.Array { return tensor.Square(in[0]) }

// Backward implements Operation.
func (SquareOp) Backward(g *tensor.Array, in []*tensor.Array, _ *tensor.Array) []*tensor.Array {
	return []*tensor.Array{tensor.Mul(g, tensor.Scale(in[0], 2))}
}
