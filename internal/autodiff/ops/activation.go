package ops

import (
	"github.com/born-ml/qualia/internal/tensor"
)

// TanhOp computes tanh(x).
//
//	∂tanh(x)/∂x = 1 - tanh²(x)
type TanhOp struct{}

// Kind implements Operation.
func (TanhOp) Kind() Kind { return KindTanh }

// Forward implements Operation.
func (TanhOp) Forward(in []*tensor.Array) *tensor.Array { return tensor.Tanh(in[0]) }

// Backward implements Operation.
func (TanhOp) Backward(g *tensor.Array, _ []*tensor.Array, out *tensor.Array) []*tensor.Array {
	local := tensor.Map(out, func(y float64) float64 { return 1 - y*y })
	return []*tensor.Array{tensor.Mul(g, local)}
}

// SigmoidOp computes 1/(1+e^-x).
//
//	∂σ(x)/∂x = σ(x)(1-σ(x))
type SigmoidOp struct{}

// Kind implements Operation.
func (SigmoidOp) Kind() Kind { return KindSigmoid }

// Forward implements Operation.
func (SigmoidOp) Forward(in []*tensor.Array) *tensor.Array { return tensor.Sigmoid(in[0]) }

// Backward implements Operation.
func (SigmoidOp) Backward(g *tensor.Array, _ []*tensor.Array, out *tensor.Array) []*tensor.Array {
	local := tensor.Map(out, func(y float64) float64 { return y * (1 - y) })
	return []*tensor.Array{tensor.Mul(g, local)}
}

// ReLUOp computes max(x, 0). The subgradient at 0 is taken as 0.
type ReLUOp struct{}

// Kind implements Operation.
func (ReLUOp) Kind() Kind { return KindReLU }

// Forward implements Operation.
func (ReLUOp) Forward(in []*tensor.Array) *tensor.Array { return tensor.ReLU(in[0]) }

// Backward implements Operation.
func (ReLUOp) Backward(g *tensor.Array, in []*tensor.Array, _ *tensor.Array) []*tensor.Array {
	mask := tensor.Map(in[0], func(x float64) float64 {
		if x > 0 {
			return 1
		}
		return 0
	})
	return []*tensor.Array{tensor.Mul(g, mask)}
}
