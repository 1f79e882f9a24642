package ops

import (
	"math"

	"github.com/born-ml/qualia/internal/tensor"
)

// Binary elementwise operations broadcast their operands, so their
// gradients are summed back to each operand's shape with tensor.SumTo.

// AddOp computes a + b.
type AddOp struct{}

// Kind implements Operation.
func (AddOp) Kind() Kind { return KindAdd }

// Forward implements Operation.
func (AddOp) Forward(in []*tensor.Array) *tensor.Array { return tensor.Add(in[0], in[1]) }

// Backward implements Operation.
func (AddOp) Backward(g *tensor.Array, in []*tensor.Array, _ *tensor.Array) []*tensor.Array {
	return []*tensor.Array{
		tensor.SumTo(g, in[0].Shape()),
		tensor.SumTo(g, in[1].Shape()),
	}
}

// SubOp computes a - b.
type SubOp struct{}

// Kind implements Operation.
func (SubOp) Kind() Kind { return KindSub }

// Forward implements Operation.
func (SubOp) Forward(in []*tensor.Array) *tensor.Array { return tensor.Sub(in[0], in[1]) }

// Backward implements Operation.
func (SubOp) Backward(g *tensor.Array, in []*tensor.Array, _ *tensor.Array) []*tensor.Array {
	return []*tensor.Array{
		tensor.SumTo(g, in[0].Shape()),
		tensor.SumTo(tensor.Neg(g), in[1].Shape()),
	}
}

// MulOp computes a * b elementwise.
//
//	∂(a*b)/∂a = b, ∂(a*b)/∂b = a
type MulOp struct{}

// Kind implements Operation.
func (MulOp) Kind() Kind { return KindMul }

// Forward implements Operation.
func (MulOp) Forward(in []*tensor.Array) *tensor.Array { return tensor.Mul(in[0], in[1]) }

// Backward implements Operation.
func (MulOp) Backward(g *tensor.Array, in []*tensor.Array, _ *tensor.Array) []*tensor.Array {
	return []*tensor.Array{
		tensor.SumTo(tensor.Mul(g, in[1]), in[0].Shape()),
		tensor.SumTo(tensor.Mul(g, in[0]), in[1].Shape()),
	}
}

// DivOp computes a / b elementwise.
//
//	∂(a/b)/∂a = 1/b, ∂(a/b)/∂b = -a/b²
type DivOp struct{}

// Kind implements Operation.
func (DivOp) Kind() Kind { return KindDiv }

// Forward implements Operation.
func (DivOp) Forward(in []*tensor.Array) *tensor.Array { return tensor.Div(in[0], in[1]) }

// Backward implements Operation.
func (DivOp) Backward(g *tensor.Array, in []*tensor.Array, out *tensor.Array) []*tensor.Array {
	ga := tensor.Div(g, in[1])
	gb := tensor.Neg(tensor.Mul(ga, out))
	return []*tensor.Array{
		tensor.SumTo(ga, in[0].Shape()),
		tensor.SumTo(gb, in[1].Shape()),
	}
}

// MaximumOp computes max(a, b) elementwise. Ties route the gradient to a.
type MaximumOp struct{}

// Kind implements Operation.
func (MaximumOp) Kind() Kind { return KindMaximum }

// Forward implements Operation.
func (MaximumOp) Forward(in []*tensor.Array) *tensor.Array { return tensor.Maximum(in[0], in[1]) }

// Backward implements Operation.
func (MaximumOp) Backward(g *tensor.Array, in []*tensor.Array, _ *tensor.Array) []*tensor.Array {
	mask := tensor.GreaterEqualMask(in[0], in[1])
	ga := tensor.Mul(g, mask)
	gb := tensor.Sub(g, ga)
	return []*tensor.Array{
		tensor.SumTo(ga, in[0].Shape()),
		tensor.SumTo(gb, in[1].Shape()),
	}
}

// NegOp computes -x.
type NegOp struct{}

// Kind implements Operation.
func (NegOp) Kind() Kind { return KindNeg }

// Forward implements Operation.
func (NegOp) Forward(in []*tensor.Array) *tensor.Array { return tensor.Neg(in[0]) }

// Backward implements Operation.
func (NegOp) Backward(g *tensor.Array, _ []*tensor.Array, _ *tensor.Array) []*tensor.Array {
	return []*tensor.Array{tensor.Neg(g)}
}

// ScaleOp computes Factor * x.
type ScaleOp struct {
	Factor float64
}

// Kind implements Operation.
func (*ScaleOp) Kind() Kind { return KindScale }

// Forward implements Operation.
func (op *ScaleOp) Forward(in []*tensor.Array) *tensor.Array { return tensor.Scale(in[0], op.Factor) }

// Backward implements Operation.
func (op *ScaleOp) Backward(g *tensor.Array, _ []*tensor.Array, _ *tensor.Array) []*tensor.Array {
	return []*tensor.Array{tensor.Scale(g, op.Factor)}
}

// PowOp computes x^Exponent elementwise.
//
//	∂(x^p)/∂x = p * x^(p-1)
type PowOp struct {
	Exponent float64
}

// Kind implements Operation.
func (*PowOp) Kind() Kind { return KindPow }

// Forward implements Operation.
func (op *PowOp) Forward(in []*tensor.Array) *tensor.Array {
	return tensor.PowScalar(in[0], op.Exponent)
}

// Backward implements Operation.
func (op *PowOp) Backward(g *tensor.Array, in []*tensor.Array, _ *tensor.Array) []*tensor.Array {
	p := op.Exponent
	local := tensor.Map(in[0], func(x float64) float64 { return p * math.Pow(x, p-1) })
	return []*tensor.Array{tensor.Mul(g, local)}
}
