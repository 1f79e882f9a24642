// Package ops defines the differentiable operation variants of the autodiff
// engine.
//
// Every operation is a small struct carrying its auxiliary parameters (axes,
// exponents, target shapes) and, where useful, derived state that is computed
// lazily on the first backward call and reused afterwards. All variants share
// one interface, so the backward engine never needs to know which kind of
// operation it is visiting:
//
//   - Forward computes the output array from the input arrays.
//   - Backward maps the upstream gradient to one gradient per input, each with
//     exactly that input's shape.
//
// Operations never mutate their input arrays.
package ops

import "github.com/born-ml/qualia/internal/tensor"

// Kind enumerates the operation variants.
type Kind int

// Operation kinds.
const (
	KindAdd Kind = iota
	KindSub
	KindMul
	KindDiv
	KindMaximum
	KindNeg
	KindScale
	KindPow
	KindExp
	KindLog
	KindSqrt
	KindSquare
	KindTanh
	KindSigmoid
	KindReLU
	KindSum
	KindMean
	KindReshape
	KindTranspose
	KindExpandDims
	KindSqueeze
	KindTensordot
	KindMatMul
	KindConcat
	KindListConcat
	KindGather
	KindMSELoss
)

var kindNames = [...]string{
	KindAdd:        "Add",
	KindSub:        "Sub",
	KindMul:        "Mul",
	KindDiv:        "Div",
	KindMaximum:    "Maximum",
	KindNeg:        "Neg",
	KindScale:      "Scale",
	KindPow:        "Pow",
	KindExp:        "Exp",
	KindLog:        "Log",
	KindSqrt:       "Sqrt",
	KindSquare:     "Square",
	KindTanh:       "Tanh",
	KindSigmoid:    "Sigmoid",
	KindReLU:       "ReLU",
	KindSum:        "Sum",
	KindMean:       "Mean",
	KindReshape:    "Reshape",
	KindTranspose:  "Transpose",
	KindExpandDims: "ExpandDims",
	KindSqueeze:    "Squeeze",
	KindTensordot:  "Tensordot",
	KindMatMul:     "MatMul",
	KindConcat:     "Concat",
	KindListConcat: "ListConcat",
	KindGather:     "Gather",
	KindMSELoss:    "MSELoss",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(?)"
	}
	return kindNames[k]
}

// Operation is a differentiable computation step.
type Operation interface {
	// Kind identifies the variant.
	Kind() Kind

	// Forward computes the output from the input arrays.
	Forward(inputs []*tensor.Array) *tensor.Array

	// Backward returns the gradient of the loss w.r.t. each input, given the
	// gradient w.r.t. the output. The i-th result has the shape of inputs[i].
	// output is the array Forward produced, so rules like exp or tanh can
	// reuse it.
	Backward(outputGrad *tensor.Array, inputs []*tensor.Array, output *tensor.Array) []*tensor.Array
}
