package autodiff

import (
	"github.com/born-ml/qualia/internal/autodiff/ops"
	"github.com/born-ml/qualia/internal/tensor"
)

// Add returns a + b with broadcasting.
func Add(a, b *Value) *Value { return Apply(ops.AddOp{}, a, b) }

// Sub returns a - b with broadcasting.
func Sub(a, b *Value) *Value { return Apply(ops.SubOp{}, a, b) }

// Mul returns a * b elementwise with broadcasting.
func Mul(a, b *Value) *Value { return Apply(ops.MulOp{}, a, b) }

// Div returns a / b elementwise with broadcasting.
func Div(a, b *Value) *Value { return Apply(ops.DivOp{}, a, b) }

// Maximum returns the elementwise maximum of a and b. Ties send the gradient
// to a.
func Maximum(a, b *Value) *Value { return Apply(ops.MaximumOp{}, a, b) }

// Neg returns -x.
func Neg(x *Value) *Value { return Apply(ops.NegOp{}, x) }

// Scale returns c * x for a constant c.
func Scale(x *Value, c float64) *Value { return Apply(&ops.ScaleOp{Factor: c}, x) }

// Pow returns x raised to a constant power.
func Pow(x *Value, p float64) *Value { return Apply(&ops.PowOp{Exponent: p}, x) }

// Exp returns e^x.
func Exp(x *Value) *Value { return Apply(ops.ExpOp{}, x) }

// Log returns the natural logarithm of x.
func Log(x *Value) *Value { return Apply(ops.LogOp{}, x) }

// Sqrt returns the square root of x.
func Sqrt(x *Value) *Value { return Apply(ops.SqrtOp{}, x) }

// Square returns x².
func Square(x *Value) *Value { return Apply(ops.SquareOp{}, x) }

// Tanh returns the hyperbolic tangent of x.
func Tanh(x *Value) *Value { return Apply(ops.TanhOp{}, x) }

// Sigmoid returns 1 / (1 + e^-x).
func Sigmoid(x *Value) *Value { return Apply(ops.SigmoidOp{}, x) }

// ReLU returns max(x, 0).
func ReLU(x *Value) *Value { return Apply(ops.ReLUOp{}, x) }

// Sum reduces x to a scalar.
func Sum(x *Value) *Value { return Apply(&ops.SumOp{}, x) }

// SumAxes sums x over the given axes.
func SumAxes(x *Value, keepDims bool, axes ...int) *Value {
	return Apply(&ops.SumOp{Axes: axes, KeepDims: keepDims}, x)
}

// Mean averages x to a scalar.
func Mean(x *Value) *Value { return Apply(&ops.MeanOp{}, x) }

// MeanAxes averages x over the given axes.
func MeanAxes(x *Value, keepDims bool, axes ...int) *Value {
	return Apply(&ops.MeanOp{Axes: axes, KeepDims: keepDims}, x)
}

// Reshape returns x with a new shape holding the same number of elements.
// One dimension may be -1.
func Reshape(x *Value, shape ...int) *Value { return Apply(&ops.ReshapeOp{Shape: shape}, x) }

// Transpose permutes the axes of x; with no perm the axes are reversed.
func Transpose(x *Value, perm ...int) *Value { return Apply(&ops.TransposeOp{Perm: perm}, x) }

// ExpandDims inserts a size-1 axis at axis.
func ExpandDims(x *Value, axis int) *Value { return Apply(&ops.ExpandDimsOp{Axis: axis}, x) }

// Squeeze removes the size-1 axis at axis.
func Squeeze(x *Value, axis int) *Value { return Apply(&ops.SqueezeOp{Axis: axis}, x) }

// Tensordot is the generalized dot product of a and b. axes is either an
// int k (last k axes of a against first k axes of b), a [2]int single axis
// pair, or a [2][]int pair of axis lists. Other types panic.
func Tensordot(a, b *Value, axes any) *Value {
	return Apply(&ops.TensordotOp{Axes: axes}, a, b)
}

// TensordotAxes contracts axesA of a pairwise against axesB of b.
func TensordotAxes(a, b *Value, axesA, axesB []int) *Value {
	return Tensordot(a, b, [2][]int{axesA, axesB})
}

// MatMul multiplies two matrices.
func MatMul(a, b *Value) *Value { return Apply(ops.MatMulOp{}, a, b) }

// Concat joins values along axis.
func Concat(axis int, values ...*Value) *Value {
	return Apply(&ops.ConcatOp{Axis: axis}, values...)
}

// ListConcat stacks same-shaped values along a new leading axis.
func ListConcat(values ...*Value) *Value { return Apply(ops.ListConcatOp{}, values...) }

// Gather picks elements of x along axis at the positions held by index,
// which has x's rank.
func Gather(x *Value, axis int, index *tensor.Array) *Value {
	return Apply(&ops.GatherOp{Axis: axis, Index: index}, x)
}

// MSELoss returns the mean squared error between x and target as a scalar.
func MSELoss(x, target *Value) *Value { return Apply(ops.MSELossOp{}, x, target) }

// Linear computes tensordot(x, w, 1) + b. b may be nil.
func Linear(x, w, b *Value) *Value {
	y := Tensordot(x, w, 1)
	if b == nil {
		return y
	}
	return Add(y, b)
}

// Method forms of the common operations.

// Add returns v + o.
func (v *Value) Add(o *Value) *Value { return Add(v, o) }

// Sub returns v - o.
func (v *Value) Sub(o *Value) *Value { return Sub(v, o) }

// Mul returns v * o.
func (v *Value) Mul(o *Value) *Value { return Mul(v, o) }

// Div returns v / o.
func (v *Value) Div(o *Value) *Value { return Div(v, o) }

// Neg returns -v.
func (v *Value) Neg() *Value { return Neg(v) }

// Scale returns c * v.
func (v *Value) Scale(c float64) *Value { return Scale(v, c) }

// Pow returns v^p.
func (v *Value) Pow(p float64) *Value { return Pow(v, p) }

// Exp returns e^v.
func (v *Value) Exp() *Value { return Exp(v) }

// Log returns ln v.
func (v *Value) Log() *Value { return Log(v) }

// Tanh returns tanh v.
func (v *Value) Tanh() *Value { return Tanh(v) }

// Sigmoid returns sigmoid v.
func (v *Value) Sigmoid() *Value { return Sigmoid(v) }

// ReLU returns max(v, 0).
func (v *Value) ReLU() *Value { return ReLU(v) }

// Sum reduces v to a scalar.
func (v *Value) Sum() *Value { return Sum(v) }

// Mean averages v to a scalar.
func (v *Value) Mean() *Value { return Mean(v) }

// Reshape returns v reshaped.
func (v *Value) Reshape(shape ...int) *Value { return Reshape(v, shape...) }

// T returns v with its axes reversed.
func (v *Value) T() *Value { return Transpose(v) }

// Dot returns Tensordot(v, o, axes).
func (v *Value) Dot(o *Value, axes any) *Value { return Tensordot(v, o, axes) }

// MatMul returns v @ o.
func (v *Value) MatMul(o *Value) *Value { return MatMul(v, o) }
