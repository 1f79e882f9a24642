// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package autodiff

import (
	"k8s.io/klog/v2"

	"github.com/born-ml/qualia/internal/autodiff"
	"github.com/born-ml/qualia/internal/tensor"
)

// Value is a node of the computation graph: an Array plus its gradient.
type Value = autodiff.Value

// Tape records the operations applied to its Values.
type Tape = autodiff.Tape

// TapeOption configures a Tape.
type TapeOption = autodiff.TapeOption

// NodeID identifies a recorded operation on a Tape.
type NodeID = autodiff.NodeID

// NewTape creates a tape in recording mode.
func NewTape(opts ...TapeOption) *Tape { return autodiff.NewTape(opts...) }

// WithLogger sets the logger tapes trace resets and backward passes to (V(4)).
func WithLogger(logger klog.Logger) TapeOption { return autodiff.WithLogger(logger) }

// NewLeaf creates a Value bound to no tape. It can take part in operations
// on any tape, and an operation on free leaves alone starts a new tape.
func NewLeaf(data *tensor.Array, requiresGrad bool) *Value { return autodiff.NewLeaf(data, requiresGrad) }

// Arithmetic

func Add(a, b *Value) *Value     { return autodiff.Add(a, b) }
func Sub(a, b *Value) *Value     { return autodiff.Sub(a, b) }
func Mul(a, b *Value) *Value     { return autodiff.Mul(a, b) }
func Div(a, b *Value) *Value     { return autodiff.Div(a, b) }
func Maximum(a, b *Value) *Value { return autodiff.Maximum(a, b) }
func Neg(x *Value) *Value        { return autodiff.Neg(x) }

// Scale multiplies x by the constant c.
func Scale(x *Value, c float64) *Value { return autodiff.Scale(x, c) }

// Pow raises x to the constant power p.
func Pow(x *Value, p float64) *Value { return autodiff.Pow(x, p) }

// Elementwise functions

func Exp(x *Value) *Value     { return autodiff.Exp(x) }
func Log(x *Value) *Value     { return autodiff.Log(x) }
func Sqrt(x *Value) *Value    { return autodiff.Sqrt(x) }
func Square(x *Value) *Value  { return autodiff.Square(x) }
func Tanh(x *Value) *Value    { return autodiff.Tanh(x) }
func Sigmoid(x *Value) *Value { return autodiff.Sigmoid(x) }
func ReLU(x *Value) *Value    { return autodiff.ReLU(x) }

// Reductions and shape

// Sum reduces x to a scalar.
func Sum(x *Value) *Value { return autodiff.Sum(x) }

// SumAxes sums over axes.
func SumAxes(x *Value, keepDims bool, axes ...int) *Value { return autodiff.SumAxes(x, keepDims, axes...) }

// Mean averages x to a scalar.
func Mean(x *Value) *Value { return autodiff.Mean(x) }

// MeanAxes averages over axes.
func MeanAxes(x *Value, keepDims bool, axes ...int) *Value {
	return autodiff.MeanAxes(x, keepDims, axes...)
}

// Reshape changes the shape of x; one dimension may be -1.
func Reshape(x *Value, shape ...int) *Value { return autodiff.Reshape(x, shape...) }

// Transpose permutes the axes of x.
func Transpose(x *Value, perm ...int) *Value { return autodiff.Transpose(x, perm...) }

// ExpandDims inserts a size-1 axis.
func ExpandDims(x *Value, axis int) *Value { return autodiff.ExpandDims(x, axis) }

// Squeeze removes a size-1 axis.
func Squeeze(x *Value, axis int) *Value { return autodiff.Squeeze(x, axis) }

// Contractions and joins

// Tensordot contracts a and b; see the package documentation for axes.
func Tensordot(a, b *Value, axes any) *Value { return autodiff.Tensordot(a, b, axes) }

// TensordotAxes contracts axesA of a with axesB of b.
func TensordotAxes(a, b *Value, axesA, axesB []int) *Value {
	return autodiff.TensordotAxes(a, b, axesA, axesB)
}

// MatMul multiplies two matrices.
func MatMul(a, b *Value) *Value { return autodiff.MatMul(a, b) }

// Concat joins values along axis.
func Concat(axis int, values ...*Value) *Value { return autodiff.Concat(axis, values...) }

// ListConcat stacks values along a new leading axis.
func ListConcat(values ...*Value) *Value { return autodiff.ListConcat(values...) }

// Gather selects entries of x along axis.
func Gather(x *Value, axis int, index *tensor.Array) *Value { return autodiff.Gather(x, axis, index) }

// Losses and layers

// MSELoss is the mean squared error between x and target.
func MSELoss(x, target *Value) *Value { return autodiff.MSELoss(x, target) }

// Linear computes x·w + b; b may be nil.
func Linear(x, w, b *Value) *Value { return autodiff.Linear(x, w, b) }
