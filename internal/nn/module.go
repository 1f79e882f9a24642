// Package nn implements neural network modules on top of the autodiff
// engine.
//
// This package provides building blocks for constructing neural networks:
//   - Parameter: a trainable leaf Value with a stable identity
//   - Module: Forward plus an ordered, repeatable parameter enumeration
//   - Linear: fully connected layer computing tensordot(x, W, 1) + b
//   - Activations: ReLU, Sigmoid, Tanh
//   - Sequential: container for stacking layers
//   - MSELoss and initializers
//
// Parameters are free leaves, not bound to any tape, so the same model can
// be used across any number of graphs (and tape resets).
package nn

import (
	"github.com/born-ml/qualia/internal/autodiff"
)

// ParameterSource is anything that can enumerate its trainable parameters in
// a stable order. It is the only interface optimizers require.
type ParameterSource interface {
	Parameters() []*Parameter
}

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(50, 128, rng),
//	    nn.NewTanh(),
//	    nn.NewLinear(128, 1, rng),
//	    nn.NewSigmoid(),
//	)
type Module interface {
	ParameterSource

	// Forward computes the output of the module given an input Value.
	Forward(x *autodiff.Value) *autodiff.Value
}

// Params is a plain list of parameters implementing ParameterSource.
type Params []*Parameter

// Parameters implements ParameterSource.
func (p Params) Parameters() []*Parameter { return p }

// Collect concatenates the parameters of several sources, in order.
func Collect(sources ...ParameterSource) Params {
	var params Params
	for _, src := range sources {
		params = append(params, src.Parameters()...)
	}
	return params
}

// ZeroGrad clears the gradients of every parameter of src.
func ZeroGrad(src ParameterSource) {
	for _, p := range src.Parameters() {
		p.ZeroGrad()
	}
}

// NumParameters returns the total number of scalar parameters of src.
func NumParameters(src ParameterSource) int {
	n := 0
	for _, p := range src.Parameters() {
		n += p.Data().Size()
	}
	return n
}
