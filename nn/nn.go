// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand/v2"

	"github.com/born-ml/qualia/internal/autodiff"
	"github.com/born-ml/qualia/internal/nn"
	"github.com/born-ml/qualia/internal/tensor"
)

// Parameter is a trainable tensor identified by a UUID.
type Parameter = nn.Parameter

// ParameterSource is anything exposing parameters.
type ParameterSource = nn.ParameterSource

// Module is a layer: parameters plus a forward function.
type Module = nn.Module

// StateModule is a module that can save and restore its parameters.
type StateModule = nn.StateModule

// Params is a plain list of parameters.
type Params = nn.Params

// NewParameter creates a named parameter holding data.
func NewParameter(name string, data *tensor.Array) *Parameter { return nn.NewParameter(name, data) }

// Collect concatenates the parameters of several sources.
func Collect(sources ...ParameterSource) Params { return nn.Collect(sources...) }

// ZeroGrad clears the gradients of every parameter of src.
func ZeroGrad(src ParameterSource) { nn.ZeroGrad(src) }

// NumParameters counts the scalar parameters of src.
func NumParameters(src ParameterSource) int { return nn.NumParameters(src) }

// Linear (fully connected)

// Linear applies x·W + b over the last axis of x.
type Linear = nn.Linear

// LinearOption configures a Linear layer.
type LinearOption = nn.LinearOption

// NewLinear creates a Linear layer with Xavier-uniform weights and zero bias.
//
// Example:
//
//	rng := rand.New(rand.NewPCG(1, 2))
//	layer := nn.NewLinear(784, 10, rng, nn.WithName("head"))
func NewLinear(inFeatures, outFeatures int, rng *rand.Rand, opts ...LinearOption) *Linear {
	return nn.NewLinear(inFeatures, outFeatures, rng, opts...)
}

// WithoutBias drops the bias term.
func WithoutBias() LinearOption { return nn.WithoutBias() }

// WithName prefixes the parameter names.
func WithName(prefix string) LinearOption { return nn.WithName(prefix) }

// Activations

type (
	ReLU    = nn.ReLU
	Sigmoid = nn.Sigmoid
	Tanh    = nn.Tanh
)

func NewReLU() *ReLU       { return nn.NewReLU() }
func NewSigmoid() *Sigmoid { return nn.NewSigmoid() }
func NewTanh() *Tanh       { return nn.NewTanh() }

// Sequential

// Sequential chains modules.
type Sequential = nn.Sequential

// NewSequential creates a Sequential in training mode.
func NewSequential(modules ...Module) *Sequential { return nn.NewSequential(modules...) }

// MSELoss is the mean squared error between pred and target.
func MSELoss(pred, target *autodiff.Value) *autodiff.Value { return nn.MSELoss(pred, target) }

// XavierUniform samples a (fanIn, fanOut) matrix from U(-a, a), a = sqrt(6/(fanIn+fanOut)).
func XavierUniform(rng *rand.Rand, fanIn, fanOut int) *tensor.Array {
	return nn.XavierUniform(rng, fanIn, fanOut)
}

// Normal samples N(0, std²).
func Normal(rng *rand.Rand, std float64, shape ...int) *tensor.Array { return nn.Normal(rng, std, shape...) }
