// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers built on autodiff.
//
// # Overview
//
// This package contains:
//   - Parameter: a trainable leaf Value with a stable identity
//   - Layers: Linear
//   - Activations: ReLU, Sigmoid, Tanh
//   - Containers: Sequential with train/eval modes and state dicts
//   - Initialization: XavierUniform, Normal
//
// # Basic Usage
//
//	rng := rand.New(rand.NewPCG(42, 0))
//	model := nn.NewSequential(
//	    nn.NewLinear(2, 16, rng),
//	    nn.NewTanh(),
//	    nn.NewLinear(16, 1, rng),
//	)
//
//	tape := autodiff.NewTape()
//	pred := model.Forward(tape.Constant(x))
//	loss := nn.MSELoss(pred, tape.Constant(y))
//	loss.Backward()
//
// Parameters are free leaves: they join the tape of whatever input they are
// combined with and survive tape resets.
package nn
