// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training neural networks.
//
// # Overview
//
// This package contains:
//   - SGD with momentum (exponential moving average of gradients)
//   - Adadelta, AdaGrad and RMSProp
//   - Adam and RAdam (rectified Adam)
//   - Optimizer interface and New for building one by name
//
// All optimizers support multiplicative weight decay, skip frozen parameters
// and parameters without a gradient, and keep their per-parameter state keyed
// by Parameter.ID, so the order of the parameter list may change between
// steps.
//
// # Basic Usage
//
//	model := nn.NewLinear(784, 10, rng)
//	optimizer := optim.NewAdam(model, optim.AdamConfig{
//	    Config: optim.Config{LR: 1e-3},
//	    Betas:  &[2]float64{0.9, 0.999},
//	})
//
//	for step := range 100 {
//	    optimizer.ZeroGrad()
//	    loss := nn.MSELoss(model.Forward(x), y)
//	    loss.Backward()
//	    optimizer.Step()
//	    tape.Reset()
//	}
//
// Optimizer state can be saved with StateDict and restored with
// LoadStateDict on every optimizer of this package.
package optim
