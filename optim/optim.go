// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/qualia/internal/nn"
	"github.com/born-ml/qualia/internal/optim"
)

// Optimizer updates parameters from their gradients.
type Optimizer = optim.Optimizer

// Stateful is an optimizer whose state can be saved and restored.
type Stateful = optim.Stateful

// Config holds the hyperparameters shared by every optimizer.
type Config = optim.Config

// Base implements the bookkeeping shared by optimizers. Its Step panics with
// ErrNotImplemented.
type Base = optim.Base

// ErrNotImplemented is raised by Base.Step.
var ErrNotImplemented = optim.ErrNotImplemented

// NewBase creates a Base over params.
func NewBase(params nn.ParameterSource, cfg Config) *Base { return optim.NewBase(params, cfg) }

// SGD (Stochastic Gradient Descent)

// SGD represents the SGD optimizer with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	optimizer := optim.NewSGD(model, optim.SGDConfig{
//	    Config:   optim.Config{LR: 0.01},
//	    Momentum: 0.9,
//	})
func NewSGD(params nn.ParameterSource, cfg SGDConfig) *SGD { return optim.NewSGD(params, cfg) }

// Adadelta

type Adadelta = optim.Adadelta
type AdadeltaConfig = optim.AdadeltaConfig

// NewAdadelta creates an Adadelta optimizer (default LR 1, Rho 0.9).
func NewAdadelta(params nn.ParameterSource, cfg AdadeltaConfig) *Adadelta {
	return optim.NewAdadelta(params, cfg)
}

// AdaGrad

type AdaGrad = optim.AdaGrad
type AdaGradConfig = optim.AdaGradConfig

// NewAdaGrad creates an AdaGrad optimizer (default LR 0.01).
func NewAdaGrad(params nn.ParameterSource, cfg AdaGradConfig) *AdaGrad {
	return optim.NewAdaGrad(params, cfg)
}

// RMSProp

type RMSProp = optim.RMSProp
type RMSPropConfig = optim.RMSPropConfig

// NewRMSProp creates an RMSProp optimizer (default LR 0.01, Alpha 0.99).
func NewRMSProp(params nn.ParameterSource, cfg RMSPropConfig) *RMSProp {
	return optim.NewRMSProp(params, cfg)
}

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam optimizer.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam and RAdam.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer with bias correction.
func NewAdam(params nn.ParameterSource, cfg AdamConfig) *Adam { return optim.NewAdam(params, cfg) }

// RAdam (Rectified Adam)

// RAdam rectifies the adaptive learning rate once enough steps have passed.
type RAdam = optim.RAdam

// NewRAdam creates a new RAdam optimizer.
func NewRAdam(params nn.ParameterSource, cfg AdamConfig) *RAdam { return optim.NewRAdam(params, cfg) }

// Building by name

// Options is the union of every optimizer's hyperparameters.
type Options = optim.Options

// Names lists the names New accepts.
func Names() []string { return optim.Names() }

// New creates an optimizer by name: sgd, adadelta, adagrad, rmsprop, adam
// or radam.
func New(name string, params nn.ParameterSource, opts Options) (Optimizer, error) {
	return optim.New(name, params, opts)
}

// Float returns a pointer to v, for the Rho, Alpha and Betas options where
// zero is a meaningful setting.
func Float(v float64) *float64 { return optim.Float(v) }
