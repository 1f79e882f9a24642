// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train runs training loops over autodiff graphs.
//
//	loop := &train.Loop{Steps: 1000, ProgressBar: true}
//	history, err := loop.Run(func(tape *autodiff.Tape, step int) float64 {
//	    optimizer.ZeroGrad()
//	    loss := nn.MSELoss(model.Forward(tape.Constant(x)), tape.Constant(y))
//	    loss.Backward()
//	    optimizer.Step()
//	    return loss.Item()
//	})
//
// The loop resets the tape after every step and turns panics raised while
// building or differentiating the graph into errors.
package train

import (
	"github.com/born-ml/qualia/internal/train"
)

// Loop configures a training run.
type Loop = train.Loop

// StepFunc runs one step and returns its loss.
type StepFunc = train.StepFunc

// OnStepFn is called after each step; an error stops the loop.
type OnStepFn = train.OnStepFn

// History records the losses of a run.
type History = train.History
