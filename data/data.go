// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package data batches in-memory datasets for training.
//
//	loader, err := data.NewLoader(data.Split{Data: x, Labels: y}, data.Config{
//	    BatchSize: 32,
//	    Rand:      rand.New(rand.NewPCG(1, 2)),
//	})
//	for x, y, ok := loader.Next(tape); ok; x, y, ok = loader.Next(tape) {
//	    ...
//	}
package data

import (
	"github.com/born-ml/qualia/internal/data"
	"github.com/born-ml/qualia/internal/tensor"
)

// Split is a set of examples along axis 0 with optional labels.
type Split = data.Split

// Config configures a Loader.
type Config = data.Config

// Loader iterates over fixed-size batches of a train or test split.
type Loader = data.Loader

// NewLoader creates a Loader over train, starting in training mode.
func NewLoader(train Split, cfg Config) (*Loader, error) { return data.NewLoader(train, cfg) }

// ToOneHot encodes integer labels as rows of a (n, numClass) matrix.
func ToOneHot(labels *tensor.Array, numClass int) *tensor.Array { return data.ToOneHot(labels, numClass) }

// ToVector decodes one-hot rows back to labels.
func ToVector(onehot *tensor.Array) *tensor.Array { return data.ToVector(onehot) }
