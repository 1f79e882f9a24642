// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float64 arrays qualia computes with.
//
// Arrays are row-major, immutable in shape, and never tracked for gradients;
// wrap them in an autodiff Value to differentiate through them.
//
// # Basic Usage
//
//	a := tensor.MustFromSlice([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
//	b := tensor.Ones(3, 2)
//	c := tensor.MatMul(a, b) // shape (2, 2)
//
// # Tensordot
//
// Tensordot contracts explicit axis pairs and TensordotN the last k axes of
// a against the first k axes of b:
//
//	x := tensor.Ones(2, 3, 4)
//	y := tensor.Ones(4, 3)
//	z := tensor.Tensordot(x, y, []int{1, 2}, []int{1, 0}) // shape (2)
//
// Shape errors panic with an error value; constructors fed with external
// data (FromSlice) return an error instead.
package tensor
