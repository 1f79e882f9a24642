// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// Every differentiable operation applied to a Value is recorded on the Tape
// of its inputs. Calling Backward on a result walks the tape in reverse and
// accumulates gradients into every Value that requires them.
//
// Example:
//
//	tape := autodiff.NewTape()
//	w := tape.Variable(tensor.MustFromSlice([]float64{1, 2, 3, 4}, 2, 2))
//	x := tape.Constant(tensor.Ones(3, 2))
//
//	loss := autodiff.Sum(autodiff.Tanh(autodiff.MatMul(x, w)))
//	loss.Backward()
//	fmt.Println(w.Grad())
//
//	tape.Reset() // releases every recorded node; w and x survive
//
// Tensordot accepts numpy-style axes: an int k (last k axes of a against the
// first k axes of b), a pair of ints, or a pair of axis lists:
//
//	autodiff.Tensordot(a, b, 2)
//	autodiff.Tensordot(a, b, [2]int{1, 0})
//	autodiff.Tensordot(a, b, [2][]int{{1, 2}, {1, 0}})
//
// Misuse (shape mismatches, inputs from different tapes, released values)
// panics with an error value, see github.com/gomlx/exceptions.
package autodiff
