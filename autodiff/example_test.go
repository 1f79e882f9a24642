// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package autodiff_test

import (
	"fmt"

	"github.com/born-ml/qualia/autodiff"
	"github.com/born-ml/qualia/tensor"
)

func Example() {
	tape := autodiff.NewTape()
	x := tape.Variable(tensor.MustFromSlice([]float64{1, 2, 3}, 3))

	y := autodiff.Sum(autodiff.Square(x))
	y.Backward()

	fmt.Println(y.Item())
	fmt.Println(x.Grad())
	// Output:
	// 14
	// Array(3) [2 4 6]
}

func ExampleTensordot() {
	tape := autodiff.NewTape()
	a := tape.Variable(tensor.Ones(2, 3))
	b := tape.Constant(tensor.Ones(3, 4))

	c := autodiff.Tensordot(a, b, 1)
	autodiff.Sum(c).Backward()

	fmt.Println(c.Shape())
	fmt.Println(a.Grad())
	// Output:
	// (2, 4)
	// Array(2, 3) [4 4 4 4 4 4]
}
