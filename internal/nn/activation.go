package nn

import (
	"github.com/born-ml/qualia/internal/autodiff"
)

// ReLU applies max(x, 0) elementwise. It has no parameters.
type ReLU struct{}

// NewReLU creates a ReLU activation module.
func NewReLU() *ReLU { return &ReLU{} }

// Forward implements Module.
func (*ReLU) Forward(x *autodiff.Value) *autodiff.Value { return autodiff.ReLU(x) }

// Parameters implements Module.
func (*ReLU) Parameters() []*Parameter { return nil }

// Sigmoid applies 1/(1+e^-x) elementwise. It has no parameters.
type Sigmoid struct{}

// NewSigmoid creates a Sigmoid activation module.
func NewSigmoid() *Sigmoid { return &Sigmoid{} }

// Forward implements Module.
func (*Sigmoid) Forward(x *autodiff.Value) *autodiff.Value { return autodiff.Sigmoid(x) }

// Parameters implements Module.
func (*Sigmoid) Parameters() []*Parameter { return nil }

// Tanh applies the hyperbolic tangent elementwise. It has no parameters.
type Tanh struct{}

// NewTanh creates a Tanh activation module.
func NewTanh() *Tanh { return &Tanh{} }

// Forward implements Module.
func (*Tanh) Forward(x *autodiff.Value) *autodiff.Value { return autodiff.Tanh(x) }

// Parameters implements Module.
func (*Tanh) Parameters() []*Parameter { return nil }
