// Package tensor is the numeric backend of qualia: dense, row-major float64
// N-dimensional arrays and the kernels the autodiff engine is built on.
//
// Arrays are plain values without gradient tracking. Every operation returns
// a freshly allocated Array and never mutates its operands, except for the
// explicitly named in-place helpers (AddInPlace, ScaleInPlace, CopyFrom) that
// optimizers use to update parameters.
//
// Shape errors are programmer errors and panic (see github.com/gomlx/exceptions);
// only constructors fed with external data return an error.
package tensor

import (
	"fmt"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"

	"github.com/born-ml/qualia/internal/parallel"
)

// Array is a dense N-dimensional array of float64 stored in row-major order.
// Its shape never changes after creation.
type Array struct {
	shape Shape
	data  []float64
}

// kernelConfig is the parallelism used by element loops in this package.
var kernelConfig = parallel.DefaultConfig()

// SetParallelism replaces the kernel parallelism config, e.g. with
// parallel.Sequential for reproducible benchmarks.
func SetParallelism(cfg parallel.Config) {
	kernelConfig = cfg
}

// New creates a zero-filled array with the given shape.
func New(shape ...int) *Array {
	s := Shape(shape)
	if err := s.Validate(); err != nil {
		exceptions.Panicf("tensor.New%s: %v", s, err)
	}
	return &Array{shape: s.Clone(), data: make([]float64, s.NumElements())}
}

// FromSlice creates an array backed by a copy of data.
func FromSlice(data []float64, shape ...int) (*Array, error) {
	s := Shape(shape)
	if err := s.Validate(); err != nil {
		return nil, errors.Wrapf(err, "tensor.FromSlice%s", s)
	}
	if len(data) != s.NumElements() {
		return nil, errors.Errorf("tensor.FromSlice: %d values do not fit shape %s (%d elements)",
			len(data), s, s.NumElements())
	}
	a := &Array{shape: s.Clone(), data: make([]float64, len(data))}
	copy(a.data, data)
	return a, nil
}

// MustFromSlice is FromSlice that panics on error. Intended for literals in
// code and tests.
func MustFromSlice(data []float64, shape ...int) *Array {
	a, err := FromSlice(data, shape...)
	if err != nil {
		panic(err)
	}
	return a
}

// wrap builds an Array around data without copying.
func wrap(data []float64, shape Shape) *Array {
	if len(data) != shape.NumElements() {
		exceptions.Panicf("tensor: %d values do not fit shape %s", len(data), shape)
	}
	return &Array{shape: shape, data: data}
}

// Shape returns the array's shape. Callers must not modify it.
func (a *Array) Shape() Shape {
	return a.shape
}

// Rank returns the number of axes.
func (a *Array) Rank() int {
	return len(a.shape)
}

// Size returns the number of elements.
func (a *Array) Size() int {
	return len(a.data)
}

// Data returns the underlying row-major storage. Writes through the returned
// slice are visible in the array.
func (a *Array) Data() []float64 {
	return a.data
}

// Item returns the only element of a single-element array.
func (a *Array) Item() float64 {
	if len(a.data) != 1 {
		exceptions.Panicf("Array.Item: array of shape %s has %d elements", a.shape, len(a.data))
	}
	return a.data[0]
}

// At returns the element at the given multi-dimensional index.
func (a *Array) At(idx ...int) float64 {
	return a.data[a.offset(idx)]
}

// Set writes the element at the given multi-dimensional index.
func (a *Array) Set(v float64, idx ...int) {
	a.data[a.offset(idx)] = v
}

func (a *Array) offset(idx []int) int {
	if len(idx) != len(a.shape) {
		exceptions.Panicf("Array.At: %d indices for array of rank %d", len(idx), len(a.shape))
	}
	off := 0
	for i, stride := range a.shape.Strides() {
		if idx[i] < 0 || idx[i] >= a.shape[i] {
			exceptions.Panicf("Array.At: index %v out of bounds for shape %s", idx, a.shape)
		}
		off += idx[i] * stride
	}
	return off
}

// Clone returns a deep copy of the array.
func (a *Array) Clone() *Array {
	data := make([]float64, len(a.data))
	copy(data, a.data)
	return &Array{shape: a.shape.Clone(), data: data}
}

// CopyFrom overwrites a's elements with src's. Shapes must match.
func (a *Array) CopyFrom(src *Array) {
	mustSameShape("CopyFrom", a, src)
	copy(a.data, src.data)
}

// String renders small arrays fully and large ones by shape only.
func (a *Array) String() string {
	if len(a.data) > 64 {
		return fmt.Sprintf("Array%s", a.shape)
	}
	var sb strings.Builder
	sb.WriteString("Array")
	sb.WriteString(a.shape.String())
	sb.WriteString(" [")
	for i, v := range a.data {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%g", v)
	}
	sb.WriteString("]")
	return sb.String()
}

func mustSameShape(op string, a, b *Array) {
	if !a.shape.Equal(b.shape) {
		exceptions.Panicf("%s: shape mismatch %s vs %s", op, a.shape, b.shape)
	}
}
