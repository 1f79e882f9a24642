package tensor

import (
	"math"

	"github.com/gomlx/exceptions"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/qualia/internal/parallel"
)

// binaryOp applies f elementwise with NumPy broadcasting. sameShape, when
// non-nil, is used for the common equal-shape case.
func binaryOp(name string, a, b *Array, f func(x, y float64) float64, sameShape func(dst, x, y []float64) []float64) *Array {
	if a.shape.Equal(b.shape) {
		out := make([]float64, len(a.data))
		if sameShape != nil {
			sameShape(out, a.data, b.data)
		} else {
			parallel.ForRange(len(out), func(start, end int) {
				for i := start; i < end; i++ {
					out[i] = f(a.data[i], b.data[i])
				}
			}, kernelConfig)
		}
		return wrap(out, a.shape.Clone())
	}

	outShape, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		exceptions.Panicf("%s: %v", name, err)
	}
	aStrides := broadcastStrides(a.shape, outShape)
	bStrides := broadcastStrides(b.shape, outShape)
	outStrides := outShape.Strides()
	out := make([]float64, outShape.NumElements())
	parallel.ForRange(len(out), func(start, end int) {
		for i := start; i < end; i++ {
			rem, ai, bi := i, 0, 0
			for d, stride := range outStrides {
				coord := rem / stride
				rem %= stride
				ai += coord * aStrides[d]
				bi += coord * bStrides[d]
			}
			out[i] = f(a.data[ai], b.data[bi])
		}
	}, kernelConfig)
	return wrap(out, outShape)
}

// Add returns a + b with broadcasting.
func Add(a, b *Array) *Array {
	return binaryOp("Add", a, b, func(x, y float64) float64 { return x + y }, floats.AddTo)
}

// Sub returns a - b with broadcasting.
func Sub(a, b *Array) *Array {
	return binaryOp("Sub", a, b, func(x, y float64) float64 { return x - y }, floats.SubTo)
}

// Mul returns a * b elementwise with broadcasting.
func Mul(a, b *Array) *Array {
	return binaryOp("Mul", a, b, func(x, y float64) float64 { return x * y }, floats.MulTo)
}

// Div returns a / b elementwise with broadcasting.
func Div(a, b *Array) *Array {
	return binaryOp("Div", a, b, func(x, y float64) float64 { return x / y }, floats.DivTo)
}

// Maximum returns max(a, b) elementwise with broadcasting.
func Maximum(a, b *Array) *Array {
	return binaryOp("Maximum", a, b, math.Max, nil)
}

// GreaterEqualMask returns 1 where a >= b and 0 elsewhere, with broadcasting.
func GreaterEqualMask(a, b *Array) *Array {
	return binaryOp("GreaterEqualMask", a, b, func(x, y float64) float64 {
		if x >= y {
			return 1
		}
		return 0
	}, nil)
}

// Map applies f to every element and returns the result.
func Map(a *Array, f func(float64) float64) *Array {
	out := make([]float64, len(a.data))
	parallel.For(len(out), func(i int) { out[i] = f(a.data[i]) }, kernelConfig)
	return wrap(out, a.shape.Clone())
}

// Neg returns -a.
func Neg(a *Array) *Array { return Scale(a, -1) }

// Exp returns e^a elementwise.
func Exp(a *Array) *Array { return Map(a, math.Exp) }

// Log returns the natural logarithm elementwise.
func Log(a *Array) *Array { return Map(a, math.Log) }

// Sqrt returns the square root elementwise.
func Sqrt(a *Array) *Array { return Map(a, math.Sqrt) }

// Tanh returns the hyperbolic tangent elementwise.
func Tanh(a *Array) *Array { return Map(a, math.Tanh) }

// Square returns a² elementwise.
func Square(a *Array) *Array { return Map(a, func(x float64) float64 { return x * x }) }

// Sigmoid returns 1/(1+e^-a) elementwise.
func Sigmoid(a *Array) *Array {
	return Map(a, func(x float64) float64 {
		if x >= 0 {
			return 1 / (1 + math.Exp(-x))
		}
		e := math.Exp(x)
		return e / (1 + e)
	})
}

// ReLU returns max(a, 0) elementwise.
func ReLU(a *Array) *Array {
	return Map(a, func(x float64) float64 { return math.Max(x, 0) })
}

// PowScalar returns a^p elementwise.
func PowScalar(a *Array, p float64) *Array {
	return Map(a, func(x float64) float64 { return math.Pow(x, p) })
}

// Scale returns c*a.
func Scale(a *Array, c float64) *Array {
	out := a.Clone()
	floats.Scale(c, out.data)
	return out
}

// AddScalar returns a + c.
func AddScalar(a *Array, c float64) *Array {
	out := a.Clone()
	floats.AddConst(c, out.data)
	return out
}

// AddInPlace performs a += alpha*b. Shapes must match exactly.
func (a *Array) AddInPlace(alpha float64, b *Array) {
	mustSameShape("AddInPlace", a, b)
	floats.AddScaled(a.data, alpha, b.data)
}

// ScaleInPlace performs a *= c.
func (a *Array) ScaleInPlace(c float64) {
	floats.Scale(c, a.data)
}

// Fill sets every element to v.
func (a *Array) Fill(v float64) {
	for i := range a.data {
		a.data[i] = v
	}
}
