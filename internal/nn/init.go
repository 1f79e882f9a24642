package nn

import (
	"math"
	"math/rand/v2"

	"github.com/born-ml/qualia/internal/tensor"
)

// XavierUniform draws a (fanIn, fanOut) matrix from the Glorot uniform
// distribution U(-b, b) with b = sqrt(6/(fanIn+fanOut)).
func XavierUniform(rng *rand.Rand, fanIn, fanOut int) *tensor.Array {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	return tensor.RandUniform(rng, -bound, bound, fanIn, fanOut)
}

// Normal draws an array from N(0, std²).
func Normal(rng *rand.Rand, std float64, shape ...int) *tensor.Array {
	a := tensor.RandN(rng, shape...)
	a.ScaleInPlace(std)
	return a
}
