package data

import (
	"github.com/gomlx/exceptions"

	"github.com/born-ml/qualia/internal/tensor"
)

// ToOneHot encodes integer class labels of shape (n) or (n, 1) as an
// (n, numClass) array of zeros and ones. Labels outside [0, numClass) panic.
func ToOneHot(labels *tensor.Array, numClass int) *tensor.Array {
	n := labels.Shape()[0]
	if labels.Size() != n {
		exceptions.Panicf("ToOneHot: labels must hold one class per row, got shape %s", labels.Shape())
	}
	out := tensor.Zeros(n, numClass)
	for i, c := range labels.Data() {
		class := int(c)
		if class < 0 || class >= numClass {
			exceptions.Panicf("ToOneHot: label %v at row %d is outside [0, %d)", c, i, numClass)
		}
		out.Set(1, i, class)
	}
	return out
}

// ToVector decodes an (n, numClass) one-hot or score array into the (n)
// array of the highest-scoring class per row.
func ToVector(onehot *tensor.Array) *tensor.Array {
	if onehot.Rank() != 2 {
		exceptions.Panicf("ToVector: want a 2-D array, got shape %s", onehot.Shape())
	}
	return tensor.ArgMax(onehot, 1)
}
