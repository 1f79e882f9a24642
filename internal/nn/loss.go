package nn

import (
	"github.com/gomlx/exceptions"

	"github.com/born-ml/qualia/internal/autodiff"
)

// MSELoss returns mean((pred - target)²) as a scalar Value. Shapes must be
// equal or target must broadcast to pred.
func MSELoss(pred, target *autodiff.Value) *autodiff.Value {
	if pred.Shape().Rank() < target.Shape().Rank() {
		exceptions.Panicf("nn.MSELoss: target %s has higher rank than prediction %s", target.Shape(), pred.Shape())
	}
	return autodiff.MSELoss(pred, target)
}
