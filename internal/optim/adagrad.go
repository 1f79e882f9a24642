package optim

import (
	"math"

	"github.com/born-ml/qualia/internal/nn"
	"github.com/born-ml/qualia/internal/tensor"
)

// AdaGrad implements the Adagrad algorithm:
//
//	h += grad²
//	param -= lr * grad / sqrt(h+eps)
type AdaGrad struct {
	*Base
	eps float64
	h   slots
}

// AdaGradConfig holds configuration for AdaGrad.
type AdaGradConfig struct {
	Config
	Eps float64 // Numerical stability term (default: 1e-8)
}

// NewAdaGrad creates an AdaGrad optimizer. LR defaults to 1e-2.
func NewAdaGrad(params nn.ParameterSource, cfg AdaGradConfig) *AdaGrad {
	cfg.LR = orDefault(cfg.LR, 1e-2)
	return &AdaGrad{
		Base: NewBase(params, cfg.Config),
		eps:  orDefault(cfg.Eps, 1e-8),
		h:    newSlots("h"),
	}
}

// Step performs a single optimization step.
func (o *AdaGrad) Step() {
	o.forEach(func(p *nn.Parameter, data, grad []float64) {
		h := o.h.get(p)[0]
		for i, g := range grad {
			h[i] += g * g
			data[i] -= o.lr * g / math.Sqrt(h[i]+o.eps)
		}
	})
	o.traceStep("adagrad")
}

// StateDict exports the squared-gradient sums keyed "h.<param index>".
func (o *AdaGrad) StateDict() map[string]*tensor.Array {
	return o.h.stateDict(o.Parameters())
}

// LoadStateDict restores the squared-gradient sums.
func (o *AdaGrad) LoadStateDict(state map[string]*tensor.Array) error {
	return o.h.load(o.Parameters(), state)
}
