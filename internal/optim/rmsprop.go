package optim

import (
	"math"

	"github.com/born-ml/qualia/internal/nn"
	"github.com/born-ml/qualia/internal/tensor"
)

// RMSProp implements the RMSprop algorithm:
//
//	h = alpha*h + (1-alpha)*grad²
//	param -= lr * grad / sqrt(h+eps)
type RMSProp struct {
	*Base
	alpha, eps float64
	h          slots
}

// RMSPropConfig holds configuration for RMSProp.
type RMSPropConfig struct {
	Config
	Alpha *float64 // Smoothing constant (default: 0.99)
	Eps   float64  // Numerical stability term (default: 1e-8)
}

// NewRMSProp creates an RMSProp optimizer. LR defaults to 1e-2.
func NewRMSProp(params nn.ParameterSource, cfg RMSPropConfig) *RMSProp {
	cfg.LR = orDefault(cfg.LR, 1e-2)
	return &RMSProp{
		Base:  NewBase(params, cfg.Config),
		alpha: valueOr(cfg.Alpha, 0.99),
		eps:   orDefault(cfg.Eps, 1e-8),
		h:     newSlots("h"),
	}
}

// Step performs a single optimization step.
func (o *RMSProp) Step() {
	o.forEach(func(p *nn.Parameter, data, grad []float64) {
		h := o.h.get(p)[0]
		for i, g := range grad {
			h[i] = o.alpha*h[i] + (1-o.alpha)*g*g
			data[i] -= o.lr * g / math.Sqrt(h[i]+o.eps)
		}
	})
	o.traceStep("rmsprop", "alpha", o.alpha)
}

// StateDict exports the running averages keyed "h.<param index>".
func (o *RMSProp) StateDict() map[string]*tensor.Array {
	return o.h.stateDict(o.Parameters())
}

// LoadStateDict restores the running averages.
func (o *RMSProp) LoadStateDict(state map[string]*tensor.Array) error {
	return o.h.load(o.Parameters(), state)
}
