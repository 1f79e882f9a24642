package optim

import (
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/qualia/internal/nn"
	"github.com/born-ml/qualia/internal/tensor"
)

// SGD implements stochastic gradient descent with momentum:
//
//	v = momentum*v + (1-momentum)*grad
//	param -= lr * v
//
// With momentum 0 it is plain gradient descent.
type SGD struct {
	*Base
	momentum float64
	velocity slots
}

// SGDConfig holds configuration for SGD.
type SGDConfig struct {
	Config
	Momentum float64 // Momentum factor in [0, 1) (default: 0)
}

// NewSGD creates an SGD optimizer. LR defaults to 1e-3.
func NewSGD(params nn.ParameterSource, cfg SGDConfig) *SGD {
	cfg.LR = orDefault(cfg.LR, 1e-3)
	return &SGD{
		Base:     NewBase(params, cfg.Config),
		momentum: cfg.Momentum,
		velocity: newSlots("v"),
	}
}

// Step performs a single optimization step.
func (o *SGD) Step() {
	o.forEach(func(p *nn.Parameter, data, grad []float64) {
		v := o.velocity.get(p)[0]
		floats.Scale(o.momentum, v)
		floats.AddScaled(v, 1-o.momentum, grad)
		floats.AddScaled(data, -o.lr, v)
	})
	o.traceStep("sgd", "momentum", o.momentum)
}

// Momentum returns the momentum factor.
func (o *SGD) Momentum() float64 { return o.momentum }

// StateDict exports the velocities keyed "v.<param index>".
func (o *SGD) StateDict() map[string]*tensor.Array {
	return o.velocity.stateDict(o.Parameters())
}

// LoadStateDict restores the velocities.
func (o *SGD) LoadStateDict(state map[string]*tensor.Array) error {
	return o.velocity.load(o.Parameters(), state)
}
