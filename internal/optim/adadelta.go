package optim

import (
	"math"

	"github.com/born-ml/qualia/internal/nn"
	"github.com/born-ml/qualia/internal/tensor"
)

// Adadelta implements the Adadelta algorithm:
//
//	g = rho*g + (1-rho)*grad²
//	update = -sqrt(u+eps)/sqrt(g+eps) * grad
//	u = rho*u + (1-rho)*update²
//	param += lr * update
//
// Reference: "ADADELTA: An Adaptive Learning Rate Method" (Zeiler, 2012)
type Adadelta struct {
	*Base
	rho, eps float64
	acc      slots
}

// AdadeltaConfig holds configuration for Adadelta.
type AdadeltaConfig struct {
	Config
	Rho *float64 // Decay rate of the running averages (default: 0.9)
	Eps float64  // Numerical stability term (default: 1e-6)
}

// NewAdadelta creates an Adadelta optimizer. LR defaults to 1.0.
func NewAdadelta(params nn.ParameterSource, cfg AdadeltaConfig) *Adadelta {
	cfg.LR = orDefault(cfg.LR, 1.0)
	return &Adadelta{
		Base: NewBase(params, cfg.Config),
		rho:  valueOr(cfg.Rho, 0.9),
		eps:  orDefault(cfg.Eps, 1e-6),
		acc:  newSlots("g", "u"),
	}
}

// Step performs a single optimization step.
func (o *Adadelta) Step() {
	o.forEach(func(p *nn.Parameter, data, grad []float64) {
		s := o.acc.get(p)
		g, u := s[0], s[1]
		for i, gr := range grad {
			g[i] = o.rho*g[i] + (1-o.rho)*gr*gr
			update := -math.Sqrt(u[i]+o.eps) * gr / math.Sqrt(g[i]+o.eps)
			u[i] = o.rho*u[i] + (1-o.rho)*update*update
			data[i] += o.lr * update
		}
	})
	o.traceStep("adadelta", "rho", o.rho)
}

// StateDict exports the running averages keyed "g.<i>" and "u.<i>".
func (o *Adadelta) StateDict() map[string]*tensor.Array {
	return o.acc.stateDict(o.Parameters())
}

// LoadStateDict restores the running averages.
func (o *Adadelta) LoadStateDict(state map[string]*tensor.Array) error {
	return o.acc.load(o.Parameters(), state)
}
