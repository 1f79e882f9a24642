package optim

import (
	"math"

	"github.com/born-ml/qualia/internal/nn"
	"github.com/born-ml/qualia/internal/tensor"
)

// RAdam implements Rectified Adam.
//
// With ρ∞ = 2/(1-beta2) - 1 and ρt = ρ∞ - 2t·beta2^t/(1-beta2^t):
//
//	t > 4:  r = sqrt((ρt-4)(ρt-2)ρ∞ / ((ρ∞-4)(ρ∞-2)ρt))
//	        param -= lr * r * m̂ / (sqrt(v/(1-beta2^t)) + eps)
//	t ≤ 4:  param -= lr * m̂
//
// The variance estimate is not trusted during the first four steps, which
// therefore apply the bias-corrected momentum alone.
//
// Reference: "On the Variance of the Adaptive Learning Rate and Beyond"
// (Liu et al., 2019)
type RAdam struct {
	*Base
	beta1, beta2, eps float64
	rhoInf            float64
	t                 int
	moments           slots
}

// rectifyAfter is the last step that skips the variance rectification.
const rectifyAfter = 4

// NewRAdam creates an RAdam optimizer. Defaults match Adam.
func NewRAdam(params nn.ParameterSource, cfg AdamConfig) *RAdam {
	cfg = cfg.withDefaults()
	return &RAdam{
		Base:    NewBase(params, cfg.Config),
		beta1:   cfg.Betas[0],
		beta2:   cfg.Betas[1],
		eps:     cfg.Eps,
		rhoInf:  2/(1-cfg.Betas[1]) - 1,
		moments: newSlots("m", "v"),
	}
}

// Step performs a single optimization step.
func (o *RAdam) Step() {
	o.t++
	t := float64(o.t)
	bc1 := 1 - math.Pow(o.beta1, t)
	beta2t := math.Pow(o.beta2, t)
	bc2 := 1 - beta2t
	rho := o.rhoInf - 2*t*beta2t/bc2
	rectified := o.t > rectifyAfter
	var r float64
	if rectified {
		r = math.Sqrt((rho - 4) * (rho - 2) * o.rhoInf / ((o.rhoInf - 4) * (o.rhoInf - 2) * rho))
	}

	o.forEach(func(p *nn.Parameter, data, grad []float64) {
		s := o.moments.get(p)
		updateMoments(s[0], s[1], grad, o.beta1, o.beta2)
		m, v := s[0], s[1]
		for i := range data {
			mHat := m[i] / bc1
			if rectified {
				data[i] -= o.lr * r * mHat / (math.Sqrt(v[i]/bc2) + o.eps)
			} else {
				data[i] -= o.lr * mHat
			}
		}
	})
	o.traceStep("radam", "t", o.t, "rho", rho, "rectified", rectified)
}

// Steps returns the global step counter.
func (o *RAdam) Steps() int { return o.t }

// RhoInf returns the maximum length of the approximated simple moving
// average, 2/(1-beta2) - 1.
func (o *RAdam) RhoInf() float64 { return o.rhoInf }

// StateDict exports the moments keyed "m.<i>" and "v.<i>" plus the step
// counter under "step".
func (o *RAdam) StateDict() map[string]*tensor.Array {
	state := o.moments.stateDict(o.Parameters())
	state[stepKey] = tensor.Scalar(float64(o.t))
	return state
}

// LoadStateDict restores the moments and the step counter.
func (o *RAdam) LoadStateDict(state map[string]*tensor.Array) error {
	t, err := stepFromState(state)
	if err != nil {
		return err
	}
	if err := o.moments.load(o.Parameters(), state, stepKey); err != nil {
		return err
	}
	o.t = t
	return nil
}
