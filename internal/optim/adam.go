package optim

import (
	"math"

	"github.com/born-ml/qualia/internal/nn"
	"github.com/born-ml/qualia/internal/tensor"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule, with t the global step counter:
//
//	m = beta1*m + (1-beta1)*grad
//	v = beta2*v + (1-beta2)*grad²
//	m̂ = m / (1-beta1^t)
//	v̂ = v / (1-beta2^t)
//	param -= lr * m̂ / sqrt(v̂+eps)
//
// Note that eps sits inside the square root.
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	*Base
	beta1, beta2, eps float64
	t                 int
	moments           slots
}

// AdamConfig holds configuration for Adam and RAdam.
type AdamConfig struct {
	Config
	Betas *[2]float64 // Running average coefficients (default: [0.9, 0.999])
	Eps   float64     // Numerical stability term (default: 1e-8)
}

func (cfg AdamConfig) withDefaults() AdamConfig {
	cfg.LR = orDefault(cfg.LR, 1e-3)
	if cfg.Betas == nil {
		cfg.Betas = &[2]float64{0.9, 0.999}
	}
	cfg.Eps = orDefault(cfg.Eps, 1e-8)
	return cfg
}

// NewAdam creates an Adam optimizer. LR defaults to 1e-3.
func NewAdam(params nn.ParameterSource, cfg AdamConfig) *Adam {
	cfg = cfg.withDefaults()
	return &Adam{
		Base:    NewBase(params, cfg.Config),
		beta1:   cfg.Betas[0],
		beta2:   cfg.Betas[1],
		eps:     cfg.Eps,
		moments: newSlots("m", "v"),
	}
}

// Step performs a single optimization step.
func (o *Adam) Step() {
	o.t++
	bc1 := 1 - math.Pow(o.beta1, float64(o.t))
	bc2 := 1 - math.Pow(o.beta2, float64(o.t))
	o.forEach(func(p *nn.Parameter, data, grad []float64) {
		s := o.moments.get(p)
		updateMoments(s[0], s[1], grad, o.beta1, o.beta2)
		m, v := s[0], s[1]
		for i := range data {
			data[i] -= o.lr * (m[i] / bc1) / math.Sqrt(v[i]/bc2+o.eps)
		}
	})
	o.traceStep("adam", "t", o.t)
}

// Steps returns the global step counter.
func (o *Adam) Steps() int { return o.t }

// StateDict exports the moments keyed "m.<i>" and "v.<i>" plus the step
// counter under "step".
func (o *Adam) StateDict() map[string]*tensor.Array {
	state := o.moments.stateDict(o.Parameters())
	state[stepKey] = tensor.Scalar(float64(o.t))
	return state
}

// LoadStateDict restores the moments and the step counter.
func (o *Adam) LoadStateDict(state map[string]*tensor.Array) error {
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

// updateMoments advances the biased first and second moment estimates.
func updateMoments(m, v, grad []float64, beta1, beta2 float64) {
	for i, g := range grad {
		m[i] = beta1*m[i] + (1-beta1)*g
		v[i] = beta2*v[i] + (1-beta2)*g*g
	}
}
