// Package optim implements gradient-based optimizers for nn parameters.
//
// This package provides:
//   - Optimizer interface and Base, the shared parameter bookkeeping
//   - SGD with momentum, Adadelta, AdaGrad, RMSProp, Adam and RAdam
//   - StateDict / LoadStateDict for checkpointing accumulators
//   - New, a factory by name
//
// Every optimizer applies weight decay multiplicatively to the parameter
// (data -= weightDecay*data) right before its own update, and skips
// parameters that do not require gradients or have none.
//
// Example usage:
//
//	opt := optim.NewAdam(model, optim.AdamConfig{Config: optim.Config{LR: 2e-4}, Betas: &[2]float64{0.5, 0.999}})
//	for step := range steps {
//	    opt.ZeroGrad()
//	    loss := nn.MSELoss(model.Forward(x), y)
//	    loss.Backward()
//	    opt.Step()
//	    tape.Reset()
//	}
package optim

import (
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"k8s.io/klog/v2"

	"github.com/born-ml/qualia/internal/nn"
	"github.com/born-ml/qualia/internal/tensor"
)

// ErrNotImplemented is the panic value of Base.Step: Base only provides the
// bookkeeping shared by concrete optimizers.
var ErrNotImplemented = errors.New("optim: Step is not implemented by the base optimizer")

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step updates every parameter in place using its current gradient.
	Step()

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// LR returns the current learning rate.
	LR() float64

	// SetLR updates the learning rate, e.g. from a schedule.
	SetLR(lr float64)
}

// Stateful is implemented by optimizers whose accumulators can be exported
// and restored.
type Stateful interface {
	StateDict() map[string]*tensor.Array
	LoadStateDict(state map[string]*tensor.Array) error
}

// Config is the configuration shared by all optimizers.
type Config struct {
	LR          float64     // Learning rate; 0 selects the optimizer's default, use SetLR(0) to freeze.
	WeightDecay float64     // Multiplicative weight decay applied before each update.
	Logger      klog.Logger // Step tracing at V(2); the zero value discards.
}

// Base holds the parameter source and shared hyperparameters.
type Base struct {
	params      nn.ParameterSource
	lr          float64
	weightDecay float64
	logger      klog.Logger
}

// NewBase creates a Base optimizer. Using it directly is only useful for
// ZeroGrad; its Step panics with ErrNotImplemented.
func NewBase(params nn.ParameterSource, cfg Config) *Base {
	if params == nil {
		exceptions.Panicf("optim: nil parameter source")
	}
	return &Base{
		params:      params,
		lr:          cfg.LR,
		weightDecay: cfg.WeightDecay,
		logger:      cfg.Logger,
	}
}

// Step panics with ErrNotImplemented.
func (b *Base) Step() {
	panic(ErrNotImplemented)
}

// ZeroGrad sets every parameter's gradient to absent.
func (b *Base) ZeroGrad() {
	nn.ZeroGrad(b.params)
}

// LR returns the current learning rate.
func (b *Base) LR() float64 { return b.lr }

// SetLR updates the learning rate.
func (b *Base) SetLR(lr float64) { b.lr = lr }

// WeightDecay returns the weight decay coefficient.
func (b *Base) WeightDecay() float64 { return b.weightDecay }

// Parameters returns the current parameter enumeration.
func (b *Base) Parameters() []*nn.Parameter { return b.params.Parameters() }

// forEach calls update for every parameter that requires and has a gradient,
// after applying weight decay to it.
func (b *Base) forEach(update func(p *nn.Parameter, data, grad []float64)) {
	for _, p := range b.params.Parameters() {
		grad := p.Grad()
		if !p.RequiresGrad() || grad == nil {
			continue
		}
		if !p.Shape().Equal(grad.Shape()) {
			exceptions.Panicf("optim: parameter %q has shape %s but gradient %s", p.Name(), p.Shape(), grad.Shape())
		}
		data := p.Data().Data()
		if b.weightDecay != 0 {
			floats.AddScaled(data, -b.weightDecay, data)
		}
		update(p, data, grad.Data())
	}
}

func (b *Base) traceStep(name string, kv ...any) {
	if b.logger.V(2).Enabled() {
		b.logger.V(2).Info(name+" step", append([]any{"lr", b.lr}, kv...)...)
	}
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// Float returns a pointer to v, for the optional hyperparameters (Rho,
// Alpha, Betas) where zero is a meaningful setting.
func Float(v float64) *float64 { return &v }

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
