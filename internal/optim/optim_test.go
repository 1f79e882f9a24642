package optim_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/qualia/internal/autodiff"
	"github.com/born-ml/qualia/internal/nn"
	"github.com/born-ml/qualia/internal/optim"
	"github.com/born-ml/qualia/internal/tensor"
)

// param returns a one-element parameter with the given data and gradient.
func param(data, grad float64) *nn.Parameter {
	p := nn.NewParameter("p", tensor.MustFromSlice([]float64{data}, 1))
	p.SetGrad(tensor.MustFromSlice([]float64{grad}, 1))
	return p
}

func value(p *nn.Parameter) float64 { return p.Data().Data()[0] }

func TestSGD_Deterministic(t *testing.T) {
	p := param(1, 2)
	opt := optim.NewSGD(nn.Params{p}, optim.SGDConfig{Config: optim.Config{LR: 0.1}})
	opt.Step()
	assert.InDelta(t, 0.8, value(p), 1e-12)
}

func TestSGD_Momentum(t *testing.T) {
	p := param(1, 2)
	opt := optim.NewSGD(nn.Params{p}, optim.SGDConfig{Config: optim.Config{LR: 0.1}, Momentum: 0.9})
	opt.Step()
	assert.InDelta(t, 0.98, value(p), 1e-12)
	opt.Step()
	assert.InDelta(t, 0.942, value(p), 1e-12)
}

func TestWeightDecay_IsMultiplicative(t *testing.T) {
	p := param(1, 2)
	opt := optim.NewSGD(nn.Params{p}, optim.SGDConfig{Config: optim.Config{LR: 0.1, WeightDecay: 0.1}})
	opt.Step()
	// data -= 0.1*data, then data -= lr*grad
	assert.InDelta(t, 0.7, value(p), 1e-12)
	assert.InDelta(t, 0.1, opt.WeightDecay(), 0)
}

func TestAdaptiveRules(t *testing.T) {
	tests := []struct {
		name string
		opt  func(nn.ParameterSource, float64) optim.Optimizer
		want float64 // After one step from data 1 with gradient 2 and no weight decay.
	}{
		{"sgd", func(p nn.ParameterSource, wd float64) optim.Optimizer {
			return optim.NewSGD(p, optim.SGDConfig{Config: optim.Config{LR: 0.1, WeightDecay: wd}, Momentum: 0.9})
		}, 0.8},
		{"adadelta", func(p nn.ParameterSource, wd float64) optim.Optimizer {
			return optim.NewAdadelta(p, optim.AdadeltaConfig{Config: optim.Config{WeightDecay: wd}})
		}, 0.9968377262926713},
		{"adagrad", func(p nn.ParameterSource, wd float64) optim.Optimizer {
			return optim.NewAdaGrad(p, optim.AdaGradConfig{Config: optim.Config{WeightDecay: wd}})
		}, 1 - 0.01*2/math.Sqrt(4+1e-8)},
		{"rmsprop", func(p nn.ParameterSource, wd float64) optim.Optimizer {
			return optim.NewRMSProp(p, optim.RMSPropConfig{Config: optim.Config{WeightDecay: wd}})
		}, 1 - 0.01*2/math.Sqrt(0.04+1e-8)},
		{"adam", func(p nn.ParameterSource, wd float64) optim.Optimizer {
			return optim.NewAdam(p, optim.AdamConfig{Config: optim.Config{LR: 0.1, WeightDecay: wd}})
		}, 1 - 0.1*2/math.Sqrt(4+1e-8)},
		{"radam", func(p nn.ParameterSource, wd float64) optim.Optimizer {
			return optim.NewRAdam(p, optim.AdamConfig{Config: optim.Config{LR: 0.1, WeightDecay: wd}})
		}, 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := param(1, 2)
			tt.opt(nn.Params{p}, 0).Step()
			assert.InDelta(t, tt.want, value(p), 1e-9)
		})
		// None of the first-step updates depend on the data, so decaying
		// 1 to 1-wd shifts the result by exactly wd.
		for _, wd := range []float64{0.1, 0.5} {
			t.Run(fmt.Sprintf("%s weight_decay=%g", tt.name, wd), func(t *testing.T) {
				p := param(1, 2)
				opt := tt.opt(nn.Params{p}, wd)
				opt.Step()
				assert.InDelta(t, tt.want-wd, value(p), 1e-9)
			})
		}
	}
}

func TestZeroCoefficients_AreHonored(t *testing.T) {
	t.Run("adam beta1=0", func(t *testing.T) {
		p := param(1, 2)
		opt := optim.NewAdam(nn.Params{p}, optim.AdamConfig{
			Config: optim.Config{LR: 0.1},
			Betas:  &[2]float64{0, 0.999},
		})
		opt.Step()
		require.InDelta(t, 1-0.1*2/math.Sqrt(4+1e-8), value(p), 1e-9)

		// Without momentum the reversed gradient undoes the first move
		// exactly; beta1=0.9 would still drift downwards.
		p.SetGrad(tensor.MustFromSlice([]float64{-2}, 1))
		opt.Step()
		assert.InDelta(t, 1, value(p), 1e-9)
	})

	t.Run("rmsprop alpha=0", func(t *testing.T) {
		p := param(1, 2)
		optim.NewRMSProp(nn.Params{p}, optim.RMSPropConfig{Alpha: optim.Float(0)}).Step()
		assert.InDelta(t, 1-0.01*2/math.Sqrt(4+1e-8), value(p), 1e-9)
	})

	t.Run("adadelta rho=0", func(t *testing.T) {
		p := param(1, 2)
		optim.NewAdadelta(nn.Params{p}, optim.AdadeltaConfig{Rho: optim.Float(0)}).Step()
		assert.InDelta(t, 1-math.Sqrt(1e-6)*2/math.Sqrt(4+1e-6), value(p), 1e-12)
	})

	t.Run("factory", func(t *testing.T) {
		p := param(1, 2)
		opt, err := optim.New("rmsprop", nn.Params{p}, optim.Options{Alpha: optim.Float(0)})
		require.NoError(t, err)
		opt.Step()
		assert.InDelta(t, 1-0.01*2/math.Sqrt(4+1e-8), value(p), 1e-9)
	})

	t.Run("lr=0 via SetLR", func(t *testing.T) {
		p := param(1, 2)
		opt := optim.NewAdam(nn.Params{p}, optim.AdamConfig{})
		opt.SetLR(0)
		opt.Step()
		assert.InDelta(t, 1, value(p), 0)
	})
}

func TestDefaults(t *testing.T) {
	params := nn.Params{param(1, 1)}
	assert.InDelta(t, 1e-3, optim.NewSGD(params, optim.SGDConfig{}).LR(), 0)
	assert.InDelta(t, 1.0, optim.NewAdadelta(params, optim.AdadeltaConfig{}).LR(), 0)
	assert.InDelta(t, 1e-2, optim.NewAdaGrad(params, optim.AdaGradConfig{}).LR(), 0)
	assert.InDelta(t, 1e-2, optim.NewRMSProp(params, optim.RMSPropConfig{}).LR(), 0)
	assert.InDelta(t, 1e-3, optim.NewAdam(params, optim.AdamConfig{}).LR(), 0)
	radam := optim.NewRAdam(params, optim.AdamConfig{})
	assert.InDelta(t, 1e-3, radam.LR(), 0)
	assert.InDelta(t, 1999, radam.RhoInf(), 1e-9)

	radam.SetLR(0.5)
	assert.InDelta(t, 0.5, radam.LR(), 0)
}

func TestRAdam_RectificationBoundary(t *testing.T) {
	p := param(1, 2)
	opt := optim.NewRAdam(nn.Params{p}, optim.AdamConfig{Config: optim.Config{LR: 0.1}})

	// Constant gradients make m̂ equal to the gradient, so the first four
	// steps each move by lr*2.
	want := []float64{0.8, 0.6, 0.4, 0.2}
	for step, w := range want {
		opt.Step()
		require.InDelta(t, w, value(p), 1e-9, "step %d", step+1)
	}

	// Step 5 switches to the rectified update, a much smaller move.
	opt.Step()
	assert.Equal(t, 5, opt.Steps())
	assert.InDelta(t, 0.19826884969202438, value(p), 1e-9)
	opt.Step()
	assert.InDelta(t, 0.19568673842474907, value(p), 1e-9)
}

func TestStep_SkipsFrozenAndGradless(t *testing.T) {
	frozen := param(1, 2)
	frozen.Freeze()
	gradless := nn.NewParameter("g", tensor.Ones(1))
	live := param(1, 2)

	for _, name := range optim.Names() {
		t.Run(name, func(t *testing.T) {
			opt, err := optim.New(name, nn.Params{frozen, gradless, live}, optim.Options{})
			require.NoError(t, err)
			before := value(live)
			opt.Step()
			assert.InDelta(t, 1, value(frozen), 0)
			assert.InDelta(t, 1, value(gradless), 0)
			assert.NotEqual(t, before, value(live))
		})
	}
}

func TestBase(t *testing.T) {
	p := param(1, 2)
	base := optim.NewBase(nn.Params{p}, optim.Config{LR: 0.1})
	assert.PanicsWithValue(t, optim.ErrNotImplemented, base.Step)

	base.ZeroGrad()
	assert.Nil(t, p.Grad())
	base.ZeroGrad()
	assert.Nil(t, p.Grad())

	assert.Panics(t, func() { optim.NewBase(nil, optim.Config{}) })
}

func TestState_KeyedByParameterIdentity(t *testing.T) {
	a, b := param(1, 2), param(1, 2)
	params := nn.Params{a, b}
	opt := optim.NewSGD(&params, optim.SGDConfig{Config: optim.Config{LR: 0.1}, Momentum: 0.5})
	opt.Step()

	// Reordering the enumeration keeps each parameter's velocity.
	params[0], params[1] = b, a
	b.SetGrad(tensor.MustFromSlice([]float64{0}, 1))
	opt.Step()
	// a: v = 0.5*1 + 0.5*2 = 1.5, data = 0.9 - 0.15
	assert.InDelta(t, 0.75, value(a), 1e-12)
	// b: v = 0.5*1 + 0 = 0.5, data = 0.9 - 0.05
	assert.InDelta(t, 0.85, value(b), 1e-12)
}

func TestZeroGrad_Idempotent(t *testing.T) {
	tape := autodiff.NewTape()
	p := nn.NewParameter("w", tensor.Ones(3))
	opt := optim.NewAdam(nn.Params{p}, optim.AdamConfig{})
	autodiff.Sum(autodiff.Mul(p.Value, tape.Constant(tensor.Ones(3)))).Backward()
	require.NotNil(t, p.Grad())

	opt.ZeroGrad()
	opt.ZeroGrad()
	assert.Nil(t, p.Grad())
	before := p.Data().Clone()
	opt.Step()
	assert.True(t, tensor.Equal(before, p.Data()), "no gradient, no update")
}

func TestStateDict_RoundTrip(t *testing.T) {
	for _, name := range optim.Names() {
		t.Run(name, func(t *testing.T) {
			a, b := param(1, 2), param(-1, 0.5)
			opt, err := optim.New(name, nn.Params{a, b}, optim.Options{})
			require.NoError(t, err)
			opt.Step()
			opt.Step()

			c, d := param(value(a), 2), param(value(b), 0.5)
			restored, err := optim.New(name, nn.Params{c, d}, optim.Options{})
			require.NoError(t, err)
			state := opt.(optim.Stateful).StateDict()
			require.NoError(t, restored.(optim.Stateful).LoadStateDict(state))

			opt.Step()
			restored.Step()
			assert.InDelta(t, value(a), value(c), 1e-15)
			assert.InDelta(t, value(b), value(d), 1e-15)
		})
	}
}

func TestStateDict_Keys(t *testing.T) {
	frozen := param(1, 2)
	frozen.Freeze()
	opt := optim.NewAdam(nn.Params{frozen, param(1, 2)}, optim.AdamConfig{})
	opt.Step()
	state := opt.StateDict()
	assert.Len(t, state, 3)
	assert.Contains(t, state, "m.1")
	assert.Contains(t, state, "v.1")
	assert.InDelta(t, 1, state["step"].Item(), 0)
}

func TestLoadStateDict_CollectsErrors(t *testing.T) {
	p := param(1, 2)
	opt := optim.NewAdam(nn.Params{p}, optim.AdamConfig{})
	err := opt.LoadStateDict(map[string]*tensor.Array{
		"step": tensor.Scalar(3),
		"m.0":  tensor.Ones(2),
		"v.7":  tensor.Ones(1),
		"x.0":  tensor.Ones(1),
	})
	require.Error(t, err)
	for _, want := range []string{`key "m.0": shape (2)`, `key "v.7": parameter index out of range`, `unexpected key "x.0"`} {
		assert.Contains(t, err.Error(), want)
	}
	assert.Equal(t, 0, opt.Steps(), "failed loads change nothing")

	err = opt.LoadStateDict(map[string]*tensor.Array{"m.0": tensor.Ones(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing "step"`)

	err = opt.LoadStateDict(map[string]*tensor.Array{"step": tensor.Scalar(1), "m.0": tensor.Ones(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing slot "v"`)
}

func TestNew_UnknownName(t *testing.T) {
	assert.Equal(t, []string{"adadelta", "adagrad", "adam", "radam", "rmsprop", "sgd"}, optim.Names())

	opt, err := optim.New("RAdam", nn.Params{}, optim.Options{Config: optim.Config{LR: 0.3}})
	require.NoError(t, err)
	assert.IsType(t, &optim.RAdam{}, opt)
	assert.InDelta(t, 0.3, opt.LR(), 0)

	_, err = optim.New("lbfgs", nn.Params{}, optim.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown optimizer "lbfgs"`)
}

// TestOptimizers_FitLine trains y = 3x - 1 with every optimizer at its
// default settings and expects the loss to drop.
func TestOptimizers_FitLine(t *testing.T) {
	x := tensor.MustFromSlice([]float64{-1, -0.5, 0, 0.5, 1}, 5, 1)
	y := tensor.Add(tensor.Scale(x, 3), tensor.Full(-1, 5, 1))

	for _, name := range optim.Names() {
		t.Run(name, func(t *testing.T) {
			w := nn.NewParameter("w", tensor.Zeros(1, 1))
			b := nn.NewParameter("b", tensor.Zeros(1))
			opt, err := optim.New(name, nn.Params{w, b}, optim.Options{})
			require.NoError(t, err)

			tape := autodiff.NewTape()
			loss := func() float64 {
				opt.ZeroGrad()
				l := nn.MSELoss(autodiff.Linear(tape.Constant(x), w.Value, b.Value), tape.Constant(y))
				l.Backward()
				v := l.Item()
				tape.Reset()
				return v
			}
			first := loss()
			for range 50 {
				loss()
				opt.Step()
			}
			assert.Less(t, loss(), first)
		})
	}
}
