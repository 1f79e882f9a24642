package optim

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/born-ml/qualia/internal/nn"
)

// Options is the union of the hyperparameters of all optimizers, for
// building one by name. Fields an optimizer does not use are ignored. Zero
// values select defaults, and nil pointers do the same for Rho, Alpha and
// Betas.
type Options struct {
	Config
	Momentum float64
	Rho      *float64
	Alpha    *float64
	Betas    *[2]float64
	Eps      float64
}

var constructors = map[string]func(nn.ParameterSource, Options) Optimizer{
	"sgd": func(p nn.ParameterSource, o Options) Optimizer {
		return NewSGD(p, SGDConfig{Config: o.Config, Momentum: o.Momentum})
	},
	"adadelta": func(p nn.ParameterSource, o Options) Optimizer {
		return NewAdadelta(p, AdadeltaConfig{Config: o.Config, Rho: o.Rho, Eps: o.Eps})
	},
	"adagrad": func(p nn.ParameterSource, o Options) Optimizer {
		return NewAdaGrad(p, AdaGradConfig{Config: o.Config, Eps: o.Eps})
	},
	"rmsprop": func(p nn.ParameterSource, o Options) Optimizer {
		return NewRMSProp(p, RMSPropConfig{Config: o.Config, Alpha: o.Alpha, Eps: o.Eps})
	},
	"adam": func(p nn.ParameterSource, o Options) Optimizer {
		return NewAdam(p, AdamConfig{Config: o.Config, Betas: o.Betas, Eps: o.Eps})
	},
	"radam": func(p nn.ParameterSource, o Options) Optimizer {
		return NewRAdam(p, AdamConfig{Config: o.Config, Betas: o.Betas, Eps: o.Eps})
	},
}

// Names returns the names accepted by New, sorted.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates the optimizer registered under name (case-insensitive).
func New(name string, params nn.ParameterSource, opts Options) (Optimizer, error) {
	ctor, ok := constructors[strings.ToLower(name)]
	if !ok {
		return nil, errors.Errorf("unknown optimizer %q, valid names are %s", name, strings.Join(Names(), ", "))
	}
	return ctor(params, opts), nil
}
