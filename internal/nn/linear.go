package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/born-ml/qualia/internal/autodiff"
	"github.com/born-ml/qualia/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs y = tensordot(x, W, 1) + b where W has shape
// [in_features, out_features] and b has shape [out_features], so x may
// have any number of leading axes as long as its last one is in_features.
//
// Weights are initialized with Xavier/Glorot uniform, biases with zeros.
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter
	bias        *Parameter
}

// LinearOption configures a Linear layer.
type LinearOption func(*Linear)

// WithoutBias drops the bias term.
func WithoutBias() LinearOption {
	return func(l *Linear) { l.bias = nil }
}

// WithName prefixes the parameter names, e.g. "generator.linear1".
func WithName(prefix string) LinearOption {
	return func(l *Linear) {
		l.weight.rename(prefix + ".weight")
		if l.bias != nil {
			l.bias.rename(prefix + ".bias")
		}
	}
}

// NewLinear creates a Linear layer initialized from rng.
func NewLinear(inFeatures, outFeatures int, rng *rand.Rand, opts ...LinearOption) *Linear {
	if inFeatures <= 0 || outFeatures <= 0 {
		exceptions.Panicf("nn.NewLinear: invalid sizes %d -> %d", inFeatures, outFeatures)
	}
	l := &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", XavierUniform(rng, inFeatures, outFeatures)),
		bias:        NewParameter("bias", tensor.Zeros(outFeatures)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Forward computes the output of the linear layer.
func (l *Linear) Forward(x *autodiff.Value) *autodiff.Value {
	shape := x.Shape()
	if shape.Rank() == 0 || shape[shape.Rank()-1] != l.inFeatures {
		exceptions.Panicf("Linear.Forward: expected input with %d features in the last axis, got shape %s",
			l.inFeatures, shape)
	}
	if l.bias == nil {
		return autodiff.Linear(x, l.weight.Value, nil)
	}
	return autodiff.Linear(x, l.weight.Value, l.bias.Value)
}

// Parameters returns [weight, bias], or [weight] without bias.
func (l *Linear) Parameters() []*Parameter {
	if l.bias != nil {
		return []*Parameter{l.weight, l.bias}
	}
	return []*Parameter{l.weight}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter { return l.weight }

// Bias returns the bias parameter, nil without bias.
func (l *Linear) Bias() *Parameter { return l.bias }

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int { return l.inFeatures }

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int { return l.outFeatures }

// String implements fmt.Stringer.
func (l *Linear) String() string {
	return fmt.Sprintf("Linear(%d -> %d, bias=%t)", l.inFeatures, l.outFeatures, l.bias != nil)
}

// StateDict returns the parameter arrays keyed "weight" and "bias".
// The arrays are shared, not copied.
func (l *Linear) StateDict() map[string]*tensor.Array {
	state := make(map[string]*tensor.Array, 2)
	for key, p := range l.named() {
		state[key] = p.Data()
	}
	return state
}

// LoadStateDict copies parameters from a state dictionary. All problems are
// reported together and nothing is copied unless every entry is valid.
func (l *Linear) LoadStateDict(state map[string]*tensor.Array) error {
	named := l.named()
	var err error
	for key, p := range named {
		src, ok := state[key]
		switch {
		case !ok:
			err = multierr.Append(err, errors.Errorf("missing %q", key))
		case !src.Shape().Equal(p.Shape()):
			err = multierr.Append(err, errors.Errorf("%q shape mismatch: expected %s, got %s", key, p.Shape(), src.Shape()))
		}
	}
	if err != nil {
		return err
	}
	for key, p := range named {
		p.Data().CopyFrom(state[key])
	}
	return nil
}

func (l *Linear) named() map[string]*Parameter {
	named := map[string]*Parameter{"weight": l.weight}
	if l.bias != nil {
		named["bias"] = l.bias
	}
	return named
}
