package nn

import (
	"github.com/google/uuid"

	"github.com/born-ml/qualia/internal/autodiff"
	"github.com/born-ml/qualia/internal/tensor"
)

// Parameter is a trainable leaf Value with a stable identity.
//
// Optimizers key their per-parameter state by ID, so reordering or
// rebuilding the parameter list never mixes up accumulators.
//
// Example:
//
//	weight := nn.NewParameter("linear1.weight", nn.XavierUniform(rng, 784, 128))
//	// ... forward, Backward ...
//	grad := weight.Grad()
type Parameter struct {
	*autodiff.Value

	id   uuid.UUID
	name string
}

// NewParameter wraps data in a grad-requiring free leaf.
func NewParameter(name string, data *tensor.Array) *Parameter {
	return &Parameter{
		Value: autodiff.NewLeaf(data, true).Named(name),
		id:    uuid.New(),
		name:  name,
	}
}

// ID returns the parameter's stable identity.
func (p *Parameter) ID() uuid.UUID { return p.id }

// Name returns the parameter name.
func (p *Parameter) Name() string { return p.name }

func (p *Parameter) rename(name string) {
	p.name = name
	p.Named(name)
}

// Freeze stops gradient computation for the parameter; optimizers skip it.
func (p *Parameter) Freeze() { p.SetRequiresGrad(false) }

// Unfreeze re-enables gradient computation.
func (p *Parameter) Unfreeze() { p.SetRequiresGrad(true) }
