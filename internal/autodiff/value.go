package autodiff

import (
	"fmt"

	"github.com/gomlx/exceptions"

	"github.com/born-ml/qualia/internal/autodiff/ops"
	"github.com/born-ml/qualia/internal/tensor"
)

// Value is a node of the computation graph: an array, its accumulated
// gradient and whether gradients should be computed for it.
//
// A Value is either a leaf (created by NewLeaf or the Tape constructors) or
// the output of exactly one recorded operation.
type Value struct {
	data         *tensor.Array
	grad         *tensor.Array
	requiresGrad bool

	tape *Tape
	node NodeID
	gen  uint64
	name string
}

// NewLeaf creates a leaf Value that is not bound to any tape. It can be
// combined with Values of any tape, which makes it the natural container for
// model parameters that outlive many graphs. An operation on free leaves
// alone starts a new tape.
func NewLeaf(data *tensor.Array, requiresGrad bool) *Value {
	if data == nil {
		exceptions.Panicf("autodiff.NewLeaf: nil data")
	}
	return &Value{data: data, requiresGrad: requiresGrad, node: NoNode}
}

// Data returns the underlying array. Optimizers update it in place.
func (v *Value) Data() *tensor.Array { return v.data }

// Grad returns the accumulated gradient, or nil if none was computed since
// the last ZeroGrad.
func (v *Value) Grad() *tensor.Array { return v.grad }

// SetGrad replaces the accumulated gradient. The Value takes ownership of g,
// later backward passes add into it in place.
func (v *Value) SetGrad(g *tensor.Array) {
	if g != nil && !g.Shape().Equal(v.data.Shape()) {
		exceptions.Panicf("Value.SetGrad: gradient shape %s does not match data shape %s", g.Shape(), v.data.Shape())
	}
	v.grad = g
}

// ZeroGrad clears the gradient. It is idempotent.
func (v *Value) ZeroGrad() { v.grad = nil }

// RequiresGrad reports whether gradients are computed for this Value.
func (v *Value) RequiresGrad() bool { return v.requiresGrad }

// SetRequiresGrad toggles gradient computation. Only leaves may be toggled.
func (v *Value) SetRequiresGrad(requiresGrad bool) {
	if !v.IsLeaf() {
		exceptions.Panicf("Value.SetRequiresGrad: %s is not a leaf", v)
	}
	v.requiresGrad = requiresGrad
}

// IsLeaf reports whether the Value has no creator.
func (v *Value) IsLeaf() bool { return v.node == NoNode }

// Shape returns the shape of the data.
func (v *Value) Shape() tensor.Shape { return v.data.Shape() }

// Item returns the only element of a single-element Value, usually a loss.
func (v *Value) Item() float64 { return v.data.Item() }

// Tape returns the tape the Value is bound to, nil for free leaves.
func (v *Value) Tape() *Tape { return v.tape }

// Node returns the ID of the node that created the Value, or NoNode.
func (v *Value) Node() NodeID { return v.node }

// Creator returns the operation that produced the Value, or nil for leaves.
// It panics if the graph holding the operation was released.
func (v *Value) Creator() ops.Operation {
	if v.IsLeaf() {
		return nil
	}
	v.mustBeLive("Creator")
	return v.tape.nodes[v.node].Op
}

// Released reports whether the graph that produced the Value has been reset.
// Leaves are never released.
func (v *Value) Released() bool {
	return !v.IsLeaf() && v.gen != v.tape.gen
}

// Name returns the debug name, possibly empty.
func (v *Value) Name() string { return v.name }

// Named sets the debug name and returns v.
func (v *Value) Named(name string) *Value {
	v.name = name
	return v
}

// Detach returns a leaf sharing v's data that does not require gradients.
// Gradients never flow through it back into v's graph.
func (v *Value) Detach() *Value {
	return &Value{data: v.data, tape: v.tape, node: NoNode, name: v.name}
}

// String implements fmt.Stringer.
func (v *Value) String() string {
	name := v.name
	if name == "" {
		name = "Value"
	}
	switch {
	case v.IsLeaf():
		return fmt.Sprintf("%s%s(leaf, requiresGrad=%t)", name, v.data.Shape(), v.requiresGrad)
	case v.Released():
		return fmt.Sprintf("%s%s(node #%d, released)", name, v.data.Shape(), v.node)
	default:
		return fmt.Sprintf("%s%s(%s #%d, requiresGrad=%t)", name, v.data.Shape(),
			v.tape.nodes[v.node].Op.Kind(), v.node, v.requiresGrad)
	}
}

func (v *Value) mustBeLive(method string) {
	if v.Released() {
		exceptions.Panicf("Value.%s: %s belongs to a graph that was released by Tape.Reset (generation %d, tape is at %d)",
			method, v, v.gen, v.tape.gen)
	}
}

// accumulateGrad adds g into v.grad, taking a private copy on first use so
// that in-place accumulation never aliases an array owned elsewhere.
func (v *Value) accumulateGrad(g *tensor.Array) {
	if v.grad == nil {
		v.grad = g.Clone()
		return
	}
	v.grad.AddInPlace(1, g)
}
