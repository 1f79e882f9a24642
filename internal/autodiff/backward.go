package autodiff

import (
	"github.com/gomlx/exceptions"

	"github.com/born-ml/qualia/internal/tensor"
)

// Backward computes the gradient of v with respect to every grad-requiring
// Value it depends on, seeding the traversal with ones of v's shape
// (conventionally v is a scalar loss).
//
// Gradients are added into each reached Value's Grad, so repeated calls
// accumulate until ZeroGrad. Backward on a Value that does not require
// gradients is a no-op; on a leaf it only seeds the leaf's own gradient.
// It panics if v's graph was released by Tape.Reset.
func (v *Value) Backward() {
	v.BackwardWith(tensor.OnesLike(v.data))
}

// BackwardWith is Backward with an explicit upstream gradient, which must
// have v's shape.
func (v *Value) BackwardWith(seed *tensor.Array) {
	if !seed.Shape().Equal(v.data.Shape()) {
		exceptions.Panicf("Value.Backward: seed shape %s does not match %s", seed.Shape(), v.data.Shape())
	}
	if !v.requiresGrad {
		return
	}
	if v.IsLeaf() {
		v.accumulateGrad(seed)
		return
	}
	v.mustBeLive("Backward")
	v.tape.backward(v, seed)
}

// backward walks the nodes from root's creator down to node 0. Every node
// is visited after all of its consumers, since consumers have larger IDs.
func (t *Tape) backward(root *Value, seed *tensor.Array) {
	upstream := map[*Value]*tensor.Array{root: seed}
	visited := 0
	for id := root.node; id >= 0; id-- {
		node := t.nodes[id]
		g, ok := upstream[node.Output]
		if !ok {
			continue
		}
		delete(upstream, node.Output)
		node.Output.accumulateGrad(g)
		visited++

		inputGrads := node.Op.Backward(g, arraysOf(node.Inputs), node.Output.data)
		if len(inputGrads) != len(node.Inputs) {
			exceptions.Panicf("autodiff: %s backward returned %d gradients for %d inputs",
				node.Op.Kind(), len(inputGrads), len(node.Inputs))
		}
		for i, in := range node.Inputs {
			if !in.requiresGrad {
				continue
			}
			gi := inputGrads[i]
			if !gi.Shape().Equal(in.data.Shape()) {
				exceptions.Panicf("autodiff: %s backward returned gradient of shape %s for input %d of shape %s",
					node.Op.Kind(), gi.Shape(), i, in.data.Shape())
			}
			if in.IsLeaf() {
				in.accumulateGrad(gi)
				continue
			}
			if prev, ok := upstream[in]; ok {
				upstream[in] = tensor.Add(prev, gi)
			} else {
				upstream[in] = gi
			}
		}
	}
	if t.logger.V(4).Enabled() {
		t.logger.V(4).Info("backward", "root", root.node, "visited", visited, "recorded", len(t.nodes))
	}
}
