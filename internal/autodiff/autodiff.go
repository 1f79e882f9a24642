// Package autodiff implements reverse-mode automatic differentiation over
// dynamically built (define-by-run) computation graphs.
//
// Architecture:
//   - Value: an array plus its accumulated gradient and a requires-grad flag.
//   - Tape: an arena of Nodes in creation order. A non-leaf Value holds an
//     integer NodeID into its tape instead of a pointer to its creator.
//   - Node: one applied ops.Operation together with its input Values.
//   - Backward: walks the tape in reverse creation order from the node that
//     produced the Value, which is a valid reverse topological order because
//     a node's inputs always have smaller IDs than the node itself.
//
// Usage:
//
//	tape := autodiff.NewTape()
//	w := autodiff.NewLeaf(tensor.RandN(rng, 3, 1), true)
//	x := tape.Constant(batch)
//	loss := autodiff.MSELoss(autodiff.Tensordot(x, w, 1), tape.Constant(target))
//	loss.Backward()
//	// w.Grad() now holds ∂loss/∂w
//	tape.Reset() // release the graph before the next iteration
//
// Leaves (parameters, inputs) survive Reset; Values produced by operations
// are released with the graph that recorded them.
package autodiff

import (
	"github.com/gomlx/exceptions"

	"github.com/born-ml/qualia/internal/autodiff/ops"
	"github.com/born-ml/qualia/internal/tensor"
)

// Apply records op on the tape its inputs belong to and returns the Value
// wrapping op's output.
//
// The inputs must all belong to the same tape; free leaves (see NewLeaf) fit
// into any tape. When every input is a free leaf, op is recorded on a fresh
// tape, reachable through the result's Tape method.
func Apply(op ops.Operation, inputs ...*Value) *Value {
	return tapeOf(op, inputs).record(op, inputs)
}

func tapeOf(op ops.Operation, inputs []*Value) *Tape {
	var t *Tape
	for _, in := range inputs {
		if in == nil {
			exceptions.Panicf("autodiff.%s: nil input", op.Kind())
		}
		if in.tape == nil {
			continue
		}
		if t != nil && in.tape != t {
			exceptions.Panicf("autodiff.%s: inputs belong to different tapes", op.Kind())
		}
		t = in.tape
	}
	if t == nil {
		t = NewTape()
	}
	return t
}

func arraysOf(values []*Value) []*tensor.Array {
	arrays := make([]*tensor.Array, len(values))
	for i, v := range values {
		arrays[i] = v.data
	}
	return arrays
}
