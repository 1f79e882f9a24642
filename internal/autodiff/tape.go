package autodiff

import (
	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"

	"github.com/born-ml/qualia/internal/autodiff/ops"
	"github.com/born-ml/qualia/internal/tensor"
)

// NodeID is the index of a Node in its Tape. IDs grow with creation order.
type NodeID int

// NoNode is the NodeID of leaves.
const NoNode NodeID = -1

// Node is one recorded application of an operation.
type Node struct {
	ID     NodeID
	Op     ops.Operation
	Inputs []*Value
	Output *Value
}

// Tape records operations during the forward pass as an arena of Nodes.
//
// Reset discards the whole arena at once; Values created before a reset are
// released and any later backward pass through them panics. Leaves survive.
// A Tape is not safe for concurrent use.
type Tape struct {
	nodes     []*Node
	gen       uint64
	recording bool
	logger    klog.Logger
}

// TapeOption configures a Tape.
type TapeOption func(*Tape)

// WithLogger sets the logger used to trace graph sizes (at V(4)).
// The default is a no-op logger.
func WithLogger(logger klog.Logger) TapeOption {
	return func(t *Tape) { t.logger = logger }
}

// NewTape creates an empty, recording Tape.
func NewTape(opts ...TapeOption) *Tape {
	t := &Tape{
		nodes:     make([]*Node, 0, 64),
		recording: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Leaf creates a leaf Value bound to this tape.
func (t *Tape) Leaf(data *tensor.Array, requiresGrad bool) *Value {
	v := NewLeaf(data, requiresGrad)
	v.tape = t
	return v
}

// Constant creates a leaf that does not require gradients, e.g. input data.
func (t *Tape) Constant(data *tensor.Array) *Value { return t.Leaf(data, false) }

// Variable creates a leaf that requires gradients.
func (t *Tape) Variable(data *tensor.Array) *Value { return t.Leaf(data, true) }

// StartRecording enables operation recording. Tapes start recording.
func (t *Tape) StartRecording() { t.recording = true }

// StopRecording disables operation recording: operations still compute
// their outputs but return constant leaves, as in evaluation.
func (t *Tape) StopRecording() { t.recording = false }

// IsRecording returns true if the tape is currently recording operations.
func (t *Tape) IsRecording() bool { return t.recording }

// Reset releases every recorded node and starts a new generation.
func (t *Tape) Reset() {
	if t.logger.V(4).Enabled() {
		t.logger.V(4).Info("tape reset", "nodes", len(t.nodes), "generation", t.gen)
	}
	clear(t.nodes)
	t.nodes = t.nodes[:0]
	t.gen++
}

// NumNodes returns the number of nodes recorded since the last Reset.
func (t *Tape) NumNodes() int { return len(t.nodes) }

// Generation returns the number of resets so far.
func (t *Tape) Generation() uint64 { return t.gen }

// Node returns the node with the given ID in the current generation.
func (t *Tape) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		exceptions.Panicf("Tape.Node: no node #%d (tape holds %d)", id, len(t.nodes))
	}
	return t.nodes[id]
}

func (t *Tape) record(op ops.Operation, inputs []*Value) *Value {
	requiresGrad := false
	for _, in := range inputs {
		in.mustBeLive(op.Kind().String())
		requiresGrad = requiresGrad || in.requiresGrad
	}
	data := op.Forward(arraysOf(inputs))
	if !t.recording {
		return t.Constant(data)
	}

	out := &Value{
		data:         data,
		requiresGrad: requiresGrad,
		tape:         t,
		node:         NodeID(len(t.nodes)),
		gen:          t.gen,
	}
	t.nodes = append(t.nodes, &Node{
		ID:     out.node,
		Op:     op,
		Inputs: append([]*Value(nil), inputs...),
		Output: out,
	})
	return out
}
