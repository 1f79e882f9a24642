package nn

import (
	"fmt"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"

	"github.com/born-ml/qualia/internal/autodiff"
	"github.com/born-ml/qualia/internal/tensor"
)

// StateModule is a Module whose parameters can be exported and restored.
type StateModule interface {
	Module
	StateDict() map[string]*tensor.Array
	LoadStateDict(state map[string]*tensor.Array) error
}

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(784, 128, rng),
//	    nn.NewReLU(),
//	    nn.NewLinear(128, 10, rng),
//	)
//	output := model.Forward(input)
//
// A Sequential is in training mode when created. Eval switches it to
// evaluation mode, in which Forward records nothing on the input's tape.
type Sequential struct {
	modules []Module
	eval    bool
}

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return &Sequential{modules: modules}
}

// Forward applies all modules in sequence.
func (s *Sequential) Forward(x *autodiff.Value) *autodiff.Value {
	if s.eval {
		if tape := x.Tape(); tape != nil && tape.IsRecording() {
			tape.StopRecording()
			defer tape.StartRecording()
		}
	}
	out := x
	for _, m := range s.modules {
		out = m.Forward(out)
	}
	return out
}

// Parameters returns the parameters of all modules, in module order.
func (s *Sequential) Parameters() []*Parameter {
	var params []*Parameter
	for _, m := range s.modules {
		params = append(params, m.Parameters()...)
	}
	return params
}

// Add appends a module to the sequence.
func (s *Sequential) Add(m Module) { s.modules = append(s.modules, m) }

// Len returns the number of modules in the sequence.
func (s *Sequential) Len() int { return len(s.modules) }

// Module returns the module at the given index.
func (s *Sequential) Module(index int) Module {
	if index < 0 || index >= len(s.modules) {
		exceptions.Panicf("Sequential.Module: index %d out of bounds [0, %d)", index, len(s.modules))
	}
	return s.modules[index]
}

// Train switches to training mode.
func (s *Sequential) Train() { s.eval = false }

// Eval switches to evaluation mode.
func (s *Sequential) Eval() { s.eval = true }

// Training reports whether the container is in training mode.
func (s *Sequential) Training() bool { return !s.eval }

// String implements fmt.Stringer.
func (s *Sequential) String() string {
	parts := make([]string, len(s.modules))
	for i, m := range s.modules {
		parts[i] = fmt.Sprintf("  (%d) %v", i, m)
	}
	return "Sequential(\n" + strings.Join(parts, "\n") + "\n)"
}

// StateDict returns the state of every StateModule, keys prefixed with the
// module index (e.g. "0.weight", "2.bias").
func (s *Sequential) StateDict() map[string]*tensor.Array {
	state := make(map[string]*tensor.Array)
	for i, m := range s.modules {
		sm, ok := m.(StateModule)
		if !ok {
			continue
		}
		for name, a := range sm.StateDict() {
			state[fmt.Sprintf("%d.%s", i, name)] = a
		}
	}
	return state
}

// LoadStateDict restores the modules from keys produced by StateDict.
func (s *Sequential) LoadStateDict(state map[string]*tensor.Array) error {
	for i, m := range s.modules {
		sm, ok := m.(StateModule)
		if !ok {
			continue
		}
		prefix := fmt.Sprintf("%d.", i)
		sub := make(map[string]*tensor.Array)
		for key, a := range state {
			if name, found := strings.CutPrefix(key, prefix); found {
				sub[name] = a
			}
		}
		if err := sm.LoadStateDict(sub); err != nil {
			return errors.Wrapf(err, "failed to load module %d", i)
		}
	}
	return nil
}
