package optim

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/born-ml/qualia/internal/nn"
	"github.com/born-ml/qualia/internal/tensor"
)

// stepKey holds the global step counter in state dicts of Adam and RAdam.
const stepKey = "step"

// slots stores named per-parameter accumulators keyed by parameter ID.
// Accumulators are created as zeros on first use.
type slots struct {
	names []string
	byID  map[uuid.UUID][]*tensor.Array
}

func newSlots(names ...string) slots {
	return slots{names: names, byID: make(map[uuid.UUID][]*tensor.Array)}
}

// get returns p's accumulators, one per slot name.
func (s *slots) get(p *nn.Parameter) [][]float64 {
	arrays, ok := s.byID[p.ID()]
	if !ok {
		arrays = make([]*tensor.Array, len(s.names))
		for i := range arrays {
			arrays[i] = tensor.ZerosLike(p.Data())
		}
		s.byID[p.ID()] = arrays
	}
	data := make([][]float64, len(arrays))
	for i, a := range arrays {
		data[i] = a.Data()
	}
	return data
}

// len returns the number of parameters with accumulators.
func (s *slots) len() int { return len(s.byID) }

// stateDict exports the accumulators as "<slot>.<param index>", where the
// index is the parameter's position in params. Arrays are copied.
func (s *slots) stateDict(params []*nn.Parameter) map[string]*tensor.Array {
	state := make(map[string]*tensor.Array, len(s.names)*len(params))
	for i, p := range params {
		arrays, ok := s.byID[p.ID()]
		if !ok {
			continue
		}
		for j, name := range s.names {
			state[name+"."+strconv.Itoa(i)] = arrays[j].Clone()
		}
	}
	return state
}

// load validates every entry of state against params and installs copies of
// the accumulators. Nothing changes unless all entries are valid; all
// problems are reported together. extra lists keys handled by the caller.
func (s *slots) load(params []*nn.Parameter, state map[string]*tensor.Array, extra ...string) error {
	loaded := make(map[uuid.UUID][]*tensor.Array)
	var err error
	for key, a := range state {
		if slices.Contains(extra, key) {
			continue
		}
		name, idxStr, found := strings.Cut(key, ".")
		slot := slices.Index(s.names, name)
		if !found || slot < 0 {
			err = multierr.Append(err, errors.Errorf("unexpected key %q (slots are %v)", key, s.names))
			continue
		}
		idx, convErr := strconv.Atoi(idxStr)
		if convErr != nil || idx < 0 || idx >= len(params) {
			err = multierr.Append(err, errors.Errorf("key %q: parameter index out of range [0, %d)", key, len(params)))
			continue
		}
		p := params[idx]
		if !a.Shape().Equal(p.Shape()) {
			err = multierr.Append(err, errors.Errorf("key %q: shape %s does not match parameter %q of shape %s",
				key, a.Shape(), p.Name(), p.Shape()))
			continue
		}
		arrays, ok := loaded[p.ID()]
		if !ok {
			arrays = make([]*tensor.Array, len(s.names))
			loaded[p.ID()] = arrays
		}
		arrays[slot] = a.Clone()
	}
	for id, arrays := range loaded {
		for j, a := range arrays {
			if a == nil {
				err = multierr.Append(err, errors.Errorf("parameter %s: missing slot %q", paramName(params, id), s.names[j]))
			}
		}
	}
	if err != nil {
		return err
	}
	s.byID = loaded
	return nil
}

func stepFromState(state map[string]*tensor.Array) (int, error) {
	a, ok := state[stepKey]
	if !ok {
		return 0, errors.Errorf("missing %q", stepKey)
	}
	if a.Size() != 1 || a.Item() < 0 {
		return 0, errors.Errorf("%q must be a single non-negative value, got %s", stepKey, a)
	}
	return int(a.Item()), nil
}

func paramName(params []*nn.Parameter, id uuid.UUID) string {
	for i, p := range params {
		if p.ID() == id {
			return fmt.Sprintf("%d (%q)", i, p.Name())
		}
	}
	return id.String()
}

