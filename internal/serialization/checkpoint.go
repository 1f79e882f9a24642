package serialization

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/born-ml/qualia/internal/nn"
	"github.com/born-ml/qualia/internal/optim"
	"github.com/born-ml/qualia/internal/tensor"
)

// SaveCheckpoint writes the state of model and, if not nil, of opt to path.
func SaveCheckpoint(path string, model nn.StateModule, opt optim.Stateful, meta CheckpointMeta) error {
	f := &File{
		Header: Header{
			ModelType:  fmt.Sprintf("%T", model),
			Checkpoint: &meta,
		},
		Tensors: make(map[string]*tensor.Array),
	}
	for k, a := range model.StateDict() {
		f.Tensors[ModelPrefix+k] = a
	}
	if opt != nil {
		for k, a := range opt.StateDict() {
			f.Tensors[OptimizerPrefix+k] = a
		}
	}
	return Save(path, f)
}

// LoadCheckpoint restores model and, if not nil, opt from the checkpoint at
// path and returns its metadata.
func LoadCheckpoint(path string, model nn.StateModule, opt optim.Stateful) (*CheckpointMeta, error) {
	f, err := Load(path, ReaderOptions{})
	if err != nil {
		return nil, err
	}
	if f.Header.Checkpoint == nil {
		return nil, errors.Wrapf(ErrNotCheckpoint, "%q", path)
	}
	modelState, optState := f.Split()
	if err := model.LoadStateDict(modelState); err != nil {
		return nil, errors.WithMessage(err, "failed to restore model")
	}
	if opt != nil {
		if err := opt.LoadStateDict(optState); err != nil {
			return nil, errors.WithMessage(err, "failed to restore optimizer")
		}
	}
	return f.Header.Checkpoint, nil
}

// Split separates the model and optimizer tensors of a checkpoint, with the
// prefixes removed. Tensors with neither prefix are dropped.
func (f *File) Split() (model, optimizer map[string]*tensor.Array) {
	model = make(map[string]*tensor.Array)
	optimizer = make(map[string]*tensor.Array)
	for k, a := range f.Tensors {
		if name, ok := strings.CutPrefix(k, ModelPrefix); ok {
			model[name] = a
		} else if name, ok := strings.CutPrefix(k, OptimizerPrefix); ok {
			optimizer[name] = a
		}
	}
	return model, optimizer
}
