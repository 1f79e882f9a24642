// Package data provides an in-memory batch loader that feeds arrays into
// autodiff graphs as constant leaves.
package data

import (
	"math/rand/v2"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/qualia/internal/autodiff"
	"github.com/born-ml/qualia/internal/tensor"
)

// Split is a set of examples along axis 0 and, optionally, their labels.
type Split struct {
	Data   *tensor.Array
	Labels *tensor.Array // may be nil
}

func (s Split) validate(name string) error {
	if s.Data == nil {
		return errors.Errorf("%s split has no data", name)
	}
	if s.Data.Rank() == 0 {
		return errors.Errorf("%s data must have a leading example axis, got a scalar", name)
	}
	if s.Labels != nil && (s.Labels.Rank() == 0 || s.Labels.Shape()[0] != s.Data.Shape()[0]) {
		return errors.Errorf("%s labels %s do not match %d examples", name, s.Labels.Shape(), s.Data.Shape()[0])
	}
	return nil
}

func (s Split) len() int {
	if s.Data == nil {
		return 0
	}
	return s.Data.Shape()[0]
}

// Config configures a Loader.
type Config struct {
	BatchSize int         // Examples per batch (default: 1)
	Rand      *rand.Rand  // Source for shuffling; nil disables shuffling.
	Logger    klog.Logger // Epoch tracing at V(3); the zero value discards.
}

// Loader iterates over fixed-size batches of a train or test split.
//
// Each call to Next returns the next batch; once the split is exhausted
// Next returns ok=false, rewinds and reshuffles, so the next call starts a
// new epoch. A trailing partial batch is dropped.
//
//	for x, y, ok := loader.Next(tape); ok; x, y, ok = loader.Next(tape) {
//	    ...
//	}
type Loader struct {
	train, test Split
	batch       int
	training    bool
	idx         int
	epoch       int
	rng         *rand.Rand
	logger      klog.Logger
}

// NewLoader creates a Loader over train, starting in training mode.
func NewLoader(train Split, cfg Config) (*Loader, error) {
	if err := train.validate("train"); err != nil {
		return nil, err
	}
	if cfg.BatchSize < 0 {
		return nil, errors.Errorf("invalid batch size %d", cfg.BatchSize)
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 1
	}
	if err := checkBatch(train, "train", cfg.BatchSize); err != nil {
		return nil, err
	}
	return &Loader{
		train:    train,
		batch:    cfg.BatchSize,
		training: true,
		rng:      cfg.Rand,
		logger:   cfg.Logger,
	}, nil
}

// SetTest attaches a test split, used in evaluation mode.
func (l *Loader) SetTest(test Split) error {
	if err := test.validate("test"); err != nil {
		return err
	}
	if !sameSampleShape(l.train.Data, test.Data) {
		return errors.Errorf("test examples %s differ from train examples %s",
			test.Data.Shape()[1:], l.train.Data.Shape()[1:])
	}
	if err := checkBatch(test, "test", l.batch); err != nil {
		return err
	}
	l.test = test
	return nil
}

// checkBatch rejects batch sizes that would leave a split without a single
// full batch.
func checkBatch(s Split, name string, batch int) error {
	if n := s.len(); batch > n {
		return errors.Errorf("batch size %d exceeds the %d examples of the %s split", batch, n, name)
	}
	return nil
}

func sameSampleShape(a, b *tensor.Array) bool {
	return a.Shape()[1:].Equal(b.Shape()[1:])
}

// Train switches to the train split and rewinds.
func (l *Loader) Train() {
	l.training = true
	l.idx = 0
}

// Eval switches to the test split and rewinds.
func (l *Loader) Eval() {
	l.training = false
	l.idx = 0
}

// Training reports whether the loader iterates over the train split.
func (l *Loader) Training() bool { return l.training }

// Batch returns the batch size.
func (l *Loader) Batch() int { return l.batch }

// SetBatch changes the batch size and rewinds. A size of 0 or less selects
// 1, and a size larger than either split is rejected.
func (l *Loader) SetBatch(n int) error {
	if n <= 0 {
		n = 1
	}
	if err := checkBatch(l.train, "train", n); err != nil {
		return err
	}
	if l.test.Data != nil {
		if err := checkBatch(l.test, "test", n); err != nil {
			return err
		}
	}
	l.batch = n
	l.idx = 0
	return nil
}

// Len returns the number of full batches in the current split.
func (l *Loader) Len() int { return l.split().len() / l.batch }

// Epoch returns the number of completed passes over the train split.
func (l *Loader) Epoch() int { return l.epoch }

// SampleShape returns the shape of a single example.
func (l *Loader) SampleShape() tensor.Shape { return l.train.Data.Shape()[1:] }

// Reset rewinds to the first batch without shuffling.
func (l *Loader) Reset() { l.idx = 0 }

// Next returns the next batch as constant leaves of tape. y is nil when the
// split has no labels. At the end of the split it returns ok=false, rewinds
// and shuffles.
func (l *Loader) Next(tape *autodiff.Tape) (x, y *autodiff.Value, ok bool) {
	s := l.split()
	if l.idx >= l.Len() {
		l.idx = 0
		if l.training {
			l.epoch++
		}
		l.Shuffle()
		l.logger.V(3).Info("end of split", "training", l.training, "epoch", l.epoch, "batches", l.Len())
		return nil, nil, false
	}
	start, end := l.idx*l.batch, (l.idx+1)*l.batch
	l.idx++
	x = tape.Constant(rows(s.Data, start, end))
	if s.Labels != nil {
		y = tape.Constant(rows(s.Labels, start, end))
	}
	return x, y, true
}

// Shuffle permutes the examples of the current split (and their labels
// alike). It is a no-op without a random source.
func (l *Loader) Shuffle() {
	if l.rng == nil {
		return
	}
	s := l.split()
	perm := l.rng.Perm(s.len())
	s.Data = permuteRows(s.Data, perm)
	if s.Labels != nil {
		s.Labels = permuteRows(s.Labels, perm)
	}
	if l.training {
		l.train = s
	} else {
		l.test = s
	}
}

func (l *Loader) split() Split {
	if l.training {
		return l.train
	}
	return l.test
}

// rows returns a[start:end] along axis 0.
func rows(a *tensor.Array, start, end int) *tensor.Array {
	parts := tensor.Split(a, []int{start, end}, 0)
	return parts[1]
}

// permuteRows returns a with its rows reordered: out[i] = a[perm[i]].
func permuteRows(a *tensor.Array, perm []int) *tensor.Array {
	idxShape := make([]int, a.Rank())
	idxShape[0] = len(perm)
	for i := 1; i < len(idxShape); i++ {
		idxShape[i] = 1
	}
	p := make([]float64, len(perm))
	for i, v := range perm {
		p[i] = float64(v)
	}
	index := tensor.BroadcastTo(tensor.MustFromSlice(p, idxShape...), a.Shape())
	return tensor.Gather(a, 0, index)
}
