package train

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/qualia/internal/autodiff"
	"github.com/born-ml/qualia/internal/nn"
	"github.com/born-ml/qualia/internal/optim"
	"github.com/born-ml/qualia/internal/tensor"
)

func TestLoop_RecordsLossesAndResetsTape(t *testing.T) {
	tape := autodiff.NewTape()
	x := tape.Variable(tensor.MustFromSlice([]float64{1, 2}, 2))
	var nodesSeen []int
	loop := &Loop{Steps: 3, Tape: tape}
	h, err := loop.Run(func(tp *autodiff.Tape, step int) float64 {
		assert.Same(t, tape, tp)
		assert.Equal(t, 0, tp.NumNodes())
		loss := autodiff.Sum(autodiff.Scale(x, float64(step)))
		nodesSeen = append(nodesSeen, tp.NumNodes())
		return loss.Item()
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 3, 6}, h.Losses)
	assert.Equal(t, []int{2, 2, 2}, nodesSeen)
	assert.Equal(t, 0, tape.NumNodes())
	assert.Equal(t, uint64(3), tape.Generation())
	assert.False(t, x.Released())
}

func TestLoop_CreatesTapeWhenNil(t *testing.T) {
	var tapes []*autodiff.Tape
	h, err := (&Loop{Steps: 2}).Run(func(tp *autodiff.Tape, _ int) float64 {
		require.NotNil(t, tp)
		tapes = append(tapes, tp)
		return 1
	})
	require.NoError(t, err)
	assert.Equal(t, 2, h.Len())
	assert.Same(t, tapes[0], tapes[1])
}

func TestLoop_InvalidSteps(t *testing.T) {
	_, err := (&Loop{}).Run(func(*autodiff.Tape, int) float64 { return 0 })
	assert.Error(t, err)
}

func TestLoop_PanicBecomesError(t *testing.T) {
	tape := autodiff.NewTape()
	x := tape.Variable(tensor.Ones(2))
	h, err := (&Loop{Steps: 5, Tape: tape}).Run(func(tp *autodiff.Tape, step int) float64 {
		autodiff.Neg(x)
		if step == 2 {
			exceptions.Panicf("boom at %d", step)
		}
		return float64(step)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "train step 2")
	assert.Contains(t, err.Error(), "boom at 2")
	assert.Equal(t, []float64{0, 1}, h.Losses)
	assert.Equal(t, 0, tape.NumNodes(), "tape is reset even when the step panics")
}

func TestLoop_UnimplementedOptimizerSurfaces(t *testing.T) {
	p := nn.NewParameter("w", tensor.Ones(1))
	base := optim.NewBase(nn.Params{p}, optim.Config{LR: 0.1})
	_, err := (&Loop{Steps: 1}).Run(func(*autodiff.Tape, int) float64 {
		base.Step()
		return 0
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, optim.ErrNotImplemented))
}

func TestLoop_OnStepHooks(t *testing.T) {
	var order []string
	stop := errors.New("enough")
	loop := &Loop{Steps: 10}
	loop.OnStep(func(step int, _ float64) error {
		order = append(order, "a")
		return nil
	}).OnStep(func(step int, _ float64) error {
		order = append(order, "b")
		if step == 1 {
			return stop
		}
		return nil
	})
	h, err := loop.Run(func(*autodiff.Tape, int) float64 { return 0.5 })
	require.Error(t, err)
	assert.True(t, errors.Is(err, stop))
	assert.Equal(t, []string{"a", "b", "a", "b"}, order)
	assert.Equal(t, 2, h.Len())
}

func TestLoop_ProgressBar(t *testing.T) {
	var buf bytes.Buffer
	_, err := (&Loop{Steps: 4, ProgressBar: true, Output: &buf}).Run(func(*autodiff.Tape, int) float64 { return 1 })
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Training")
}

func TestLoop_FitsLinearRegression(t *testing.T) {
	x := tensor.MustFromSlice([]float64{0, 1, 2, 3}, 4, 1)
	y := tensor.MustFromSlice([]float64{1, 3, 5, 7}, 4, 1)
	w := nn.NewParameter("w", tensor.Zeros(1, 1))
	b := nn.NewParameter("b", tensor.Zeros(1))
	opt := optim.NewAdam(nn.Params{w, b}, optim.AdamConfig{Config: optim.Config{LR: 0.1}})

	h, err := (&Loop{Steps: 500}).Run(func(tp *autodiff.Tape, _ int) float64 {
		opt.ZeroGrad()
		pred := autodiff.Linear(tp.Constant(x), w.Value, b.Value)
		loss := autodiff.MSELoss(pred, tp.Constant(y))
		loss.Backward()
		opt.Step()
		return loss.Item()
	})
	require.NoError(t, err)
	assert.Less(t, h.Last(), 0.05)
	assert.InDelta(t, 2, w.Data().At(0, 0), 0.2)
	assert.InDelta(t, 1, b.Data().At(0), 0.3)
}

func TestHistory(t *testing.T) {
	empty := &History{}
	assert.True(t, math.IsNaN(empty.Last()))
	assert.True(t, math.IsNaN(empty.Mean(0)))

	h := &History{Losses: make([]float64, 1200)}
	for i := range h.Losses {
		h.Losses[i] = float64(i % 4)
	}
	assert.Equal(t, 3.0, h.Last())
	assert.Equal(t, 1.5, h.Mean(0))
	assert.Equal(t, 2.5, h.Mean(2))
	assert.Equal(t, 1.5, h.Mean(5000))
	report := h.Report()
	assert.True(t, strings.HasPrefix(report, "1,200 steps"), report)
	assert.Contains(t, report, "last loss 3")
}

func TestHistory_Plot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loss.png")
	h := &History{Losses: []float64{3, 2, 1.5, 1.2, 1.1}}
	require.NoError(t, h.Plot(path, "loss"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	assert.Error(t, (&History{}).Plot(path, "empty"))
}
