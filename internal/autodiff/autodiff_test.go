package autodiff_test

import (
	"strings"
	"testing"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/qualia/internal/autodiff"
	"github.com/born-ml/qualia/internal/autodiff/ops"
	"github.com/born-ml/qualia/internal/tensor"
)

func vec(values ...float64) *tensor.Array {
	return tensor.MustFromSlice(values, len(values))
}

func TestBackward_FanOutSums(t *testing.T) {
	tape := autodiff.NewTape()
	x := tape.Variable(vec(1, 2, 3))

	// y = sum(x*x + x), dy/dx = 2x + 1
	y := autodiff.Sum(x.Mul(x).Add(x))
	y.Backward()

	assert.Equal(t, []float64{3, 5, 7}, x.Grad().Data())
}

func TestBackward_AccumulatesAcrossCalls(t *testing.T) {
	tape := autodiff.NewTape()
	x := tape.Variable(vec(1, 2))

	y := x.Scale(3).Sum()
	y.Backward()
	y.Backward()
	assert.Equal(t, []float64{6, 6}, x.Grad().Data())

	x.ZeroGrad()
	x.ZeroGrad()
	assert.Nil(t, x.Grad())

	y.Backward()
	assert.Equal(t, []float64{3, 3}, x.Grad().Data())
}

func TestBackward_SetsIntermediateGradients(t *testing.T) {
	tape := autodiff.NewTape()
	x := tape.Variable(vec(1, 2))
	h := x.Scale(2)
	h.Sum().Backward()

	require.NotNil(t, h.Grad())
	assert.Equal(t, []float64{1, 1}, h.Grad().Data())
	assert.Equal(t, []float64{2, 2}, x.Grad().Data())
}

func TestBackward_LeafSeedsItself(t *testing.T) {
	x := autodiff.NewLeaf(tensor.Zeros(2, 2), true)
	x.Backward()
	assert.Equal(t, []float64{1, 1, 1, 1}, x.Grad().Data())

	c := autodiff.NewLeaf(tensor.Zeros(2), false)
	c.Backward()
	assert.Nil(t, c.Grad())
}

func TestBackward_WithSeed(t *testing.T) {
	tape := autodiff.NewTape()
	x := tape.Variable(vec(1, 2))
	y := x.Mul(x)
	y.BackwardWith(vec(1, 10))
	assert.Equal(t, []float64{2, 40}, x.Grad().Data())

	assert.Panics(t, func() { y.BackwardWith(vec(1)) })
}

func TestBackward_ConstantsReceiveNoGradient(t *testing.T) {
	tape := autodiff.NewTape()
	c := tape.Constant(vec(1, 2))
	w := tape.Variable(vec(3, 4))

	d := c.Scale(2)
	assert.False(t, d.RequiresGrad())
	d.Sum().Backward()
	assert.Nil(t, c.Grad())

	y := d.Mul(w).Sum()
	assert.True(t, y.RequiresGrad())
	y.Backward()
	assert.Nil(t, c.Grad())
	assert.Nil(t, d.Grad())
	assert.Equal(t, []float64{2, 4}, w.Grad().Data())
}

func TestDetach_BlocksGradient(t *testing.T) {
	tape := autodiff.NewTape()
	g := tape.Variable(vec(1, 2))
	w := tape.Variable(vec(5, 7))

	fake := g.Scale(3)
	detached := fake.Detach()
	assert.True(t, detached.IsLeaf())
	assert.False(t, detached.RequiresGrad())
	assert.Same(t, fake.Data(), detached.Data())

	detached.Mul(w).Sum().Backward()
	assert.Nil(t, g.Grad())
	assert.Nil(t, fake.Grad())
	assert.Nil(t, detached.Grad())
	assert.Equal(t, []float64{3, 6}, w.Grad().Data())
}

func TestDetach_OnlyTheLivePathContributes(t *testing.T) {
	tape := autodiff.NewTape()
	g := tape.Variable(vec(1, 2))
	w := tape.Variable(vec(5, 7))

	fake := g.Scale(3)
	// fake reaches the loss twice: through a detached copy and directly.
	loss := fake.Detach().Mul(w).Add(fake).Sum()
	loss.Backward()

	assert.Equal(t, []float64{3, 6}, w.Grad().Data())
	assert.Equal(t, []float64{1, 1}, fake.Grad().Data())
	assert.Equal(t, []float64{3, 3}, g.Grad().Data())
}

func TestContraction_MatrixRoundTrip(t *testing.T) {
	tape := autodiff.NewTape()
	a := tape.Variable(rnd(1, 3, 4))
	b := tape.Variable(rnd(2, 4, 5))
	y := autodiff.Tensordot(a, b, 1)
	require.Equal(t, tensor.Shape{3, 5}, y.Shape())
	y.Backward()

	ones := tensor.Ones(3, 5)
	assert.True(t, tensor.AllClose(tensor.MatMul(ones, tensor.Transpose(b.Data())), a.Grad(), 0, 1e-12))
	assert.True(t, tensor.AllClose(tensor.MatMul(tensor.Transpose(a.Data()), ones), b.Grad(), 0, 1e-12))
}

func TestTape_NodesAreOrdered(t *testing.T) {
	tape := autodiff.NewTape()
	x := tape.Variable(vec(1, 2))
	y := x.Exp().Add(x.Tanh()).Sum()

	assert.Equal(t, 4, tape.NumNodes())
	for id := 0; id < tape.NumNodes(); id++ {
		node := tape.Node(autodiff.NodeID(id))
		assert.Equal(t, autodiff.NodeID(id), node.ID)
		for _, in := range node.Inputs {
			assert.Less(t, in.Node(), node.ID)
		}
	}
	assert.Equal(t, ops.KindSum, y.Creator().Kind())
	assert.Nil(t, x.Creator())
}

func TestTape_ResetReleasesGraph(t *testing.T) {
	tape := autodiff.NewTape()
	w := autodiff.NewLeaf(vec(1, 2), true)
	x := tape.Constant(vec(3, 4))

	hidden := autodiff.Mul(x, w)
	loss := autodiff.Sum(hidden)
	loss.Backward()
	tape.Reset()

	assert.Equal(t, 0, tape.NumNodes())
	assert.Equal(t, uint64(1), tape.Generation())
	assert.True(t, loss.Released())
	assert.Contains(t, loss.String(), "released")
	assert.Panics(t, func() { loss.Backward() })
	assert.Panics(t, func() { autodiff.Neg(hidden) })
	assert.Panics(t, func() { loss.Creator() })

	// Leaves survive the reset, including their gradients.
	assert.False(t, w.Released())
	assert.False(t, x.Released())
	assert.Equal(t, []float64{3, 4}, w.Grad().Data())

	w.ZeroGrad()
	autodiff.Sum(autodiff.Mul(x, w)).Backward()
	assert.Equal(t, []float64{3, 4}, w.Grad().Data())
	assert.Equal(t, 2, tape.NumNodes())
}

func TestApply_MixedTapesPanic(t *testing.T) {
	a := autodiff.NewTape().Variable(vec(1))
	b := autodiff.NewTape().Variable(vec(2))
	assert.Panics(t, func() { autodiff.Add(a, b) })
}

func TestApply_FreeLeavesRecordOnFreshTape(t *testing.T) {
	w := autodiff.NewLeaf(vec(1, 2), true)
	loss := autodiff.Sum(autodiff.Square(w))
	require.NotNil(t, loss.Tape())
	assert.Nil(t, w.Tape(), "the leaf stays free")
	assert.InDelta(t, 5, loss.Item(), 1e-12)

	loss.Backward()
	assert.Equal(t, []float64{2, 4}, w.Grad().Data())

	// Each graph of free leaves gets its own tape.
	other := autodiff.Sum(w)
	assert.NotSame(t, loss.Tape(), other.Tape())

	// Free leaves still join an existing tape.
	tape := autodiff.NewTape()
	b := autodiff.NewLeaf(vec(2, 2), true)
	c := autodiff.Add(autodiff.Add(w, tape.Constant(vec(0, 0))), b)
	assert.Same(t, tape, c.Tape())
}

// badShapeOp returns a gradient of the wrong shape.
type badShapeOp struct{ ops.NegOp }

func (badShapeOp) Backward(g *tensor.Array, _ []*tensor.Array, _ *tensor.Array) []*tensor.Array {
	return []*tensor.Array{tensor.Zeros(g.Size() + 1)}
}

func TestBackward_ShapeContractPanics(t *testing.T) {
	tape := autodiff.NewTape()
	x := tape.Variable(vec(1, 2))
	y := autodiff.Apply(badShapeOp{}, x)
	assert.Panics(t, func() { y.Sum().Backward() })
}

func TestTape_StopRecording(t *testing.T) {
	tape := autodiff.NewTape()
	w := tape.Variable(vec(1, 2))

	tape.StopRecording()
	assert.False(t, tape.IsRecording())
	y := w.Scale(2)
	assert.True(t, y.IsLeaf())
	assert.False(t, y.RequiresGrad())
	assert.Equal(t, []float64{2, 4}, y.Data().Data())
	assert.Equal(t, 0, tape.NumNodes())

	tape.StartRecording()
	assert.False(t, w.Scale(2).IsLeaf())
}

func TestValue_Accessors(t *testing.T) {
	tape := autodiff.NewTape()
	x := tape.Variable(vec(1, 2)).Named("x")
	assert.Equal(t, "x", x.Name())
	assert.Equal(t, autodiff.NoNode, x.Node())
	assert.Equal(t, tensor.Shape{2}, x.Shape())
	assert.Contains(t, x.String(), "leaf")

	y := x.Sum()
	assert.InDelta(t, 3.0, y.Item(), 1e-12)
	assert.Contains(t, y.String(), "Sum")
	assert.Panics(t, func() { y.SetRequiresGrad(false) })

	x.SetRequiresGrad(false)
	assert.False(t, x.RequiresGrad())
	assert.Panics(t, func() { x.SetGrad(tensor.Zeros(3)) })
	x.SetGrad(tensor.Ones(2))
	assert.Equal(t, []float64{1, 1}, x.Grad().Data())
}

func TestTape_LoggerTracesBackward(t *testing.T) {
	var lines []string
	logger := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 4})

	tape := autodiff.NewTape(autodiff.WithLogger(logger))
	x := tape.Variable(vec(1, 2))
	x.Exp().Sum().Backward()
	tape.Reset()

	require.Len(t, lines, 2)
	assert.True(t, strings.Contains(lines[0], `"visited"=2`), lines[0])
	assert.True(t, strings.Contains(lines[1], `"nodes"=2`), lines[1])
}
