package ops_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/qualia/internal/autodiff/ops"
	"github.com/born-ml/qualia/internal/tensor"
)

const (
	fdEpsilon   = 1e-6
	fdTolerance = 1e-5
)

// checkGradients compares op.Backward against centered finite differences of
// L = sum(w * op.Forward(inputs)) for a random upstream gradient w.
func checkGradients(t *testing.T, op ops.Operation, inputs ...*tensor.Array) {
	t.Helper()
	rng := rand.New(rand.NewPCG(42, 7))

	out := op.Forward(inputs)
	w := tensor.RandN(rng, out.Shape()...)
	loss := func() float64 {
		return tensor.Sum(tensor.Mul(op.Forward(inputs), w))
	}

	grads := op.Backward(w, inputs, out)
	require.Len(t, grads, len(inputs), "%s: one gradient per input", op.Kind())

	for i, x := range inputs {
		require.Equal(t, x.Shape(), grads[i].Shape(), "%s: gradient %d shape", op.Kind(), i)
		data := x.Data()
		for j := range data {
			orig := data[j]
			data[j] = orig + fdEpsilon
			plus := loss()
			data[j] = orig - fdEpsilon
			minus := loss()
			data[j] = orig
			numeric := (plus - minus) / (2 * fdEpsilon)
			analytic := grads[i].Data()[j]
			assert.InDeltaf(t, numeric, analytic, fdTolerance*math.Max(1, math.Abs(numeric)),
				"%s: input %d element %d", op.Kind(), i, j)
		}
	}
}

func randn(seed uint64, shape ...int) *tensor.Array {
	return tensor.RandN(rand.New(rand.NewPCG(seed, seed+1)), shape...)
}

func positive(seed uint64, shape ...int) *tensor.Array {
	return tensor.RandUniform(rand.New(rand.NewPCG(seed, seed+1)), 0.5, 2, shape...)
}

func TestElementwiseGradients(t *testing.T) {
	tests := []struct {
		name   string
		op     ops.Operation
		inputs []*tensor.Array
	}{
		{"add", ops.AddOp{}, []*tensor.Array{randn(1, 2, 3), randn(2, 2, 3)}},
		{"add_broadcast", ops.AddOp{}, []*tensor.Array{randn(1, 2, 3), randn(2, 3)}},
		{"sub_broadcast", ops.SubOp{}, []*tensor.Array{randn(3, 2, 1), randn(4, 2, 3)}},
		{"mul_broadcast", ops.MulOp{}, []*tensor.Array{randn(5, 4, 3), randn(6, 1, 3)}},
		{"div", ops.DivOp{}, []*tensor.Array{randn(7, 3, 2), positive(8, 3, 2)}},
		{"div_scalar", ops.DivOp{}, []*tensor.Array{randn(7, 3, 2), positive(8)}},
		{"maximum", ops.MaximumOp{}, []*tensor.Array{
			tensor.MustFromSlice([]float64{1, -2, 3, 0.5}, 4),
			tensor.MustFromSlice([]float64{0, 1, 2, 4}, 4),
		}},
		{"neg", ops.NegOp{}, []*tensor.Array{randn(9, 3)}},
		{"scale", &ops.ScaleOp{Factor: -2.5}, []*tensor.Array{randn(10, 3)}},
		{"pow", &ops.PowOp{Exponent: 3}, []*tensor.Array{randn(11, 2, 2)}},
		{"pow_fractional", &ops.PowOp{Exponent: 0.5}, []*tensor.Array{positive(12, 4)}},
		{"exp", ops.ExpOp{}, []*tensor.Array{randn(13, 2, 3)}},
		{"log", ops.LogOp{}, []*tensor.Array{positive(14, 2, 3)}},
		{"sqrt", ops.SqrtOp{}, []*tensor.Array{positive(15, 5)}},
		{"square", ops.SquareOp{}, []*tensor.Array{randn(16, 5)}},
		{"tanh", ops.TanhOp{}, []*tensor.Array{randn(17, 3, 3)}},
		{"sigmoid", ops.SigmoidOp{}, []*tensor.Array{randn(18, 3, 3)}},
		{"relu", ops.ReLUOp{}, []*tensor.Array{tensor.MustFromSlice([]float64{-1, 0.5, 2, -0.3}, 2, 2)}},
		{"mse", ops.MSELossOp{}, []*tensor.Array{randn(19, 4, 2), randn(20, 4, 2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkGradients(t, tt.op, tt.inputs...)
		})
	}
}

func TestReductionAndShapeGradients(t *testing.T) {
	tests := []struct {
		name   string
		op     ops.Operation
		inputs []*tensor.Array
	}{
		{"sum_all", &ops.SumOp{}, []*tensor.Array{randn(1, 2, 3)}},
		{"sum_axis", &ops.SumOp{Axes: []int{1}}, []*tensor.Array{randn(2, 2, 3, 4)}},
		{"sum_keepdims", &ops.SumOp{Axes: []int{0, -1}, KeepDims: true}, []*tensor.Array{randn(3, 2, 3, 4)}},
		{"mean_all", &ops.MeanOp{}, []*tensor.Array{randn(4, 3, 2)}},
		{"mean_axis", &ops.MeanOp{Axes: []int{0}}, []*tensor.Array{randn(5, 3, 2)}},
		{"reshape", &ops.ReshapeOp{Shape: []int{3, -1}}, []*tensor.Array{randn(6, 2, 3)}},
		{"transpose_default", &ops.TransposeOp{}, []*tensor.Array{randn(7, 2, 3)}},
		{"transpose_perm", &ops.TransposeOp{Perm: []int{2, 0, 1}}, []*tensor.Array{randn(8, 2, 3, 4)}},
		{"expand_dims", &ops.ExpandDimsOp{Axis: 1}, []*tensor.Array{randn(9, 2, 3)}},
		{"squeeze", &ops.SqueezeOp{Axis: 0}, []*tensor.Array{randn(10, 1, 3)}},
		{"gather", &ops.GatherOp{Axis: 1, Index: tensor.MustFromSlice([]float64{2, 0, 0, 1}, 2, 2)},
			[]*tensor.Array{randn(11, 2, 3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkGradients(t, tt.op, tt.inputs...)
		})
	}
}

func TestTensordotGradients(t *testing.T) {
	tests := []struct {
		name string
		axes any
		a, b *tensor.Array
	}{
		{"matrix_product", 1, randn(1, 3, 4), randn(2, 4, 5)},
		{"contract_two", 2, randn(3, 2, 3, 4), randn(4, 3, 4, 5)},
		{"inner_product", 1, randn(5, 4), randn(6, 4)},
		{"outer_product", 0, randn(7, 2), randn(8, 3)},
		{"single_pair", [2]int{0, 1}, randn(9, 3, 2), randn(10, 4, 3)},
		{"pair_lists", [2][]int{{1, 2}, {1, 0}}, randn(11, 2, 3, 4), randn(12, 4, 3, 5)},
		{"pair_lists_negative", [][]int{{-1}, {0}}, randn(13, 2, 3), randn(14, 3, 2, 2)},
		{"pair_lists_middle", [2][]int{{0, 2}, {2, 1}}, randn(15, 2, 3, 4), randn(16, 5, 4, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkGradients(t, &ops.TensordotOp{Axes: tt.axes}, tt.a, tt.b)
		})
	}
}

// TestTensordot_MatrixRoundTrip checks the ordinary matrix product case:
// with an upstream gradient of ones, ∂A = 1·Bᵀ and ∂B = Aᵀ·1.
func TestTensordot_MatrixRoundTrip(t *testing.T) {
	a := randn(21, 3, 4)
	b := randn(22, 4, 5)
	op := &ops.TensordotOp{Axes: 1}
	out := op.Forward([]*tensor.Array{a, b})
	require.Equal(t, tensor.Shape{3, 5}, out.Shape())

	ones := tensor.Ones(3, 5)
	grads := op.Backward(ones, []*tensor.Array{a, b}, out)

	wantA := tensor.MatMul(ones, tensor.Transpose(b))
	wantB := tensor.MatMul(tensor.Transpose(a), ones)
	assert.True(t, tensor.AllClose(grads[0], wantA, 0, 1e-12))
	assert.True(t, tensor.AllClose(grads[1], wantB, 0, 1e-12))

	// Cached derived state is reused on the next call.
	again := op.Backward(ones, []*tensor.Array{a, b}, out)
	assert.True(t, tensor.Equal(grads[0], again[0]))
	assert.True(t, tensor.Equal(grads[1], again[1]))
}

func TestTensordot_UnsupportedAxes(t *testing.T) {
	a, b := randn(1, 2, 2), randn(2, 2, 2)
	assert.Panics(t, func() {
		(&ops.TensordotOp{Axes: "last"}).Forward([]*tensor.Array{a, b})
	})
	assert.Panics(t, func() {
		(&ops.TensordotOp{Axes: [][]int{{0}}}).Forward([]*tensor.Array{a, b})
	})
	assert.Panics(t, func() {
		(&ops.TensordotOp{Axes: [2][]int{{0}, {0, 1}}}).Forward([]*tensor.Array{a, b})
	})
}

func TestMatMulGradients(t *testing.T) {
	checkGradients(t, ops.MatMulOp{}, randn(1, 3, 4), randn(2, 4, 2))
}

func TestConcatGradients(t *testing.T) {
	checkGradients(t, &ops.ConcatOp{Axis: 1}, randn(1, 2, 1), randn(2, 2, 3), randn(3, 2, 2))
	checkGradients(t, &ops.ConcatOp{Axis: -1}, randn(4, 3), randn(5, 2))
	checkGradients(t, ops.ListConcatOp{}, randn(6, 2, 3), randn(7, 2, 3), randn(8, 2, 3))
}

func TestConcat_BackwardSlices(t *testing.T) {
	a := tensor.MustFromSlice([]float64{1, 2}, 2, 1)
	b := tensor.MustFromSlice([]float64{3, 4, 5, 6}, 2, 2)
	op := &ops.ConcatOp{Axis: 1}
	out := op.Forward([]*tensor.Array{a, b})
	grads := op.Backward(out, []*tensor.Array{a, b}, out)
	require.Len(t, grads, 2)
	assert.True(t, tensor.Equal(a, grads[0]))
	assert.True(t, tensor.Equal(b, grads[1]))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Tensordot", ops.KindTensordot.String())
	assert.Equal(t, "MSELoss", ops.MSELossOp{}.Kind().String())
	assert.Equal(t, "Kind(?)", ops.Kind(-1).String())
}
