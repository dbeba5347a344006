package model

import (
	"context"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/joseph-ayodele/quotation-engine/internal/common"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewQuotationModelArchitecture(t *testing.T) {
	m := NewQuotationModel(rand.New(rand.NewSource(1)))
	layers := m.Layers()
	require.Len(t, layers, 3)

	shapes := [][2]int{{10, 32}, {32, 16}, {16, 1}}
	acts := []Activation{ReLU, ReLU, Linear}
	for i, l := range layers {
		assert.Equal(t, shapes[i][0], l.In)
		assert.Equal(t, shapes[i][1], l.Out)
		assert.Equal(t, acts[i], l.Act)
		r, c := l.W.Dims()
		assert.Equal(t, l.Out, r)
		assert.Equal(t, l.In, c)
		assert.Equal(t, l.Out, l.B.Len())
		assert.Zero(t, mat.Norm(l.B, 1))
		limit := math.Sqrt(6.0 / float64(l.In+l.Out))
		assert.LessOrEqual(t, mat.Max(l.W), limit)
		assert.GreaterOrEqual(t, mat.Min(l.W), -limit)
	}
}

func TestPredictRejectsWrongWidth(t *testing.T) {
	m := NewQuotationModel(rand.New(rand.NewSource(1)))
	_, err := m.Predict(make([]float64, 9))
	assert.ErrorIs(t, err, common.ErrShapeMismatch)
}

func TestPredictMatchesElementwiseForwardPass(t *testing.T) {
	m := NewQuotationModel(rand.New(rand.NewSource(5)))
	x := []float64{0.5, 1, 0, 0.25, 0.75, 0.1, 0.9, 0.3, 0.6, 0.2}

	a := x
	for _, l := range m.Layers() {
		next := make([]float64, l.Out)
		for o := 0; o < l.Out; o++ {
			z := l.B.AtVec(o)
			for i := 0; i < l.In; i++ {
				z += l.W.At(o, i) * a[i]
			}
			next[o] = l.Act.apply(z)
		}
		a = next
	}

	got, err := m.Predict(x)
	require.NoError(t, err)
	assert.InDelta(t, a[0], got, 1e-12)
}

func TestBackpropMatchesNumericalGradient(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := NewQuotationModel(rng)
	x := make([]float64, InputDim)
	for i := range x {
		x[i] = rng.Float64()
	}
	y := 0.3

	g := newGradients(m)
	m.backprop(x, y, 1, g)

	loss := func() float64 {
		p, err := m.Predict(x)
		require.NoError(t, err)
		return (p - y) * (p - y)
	}
	const eps = 1e-6
	check := func(p *float64, analytic float64) {
		orig := *p
		*p = orig + eps
		up := loss()
		*p = orig - eps
		down := loss()
		*p = orig
		numeric := (up - down) / (2 * eps)
		assert.InDelta(t, numeric, analytic, 1e-5)
	}
	for li, l := range m.Layers() {
		w := l.W.RawMatrix().Data
		gw := g.w[li].RawMatrix().Data
		check(&w[0], gw[0])
		check(&w[len(w)-1], gw[len(gw)-1])
		b := l.B.RawVector().Data
		check(&b[l.Out-1], g.b[li].AtVec(l.Out-1))
	}
}

func TestFitReducesLossOnLearnableTarget(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	set := SyntheticTrainingSet(200, rng)
	for i, row := range set.X {
		var s float64
		for _, v := range row {
			s += v
		}
		set.Y[i] = s / InputDim
	}

	cfg := DefaultTrainConfig()
	cfg.Epochs = 60
	cfg.Adam.LearningRate = 0.01

	m := NewQuotationModel(rng)
	hist, err := Fit(context.Background(), m, set, cfg, rng, quietLogger())
	require.NoError(t, err)
	require.Len(t, hist, 60)

	assert.Less(t, hist[len(hist)-1].Loss, hist[0].Loss)
	assert.Less(t, hist[len(hist)-1].ValLoss, 0.05)
}

func TestFitShapeErrors(t *testing.T) {
	m := NewQuotationModel(rand.New(rand.NewSource(1)))
	rng := rand.New(rand.NewSource(1))
	cfg := DefaultTrainConfig()

	_, err := Fit(context.Background(), m, TrainingSet{X: [][]float64{make([]float64, 10)}}, cfg, rng, quietLogger())
	assert.ErrorIs(t, err, common.ErrShapeMismatch)

	_, err = Fit(context.Background(), m, TrainingSet{X: [][]float64{make([]float64, 3)}, Y: []float64{1}}, cfg, rng, quietLogger())
	assert.ErrorIs(t, err, common.ErrShapeMismatch)

	cfg.BatchSize = 0
	_, err = Fit(context.Background(), m, SyntheticTrainingSet(10, rng), cfg, rng, quietLogger())
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestFitHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rng := rand.New(rand.NewSource(1))
	_, err := Fit(ctx, NewQuotationModel(rng), SyntheticTrainingSet(20, rng), DefaultTrainConfig(), rng, quietLogger())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTrainDefaultsAreDeterministicPerSeed(t *testing.T) {
	cfg := DefaultTrainConfig()
	cfg.Seed = 99

	a, hist, err := Train(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	require.Len(t, hist, 10)
	assert.False(t, math.IsNaN(hist[0].ValLoss))

	b, _, err := Train(context.Background(), cfg, quietLogger())
	require.NoError(t, err)

	x := make([]float64, InputDim)
	x[0] = 50000
	pa, err := a.Predict(x)
	require.NoError(t, err)
	pb, err := b.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, pa, pb)
	assert.False(t, math.IsNaN(pa) || math.IsInf(pa, 0))
}

func TestSyntheticTrainingSetRange(t *testing.T) {
	set := SyntheticTrainingSet(100, rand.New(rand.NewSource(3)))
	require.Equal(t, 100, set.Len())
	for i, row := range set.X {
		require.Len(t, row, InputDim)
		for _, v := range row {
			assert.True(t, v >= 0 && v < 1)
		}
		assert.True(t, set.Y[i] >= 0 && set.Y[i] < 1)
	}
}
