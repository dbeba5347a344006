package model

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/joseph-ayodele/quotation-engine/internal/common"
)

// InputDim is the width of every feature vector the model accepts.
const InputDim = 10

// Activation selects the non-linearity applied after a dense layer.
type Activation int

const (
	Linear Activation = iota
	ReLU
)

func (a Activation) apply(z float64) float64 {
	if a == ReLU && z < 0 {
		return 0
	}
	return z
}

// derivative is taken with respect to the pre-activation z.
func (a Activation) derivative(z float64) float64 {
	if a == ReLU && z <= 0 {
		return 0
	}
	return 1
}

// Dense is a fully connected layer: out = act(W·in + b).
type Dense struct {
	In, Out int
	W       *mat.Dense    // Out×In
	B       *mat.VecDense // Out
	Act     Activation
}

// newDense builds a layer with Glorot-uniform weights and zero biases.
func newDense(in, out int, act Activation, rng *rand.Rand) *Dense {
	limit := math.Sqrt(6.0 / float64(in+out))
	data := make([]float64, out*in)
	for i := range data {
		data[i] = (rng.Float64()*2 - 1) * limit
	}
	return &Dense{
		In:  in,
		Out: out,
		W:   mat.NewDense(out, in, data),
		B:   mat.NewVecDense(out, nil),
		Act: act,
	}
}

// forward returns the pre-activations and activations for x.
func (d *Dense) forward(x mat.Vector) (z, a *mat.VecDense) {
	z = mat.NewVecDense(d.Out, nil)
	z.MulVec(d.W, x)
	z.AddVec(z, d.B)

	a = mat.NewVecDense(d.Out, nil)
	for o := 0; o < d.Out; o++ {
		a.SetVec(o, d.Act.apply(z.AtVec(o)))
	}
	return z, a
}

// Model is a small feed-forward regressor mapping InputDim features to one scalar.
// It is safe for concurrent Predict calls once training has finished.
type Model struct {
	layers []*Dense
}

// NewQuotationModel builds the 10 → 32 (ReLU) → 16 (ReLU) → 1 (linear) network.
func NewQuotationModel(rng *rand.Rand) *Model {
	return &Model{layers: []*Dense{
		newDense(InputDim, 32, ReLU, rng),
		newDense(32, 16, ReLU, rng),
		newDense(16, 1, Linear, rng),
	}}
}

// Layers exposes the layer stack, input side first.
func (m *Model) Layers() []*Dense { return m.layers }

// Predict runs one feature row through the network.
func (m *Model) Predict(x []float64) (float64, error) {
	if len(x) != InputDim {
		return 0, common.NewAppError("MODEL_INPUT", fmt.Sprintf("want %d features, got %d", InputDim, len(x)), common.ErrShapeMismatch)
	}
	return m.forwardTrace(x).out, nil
}

// trace holds per-layer values from one forward pass, kept for backprop.
type trace struct {
	inputs []*mat.VecDense // input to layer i
	pre    []*mat.VecDense // pre-activation of layer i
	out    float64
}

func (m *Model) forwardTrace(x []float64) trace {
	t := trace{
		inputs: make([]*mat.VecDense, len(m.layers)),
		pre:    make([]*mat.VecDense, len(m.layers)),
	}
	a := mat.NewVecDense(len(x), append([]float64(nil), x...))
	for i, l := range m.layers {
		t.inputs[i] = a
		t.pre[i], a = l.forward(a)
	}
	t.out = a.AtVec(0)
	return t
}
