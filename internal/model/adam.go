package model

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// AdamConfig carries the optimizer hyperparameters.
type AdamConfig struct {
	LearningRate float64
	Beta1        float64
	Beta2        float64
	Epsilon      float64
}

// DefaultAdam matches the usual Keras defaults.
var DefaultAdam = AdamConfig{LearningRate: 0.001, Beta1: 0.9, Beta2: 0.999, Epsilon: 1e-7}

// gradients mirrors the parameter layout of a Model.
type gradients struct {
	w []*mat.Dense
	b []*mat.VecDense
}

func newGradients(m *Model) *gradients {
	g := &gradients{
		w: make([]*mat.Dense, len(m.layers)),
		b: make([]*mat.VecDense, len(m.layers)),
	}
	for li, l := range m.layers {
		g.w[li] = mat.NewDense(l.Out, l.In, nil)
		g.b[li] = mat.NewVecDense(l.Out, nil)
	}
	return g
}

func (g *gradients) zero() {
	for li := range g.w {
		g.w[li].Zero()
		g.b[li].Zero()
	}
}

type adam struct {
	cfg  AdamConfig
	m, v *gradients
	step int
}

func newAdam(model *Model, cfg AdamConfig) *adam {
	return &adam{cfg: cfg, m: newGradients(model), v: newGradients(model)}
}

// apply updates the model parameters in place from g.
func (a *adam) apply(model *Model, g *gradients) {
	a.step++
	t := float64(a.step)
	lr := a.cfg.LearningRate * math.Sqrt(1-math.Pow(a.cfg.Beta2, t)) / (1 - math.Pow(a.cfg.Beta1, t))

	// all matrices here are freshly allocated, so their backing slices are contiguous
	update := func(p, grad, m, v []float64) {
		for i := range p {
			m[i] = a.cfg.Beta1*m[i] + (1-a.cfg.Beta1)*grad[i]
			v[i] = a.cfg.Beta2*v[i] + (1-a.cfg.Beta2)*grad[i]*grad[i]
			p[i] -= lr * m[i] / (math.Sqrt(v[i]) + a.cfg.Epsilon)
		}
	}
	for li, l := range model.layers {
		update(l.W.RawMatrix().Data, g.w[li].RawMatrix().Data, a.m.w[li].RawMatrix().Data, a.v.w[li].RawMatrix().Data)
		update(l.B.RawVector().Data, g.b[li].RawVector().Data, a.m.b[li].RawVector().Data, a.v.b[li].RawVector().Data)
	}
}
