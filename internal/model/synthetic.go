package model

import "math/rand"

// TrainingSet is a batch of (features, target) pairs.
type TrainingSet struct {
	X [][]float64
	Y []float64
}

// Len returns the number of samples.
func (s TrainingSet) Len() int { return len(s.Y) }

// SyntheticTrainingSet draws n placeholder samples: features uniform in [0,1)^InputDim,
// targets uniform in [0,1). The pairs carry no relation to real proposals.
func SyntheticTrainingSet(n int, rng *rand.Rand) TrainingSet {
	set := TrainingSet{X: make([][]float64, n), Y: make([]float64, n)}
	for i := 0; i < n; i++ {
		row := make([]float64, InputDim)
		for j := range row {
			row[j] = rng.Float64()
		}
		set.X[i] = row
	}
	for i := 0; i < n; i++ {
		set.Y[i] = rng.Float64()
	}
	return set
}
