package model

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/joseph-ayodele/quotation-engine/internal/common"
)

type TrainConfig struct {
	Epochs          int
	BatchSize       int
	ValidationSplit float64 // fraction of samples, taken from the end, held out each epoch
	Samples         int     // synthetic set size used by Train
	Seed            int64   // 0 = seed from the clock
	Adam            AdamConfig
}

// DefaultTrainConfig is 10 epochs of mini-batches of 8 over 100 samples with a 20% hold-out.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		Epochs:          10,
		BatchSize:       8,
		ValidationSplit: 0.2,
		Samples:         100,
		Adam:            DefaultAdam,
	}
}

// EpochStats is the per-epoch progress record.
type EpochStats struct {
	Epoch   int
	Loss    float64 // mean squared error over the training split
	MAE     float64
	ValLoss float64 // NaN when nothing is held out
	ValMAE  float64
}

type History []EpochStats

// Train builds the quotation network and fits it on a fresh synthetic set.
func Train(ctx context.Context, cfg TrainConfig, logger *slog.Logger) (*Model, History, error) {
	if logger == nil {
		logger = slog.Default()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	set := SyntheticTrainingSet(cfg.Samples, rng)
	m := NewQuotationModel(rng)

	start := time.Now()
	hist, err := Fit(ctx, m, set, cfg, rng, logger)
	if err != nil {
		logger.Error("model.train.failed", "error", err)
		return nil, hist, err
	}
	last := hist[len(hist)-1]
	logger.Info("model.train.ok",
		"samples", set.Len(),
		"epochs", len(hist),
		"loss", last.Loss,
		"val_loss", last.ValLoss,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return m, hist, nil
}

// Fit runs mini-batch Adam on MSE loss. Training samples are reshuffled every epoch;
// the validation tail is fixed.
func Fit(ctx context.Context, m *Model, set TrainingSet, cfg TrainConfig, rng *rand.Rand, logger *slog.Logger) (History, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := checkShapes(set); err != nil {
		return nil, err
	}
	if cfg.Epochs <= 0 || cfg.BatchSize <= 0 {
		return nil, common.NewAppError("TRAIN_CONFIG",
			fmt.Sprintf("epochs=%d batch_size=%d", cfg.Epochs, cfg.BatchSize), common.ErrInvalidInput)
	}
	if cfg.Adam == (AdamConfig{}) {
		cfg.Adam = DefaultAdam
	}

	n := set.Len()
	split := n - int(float64(n)*cfg.ValidationSplit)
	if split <= 0 {
		return nil, common.NewAppError("TRAIN_CONFIG",
			fmt.Sprintf("validation split %.2f leaves no training samples", cfg.ValidationSplit), common.ErrInvalidInput)
	}

	order := make([]int, split)
	for i := range order {
		order[i] = i
	}

	opt := newAdam(m, cfg.Adam)
	grads := newGradients(m)
	hist := make(History, 0, cfg.Epochs)

	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return hist, err
		}
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		var sqSum, absSum float64
		for b := 0; b < split; b += cfg.BatchSize {
			batch := order[b:min(b+cfg.BatchSize, split)]
			grads.zero()
			for _, idx := range batch {
				diff := m.backprop(set.X[idx], set.Y[idx], len(batch), grads)
				sqSum += diff * diff
				absSum += math.Abs(diff)
			}
			opt.apply(m, grads)
		}

		stats := EpochStats{
			Epoch: epoch,
			Loss:  sqSum / float64(split),
			MAE:   absSum / float64(split),
		}
		stats.ValLoss, stats.ValMAE = m.evaluate(set, split, n)
		hist = append(hist, stats)

		logger.Debug("model.train.epoch",
			"epoch", epoch,
			"loss", stats.Loss,
			"mae", stats.MAE,
			"val_loss", stats.ValLoss,
			"val_mae", stats.ValMAE,
		)
	}
	return hist, nil
}

// backprop accumulates the gradient of the batch-mean squared error for one sample
// into g and returns the prediction error.
func (m *Model) backprop(x []float64, y float64, batchSize int, g *gradients) float64 {
	t := m.forwardTrace(x)
	diff := t.out - y

	last := len(m.layers) - 1
	delta := mat.NewVecDense(1, []float64{
		2 * diff / float64(batchSize) * m.layers[last].Act.derivative(t.pre[last].AtVec(0)),
	})
	for li := last; li >= 0; li-- {
		l := m.layers[li]
		g.w[li].RankOne(g.w[li], 1, delta, t.inputs[li])
		g.b[li].AddVec(g.b[li], delta)
		if li == 0 {
			break
		}
		prev := m.layers[li-1]
		next := mat.NewVecDense(l.In, nil)
		next.MulVec(l.W.T(), delta)
		for i := 0; i < l.In; i++ {
			next.SetVec(i, next.AtVec(i)*prev.Act.derivative(t.pre[li-1].AtVec(i)))
		}
		delta = next
	}
	return diff
}

// evaluate returns MSE and MAE over samples [from, to).
func (m *Model) evaluate(set TrainingSet, from, to int) (mse, mae float64) {
	if to <= from {
		return math.NaN(), math.NaN()
	}
	for i := from; i < to; i++ {
		p, _ := m.Predict(set.X[i])
		d := p - set.Y[i]
		mse += d * d
		mae += math.Abs(d)
	}
	k := float64(to - from)
	return mse / k, mae / k
}

func checkShapes(set TrainingSet) error {
	if len(set.X) != len(set.Y) {
		return common.NewAppError("TRAIN_SHAPE",
			fmt.Sprintf("%d inputs vs %d targets", len(set.X), len(set.Y)), common.ErrShapeMismatch)
	}
	if len(set.X) == 0 {
		return common.NewAppError("TRAIN_SHAPE", "empty training set", common.ErrShapeMismatch)
	}
	for i, row := range set.X {
		if len(row) != InputDim {
			return common.NewAppError("TRAIN_SHAPE",
				fmt.Sprintf("sample %d has %d features, want %d", i, len(row), InputDim), common.ErrShapeMismatch)
		}
	}
	return nil
}
