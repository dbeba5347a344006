package quote

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/quotation-engine/constants"
	"github.com/joseph-ayodele/quotation-engine/internal/common"
	"github.com/joseph-ayodele/quotation-engine/internal/extract"
)

// Predictor is the trained regression model as seen by the quoter.
type Predictor interface {
	Predict(features []float64) (float64, error)
}

type Quoter struct {
	model   Predictor
	encoder FeatureEncoder
	logger  *slog.Logger
}

func NewQuoter(model Predictor, encoder FeatureEncoder, logger *slog.Logger) *Quoter {
	if logger == nil {
		logger = slog.Default()
	}
	if encoder == nil {
		encoder = GrossFeesEncoder{}
	}
	return &Quoter{model: model, encoder: encoder, logger: logger}
}

// Quote predicts the quotation amount for fields, rounded to 2 decimal places.
func (q *Quoter) Quote(fields extract.ProposalFields) (decimal.Decimal, error) {
	features := q.encoder.Encode(fields)
	raw, err := q.model.Predict(features)
	if err != nil {
		return decimal.Zero, fmt.Errorf("predict: %w", err)
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return decimal.Zero, common.NewAppError("PREDICTION", fmt.Sprintf("non-finite output %v", raw), common.ErrInternal)
	}
	amount, err := roundCents(raw)
	if err != nil {
		return decimal.Zero, err
	}
	q.logger.Debug("quote.predicted", "gross_fees_feature", features[0], "raw", raw, "amount", amount.StringFixed(2))
	return amount, nil
}

// roundCents rounds the exact binary value of raw to 2 places, so a float
// stored just below a half cent (0.285 is 0.28499...) rounds down and exact
// ties go to the even cent.
func roundCents(raw float64) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strconv.FormatFloat(raw, 'f', 2, 64))
	if err != nil {
		return decimal.Zero, common.WrapError(err, "round prediction")
	}
	return amount, nil
}

// FormatLine renders the user-facing quotation line.
func FormatLine(amount decimal.Decimal) string {
	return fmt.Sprintf("Generated Quotation: %s %s", constants.CurrencyLabel, amount.StringFixed(2))
}
