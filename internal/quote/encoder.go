package quote

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/joseph-ayodele/quotation-engine/constants"
	"github.com/joseph-ayodele/quotation-engine/internal/extract"
	"github.com/joseph-ayodele/quotation-engine/internal/model"
)

// FeatureEncoder turns proposal fields into a model input row.
type FeatureEncoder interface {
	Encode(fields extract.ProposalFields) []float64
}

// GrossFeesEncoder fills slot 0 with the gross fees figure and leaves the
// remaining slots at zero.
type GrossFeesEncoder struct{}

func (GrossFeesEncoder) Encode(fields extract.ProposalFields) []float64 {
	features := make([]float64, model.InputDim)
	features[0] = parseGrossFees(fields.Get(constants.FieldGrossFees))
	return features
}

// parseGrossFees drops thousands separators and accepts only an all-digit remainder.
// Anything else, decimals like "1234.50" included, yields 0. Digits from any
// script count, so "١٢٣" and "１２３" both read as 123.
func parseGrossFees(raw string) float64 {
	s := strings.ReplaceAll(raw, ",", "")
	if s == "" {
		return 0
	}
	var b strings.Builder
	for _, r := range s {
		d, ok := digitValue(r)
		if !ok {
			return 0
		}
		b.WriteByte(byte('0' + d))
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

// digitValue maps a decimal digit of any script to 0-9. Nd code points come
// in contiguous runs of ten, zero first.
func digitValue(r rune) (int, bool) {
	if !unicode.IsDigit(r) {
		return 0, false
	}
	if r >= '0' && r <= '9' {
		return int(r - '0'), true
	}
	start := r
	for unicode.IsDigit(start - 1) {
		start--
	}
	return int(r-start) % 10, true
}
