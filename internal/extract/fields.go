package extract

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/quotation-engine/constants"
)

// ProposalFields maps each recognized field name to its extracted value or constants.NotFound.
type ProposalFields map[string]string

// Get returns the value for name, or constants.NotFound when absent.
func (f ProposalFields) Get(name string) string {
	if v, ok := f[name]; ok {
		return v
	}
	return constants.NotFound
}

// FieldPattern binds a field name to the expression that captures its value in group 1.
type FieldPattern struct {
	Name    string
	Pattern *regexp.Regexp
}

// labelPattern builds `(?i)<label>\s*:\s*(.*)`. The capture stops at the end of the line.
func labelPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `\s*:\s*(.*)`)
}

// DefaultPatterns is the label table for proposal documents.
var DefaultPatterns = []FieldPattern{
	{Name: constants.FieldCedant, Pattern: labelPattern("Cedant")},
	{Name: constants.FieldBroker, Pattern: labelPattern("Broker")},
	{Name: constants.FieldPeriodOfCover, Pattern: labelPattern("Period of Cover")},
	{Name: constants.FieldGrossFees, Pattern: labelPattern("Gross Fees")},
}

// RegexFieldExtractor evaluates a pattern table against document text.
type RegexFieldExtractor struct {
	patterns []FieldPattern
}

func NewRegexFieldExtractor(patterns []FieldPattern) *RegexFieldExtractor {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	return &RegexFieldExtractor{patterns: patterns}
}

// ExtractFields keeps the first match per field, trimmed; unmatched fields get constants.NotFound.
func (x *RegexFieldExtractor) ExtractFields(text string) ProposalFields {
	out := make(ProposalFields, len(x.patterns))
	for _, p := range x.patterns {
		m := p.Pattern.FindStringSubmatch(text)
		if m == nil {
			out[p.Name] = constants.NotFound
			continue
		}
		out[p.Name] = strings.TrimSpace(m[1])
	}
	return out
}
