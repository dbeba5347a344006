package extract

import "github.com/joseph-ayodele/quotation-engine/constants"

// BuildProposalJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a generic map.
// Every recognized field must be present as a string; nothing else is allowed.
func BuildProposalJSONSchema() map[string]any {
	props := make(map[string]any, len(constants.ProposalFieldNames))
	for _, name := range constants.ProposalFieldNames {
		props[name] = map[string]any{"type": "string"}
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             constants.ProposalFieldNames,
	}
}
