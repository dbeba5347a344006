package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/quotation-engine/internal/common"
)

var (
	proposalSchemaOnce sync.Once
	proposalSchema     *jsonschema.Schema
	proposalSchemaErr  error
)

// CompileSchema compiles schemaMap into a validator.
func CompileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	schema, err := CompileSchema(schemaMap)
	if err != nil {
		return err
	}
	return validateWith(schema, data)
}

// ValidateFields checks the extracted mapping against the proposal schema.
func ValidateFields(fields ProposalFields) error {
	proposalSchemaOnce.Do(func() {
		proposalSchema, proposalSchemaErr = CompileSchema(BuildProposalJSONSchema())
	})
	if proposalSchemaErr != nil {
		return proposalSchemaErr
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}
	return validateWith(proposalSchema, data)
}

func validateWith(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return common.NewAppError("SCHEMA_MISMATCH", "json does not match schema",
			fmt.Errorf("%w: %v", common.ErrValidation, err))
	}
	return nil
}
