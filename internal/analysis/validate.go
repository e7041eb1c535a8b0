package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pdflens/pdflens/internal/common"
)

var (
	compileOnce    sync.Once
	resultSchema   *jsonschema.Schema
	decisionSchema *jsonschema.Schema
	compileErr     error
)

func compiled() (*jsonschema.Schema, *jsonschema.Schema, error) {
	compileOnce.Do(func() {
		resultSchema, compileErr = compileSchema("analysis.json", ResultSchema())
		if compileErr != nil {
			return
		}
		decisionSchema, compileErr = compileSchema("category_decision.json", CategoryDecisionSchema())
	})
	return resultSchema, decisionSchema, compileErr
}

func compileSchema(name string, schema map[string]any) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", name, err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", name, err)
	}
	return compiler.Compile(name)
}

// validateAgainst round-trips v through JSON and checks it against sch.
func validateAgainst(sch *jsonschema.Schema, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal for validation: %w", err)
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("decode for validation: %w", err)
	}
	if err := sch.Validate(decoded); err != nil {
		return fmt.Errorf("%v: %w", err, common.ErrSchema)
	}
	return nil
}

// ValidateResult checks an analysis result against the result schema.
func ValidateResult(v any) error {
	sch, _, err := compiled()
	if err != nil {
		return err
	}
	return validateAgainst(sch, v)
}

// ValidateCategoryDecision checks a decision against the decision schema.
func ValidateCategoryDecision(v any) error {
	_, sch, err := compiled()
	if err != nil {
		return err
	}
	return validateAgainst(sch, v)
}
