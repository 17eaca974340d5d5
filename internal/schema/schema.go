// Package schema validates scenario files against the embedded CUE schema.
//
// Validation catches malformed scenarios (unknown assertion types, steps
// with no action, empty object ids) before the harness runs them, with CUE
// error positions pointing into the YAML source.
package schema

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/encoding/yaml"
)

//go:embed scenario.cue
var scenarioCUE string

// SchemaError reports a scenario file that does not satisfy the schema.
type SchemaError struct {
	// File is the scenario file path as given to ValidateScenario.
	File string

	// Message is the CUE error detail, including source positions.
	Message string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("scenario %s: %s", e.File, e.Message)
}

// ValidateScenario checks YAML scenario data against the #Scenario schema.
// Returns a *SchemaError describing every violation, or nil if the data
// validates.
func ValidateScenario(filename string, data []byte) error {
	ctx := cuecontext.New()

	schemaVal := ctx.CompileString(scenarioCUE, cue.Filename("scenario.cue"))
	if err := schemaVal.Err(); err != nil {
		// The schema is embedded; failing to compile it is a build defect,
		// not a caller error.
		return fmt.Errorf("compile embedded schema: %w", err)
	}
	def := schemaVal.LookupPath(cue.ParsePath("#Scenario"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("lookup #Scenario: %w", err)
	}

	file, err := yaml.Extract(filename, data)
	if err != nil {
		return &SchemaError{File: filename, Message: err.Error()}
	}
	val := ctx.BuildFile(file)
	if err := val.Err(); err != nil {
		return &SchemaError{File: filename, Message: cueerrors.Details(err, nil)}
	}

	unified := def.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &SchemaError{File: filename, Message: cueerrors.Details(err, nil)}
	}

	return nil
}
