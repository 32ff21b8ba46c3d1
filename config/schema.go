package config

import (
	"github.com/invopop/jsonschema"
)

// Schema describes the scenario file format as JSON schema, for editors and validators.
func Schema() *jsonschema.Schema {
	return jsonschema.Reflect(&Scenario{})
}
