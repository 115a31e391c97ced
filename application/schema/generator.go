// Package schema generates JSON schemas for the binding's configuration.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/amalgam-lang/amalgam-go/domain/entities"
	"github.com/invopop/jsonschema"
)

// ConfigSchemaID identifies the configuration schema document.
const ConfigSchemaID = "https://amalgam-lang.github.io/amalgam-go/config.schema.json"

// GenerateSchema creates a JSON schema (Draft 2020-12) from a Go value.
func GenerateSchema(v any) ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
	}
	return marshal(reflector.Reflect(v))
}

// ConfigSchema returns the schema of entities.Config as written in YAML
// config files.
func ConfigSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
		FieldNameTag:   "yaml",
	}
	s := reflector.Reflect(&entities.Config{})
	s.ID = jsonschema.ID(ConfigSchemaID)
	s.Title = "amalgam-go configuration"
	return marshal(s)
}

func marshal(s *jsonschema.Schema) ([]byte, error) {
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return out, nil
}
