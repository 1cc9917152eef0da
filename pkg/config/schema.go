package config

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// configSchema validates the shape of a .hookwright.yaml file. Unknown keys are
// rejected so typos surface as errors instead of silently falling back to
// defaults.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "hook": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "name": {"type": "string", "minLength": 1}
      }
    },
    "snapshots": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "retention": {"type": "integer", "minimum": 0}
      }
    },
    "scan": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "skip_dirs": {"type": "array", "items": {"type": "string"}},
        "max_entries": {"type": "integer", "minimum": 1}
      }
    },
    "detect": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "scan_depth": {"type": "integer", "minimum": 0},
        "scan_max_files": {"type": "integer", "minimum": 1},
        "manifest_scan_depth": {"type": "integer", "minimum": 0},
        "manifest_scan_files": {"type": "integer", "minimum": 1}
      }
    }
  }
}`

// ValidateConfig validates raw YAML config data against the embedded schema.
func ValidateConfig(data []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("config is not valid YAML: %v", err)
	}
	if doc == nil {
		return nil // empty file, defaults apply
	}

	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %v", err)
	}

	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
