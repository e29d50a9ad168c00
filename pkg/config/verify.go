package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema []byte

// VerifyAgainstEmbeddedSchema checks numeric config values against minimums declared in the embedded schema.
// Unknown keys are rejected earlier by the yaml decoder.
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	var schema jsonschema.Schema
	if err := json.Unmarshal(embeddedSchema, &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var configMap map[string]any
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	return verifyObject(&schema, schema.Definitions, configMap, "")
}

func verifyObject(s *jsonschema.Schema, defs jsonschema.Definitions, obj map[string]any, prefix string) error {
	s = resolveRef(s, defs)
	if s.Properties == nil {
		return nil
	}
	for key, val := range obj {
		prop, ok := s.Properties.Get(key)
		if !ok {
			continue
		}
		prop = resolveRef(prop, defs)
		switch v := val.(type) {
		case map[string]any:
			if err := verifyObject(prop, defs, v, prefix+key+"."); err != nil {
				return err
			}
		case float64:
			if prop.Minimum == "" {
				continue
			}
			if minimum, err := prop.Minimum.Float64(); err == nil && v < minimum {
				return fmt.Errorf("%s%s must be at least %v", prefix, key, minimum)
			}
		}
	}
	return nil
}

// resolveRef follows a local "#/$defs/Name" reference
func resolveRef(s *jsonschema.Schema, defs jsonschema.Definitions) *jsonschema.Schema {
	const refPrefix = "#/$defs/"
	if s == nil || !strings.HasPrefix(s.Ref, refPrefix) {
		return s
	}
	if def, ok := defs[strings.TrimPrefix(s.Ref, refPrefix)]; ok {
		return def
	}
	return s
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() *jsonschema.Schema {
	return jsonschema.Reflect(&Config{})
}
