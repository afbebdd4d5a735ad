package parser

import "go.yaml.in/yaml/v4"

// UnmarshalYAML decodes a Schema normally, then normalizes an object-form
// additionalProperties into a typed *Schema so structural passes see one
// shape instead of a raw map.
func (s *Schema) UnmarshalYAML(unmarshal func(any) error) error {
	type schemaAlias Schema
	var tmp schemaAlias
	if err := unmarshal(&tmp); err != nil {
		return err
	}
	*s = Schema(tmp)
	if raw, ok := s.AdditionalProperties.(map[string]any); ok {
		if child := schemaFromMap(raw); child != nil {
			s.AdditionalProperties = child
		}
	}
	return nil
}

// schemaFromMap re-shapes a generically decoded map into a typed Schema
// via a YAML round-trip. Returns nil if the map does not decode cleanly.
func schemaFromMap(raw map[string]any) *Schema {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil
	}
	var schema Schema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil
	}
	return &schema
}

// DeepCopyOAS3Document returns an independent copy of the document via a
// YAML round-trip. Used by the patcher so each stage owns its document
// rather than aliasing the caller's tree.
func DeepCopyOAS3Document(doc *OAS3Document) (*OAS3Document, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out OAS3Document
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
