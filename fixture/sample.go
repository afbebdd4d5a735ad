package fixture

import (
	"sort"

	"github.com/specmend/specmend/parser"
)

// maxSampleDepth bounds recursion when synthesizing values so a cyclic
// schema produces a truncated sample instead of hanging.
const maxSampleDepth = 12

// SampleValue synthesizes a plausible payload for a schema. Declared
// examples and defaults win over synthesis, enums contribute their first
// value, and objects carry only their required properties so generated
// fixtures start minimal.
func SampleValue(doc *parser.OAS3Document, schema *parser.Schema) any {
	return sampleValue(doc, schema, 0)
}

func sampleValue(doc *parser.OAS3Document, schema *parser.Schema, depth int) any {
	if schema == nil || depth > maxSampleDepth {
		return nil
	}

	if schema.Ref != "" {
		target, ok := doc.ResolveSchema(schema.Ref)
		if !ok {
			return nil
		}
		return sampleValue(doc, target, depth+1)
	}

	if schema.Example != nil {
		return schema.Example
	}
	if schema.Default != nil {
		return schema.Default
	}
	if len(schema.Enum) > 0 {
		return schema.Enum[0]
	}

	if len(schema.AllOf) > 0 {
		return sampleAllOf(doc, schema, depth)
	}
	if len(schema.OneOf) > 0 {
		return sampleValue(doc, schema.OneOf[0], depth+1)
	}
	if len(schema.AnyOf) > 0 {
		return sampleValue(doc, schema.AnyOf[0], depth+1)
	}

	switch {
	case schema.HasType("object") || len(schema.Properties) > 0:
		return sampleObject(doc, schema, depth)
	case schema.HasType("array"):
		if schema.Items == nil {
			return []any{}
		}
		return []any{sampleValue(doc, schema.Items, depth+1)}
	case schema.HasType("string"):
		return sampleString(schema)
	case schema.HasType("integer"):
		return 0
	case schema.HasType("number"):
		return 0.0
	case schema.HasType("boolean"):
		return false
	default:
		return nil
	}
}

// sampleAllOf merges the object samples of every allOf branch, later
// branches winning for shared keys.
func sampleAllOf(doc *parser.OAS3Document, schema *parser.Schema, depth int) any {
	merged := map[string]any{}
	for _, sub := range schema.AllOf {
		branch := sampleValue(doc, sub, depth+1)
		obj, ok := branch.(map[string]any)
		if !ok {
			// A non-object branch dominates the composition
			return branch
		}
		for key, value := range obj {
			merged[key] = value
		}
	}
	return merged
}

// sampleObject synthesizes required properties only, in sorted order so
// generation is deterministic.
func sampleObject(doc *parser.OAS3Document, schema *parser.Schema, depth int) any {
	obj := map[string]any{}
	required := append([]string(nil), schema.Required...)
	sort.Strings(required)
	for _, name := range required {
		prop, declared := schema.Properties[name]
		if !declared {
			if ap, ok := schema.AdditionalPropertiesSchema(); ok {
				prop = ap
			}
		}
		obj[name] = sampleValue(doc, prop, depth+1)
	}
	return obj
}

// sampleString picks a representative value for common formats.
func sampleString(schema *parser.Schema) string {
	switch schema.Format {
	case "date":
		return "2024-01-15"
	case "date-time":
		return "2024-01-15T09:30:00Z"
	case "uuid":
		return "00000000-0000-0000-0000-000000000000"
	case "email":
		return "user@example.com"
	case "uri":
		return "https://example.com"
	default:
		return "string"
	}
}
