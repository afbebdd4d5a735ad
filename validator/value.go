package validator

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/specmend/specmend/parser"
)

// maxValueNestingDepth bounds recursion when checking values so a
// self-referential schema cannot run away.
const maxValueNestingDepth = 100

// CheckValue checks a concrete decoded value against a schema and
// returns the issues found. The document is used to resolve local schema
// references; an unresolved reference is reported as a warning and the
// value under it is accepted. A nil or empty schema accepts any value,
// and a null value is accepted by every schema.
func CheckValue(doc *parser.OAS3Document, schema *parser.Schema, value any, path string) []ValidationError {
	var found []ValidationError
	checkValue(doc, schema, value, path, 0, &found)
	return found
}

func checkValue(doc *parser.OAS3Document, schema *parser.Schema, value any, path string, depth int, found *[]ValidationError) {
	if schema == nil || depth > maxValueNestingDepth {
		return
	}

	if schema.Ref != "" {
		target, ok := doc.ResolveSchema(schema.Ref)
		if !ok {
			*found = append(*found, ValidationError{
				Path:     path,
				Message:  fmt.Sprintf("reference %q does not resolve; value not checked", schema.Ref),
				Severity: SeverityWarning,
				Field:    "$ref",
				Value:    schema.Ref,
			})
			return
		}
		checkValue(doc, target, value, path, depth+1, found)
		return
	}

	// Null satisfies every schema. Nullability is noisy in vendor
	// documents and rejecting nulls produces far more false positives
	// than it catches defects.
	if value == nil {
		return
	}

	for _, sub := range schema.AllOf {
		checkValue(doc, sub, value, path, depth+1, found)
	}

	// A union node delegates all structural meaning to its branches;
	// sibling type/enum keys on the same node stay out of the verdict so
	// union leniency is not undercut by a stray declared type.
	if len(schema.OneOf) > 0 || len(schema.AnyOf) > 0 {
		if len(schema.OneOf) > 0 {
			checkUnion(doc, schema.OneOf, value, path, "oneOf", depth, found)
		}
		if len(schema.AnyOf) > 0 {
			checkUnion(doc, schema.AnyOf, value, path, "anyOf", depth, found)
		}
		return
	}

	if len(schema.Enum) > 0 && !enumContains(schema.Enum, value) {
		*found = append(*found, ValidationError{
			Path:     path,
			Message:  fmt.Sprintf("value %v is not one of the declared enum values", value),
			Severity: SeverityError,
			Value:    value,
		})
	}

	types := schema.TypeNames()
	if len(types) > 0 && !valueMatchesAnyType(types, value) {
		*found = append(*found, ValidationError{
			Path:     path,
			Message:  fmt.Sprintf("value of kind %s does not match declared type %v", valueKind(value), types),
			Severity: SeverityError,
			Value:    value,
		})
		return
	}

	switch v := value.(type) {
	case []any:
		if schema.Items != nil {
			for i, item := range v {
				checkValue(doc, schema.Items, item, fmt.Sprintf("%s[%d]", path, i), depth+1, found)
			}
		}
	case map[string]any:
		checkObject(doc, schema, v, path, depth, found)
	}
}

// checkUnion checks a value against oneOf/anyOf branches. Each branch is
// checked against its own collector so a failed branch leaves no trace.
// A value matching no branch is reported as a warning rather than an
// error; vendor unions routinely lag behind the payloads they describe.
func checkUnion(doc *parser.OAS3Document, branches []*parser.Schema, value any, path, keyword string, depth int, found *[]ValidationError) {
	for _, branch := range branches {
		var branchIssues []ValidationError
		checkValue(doc, branch, value, path, depth+1, &branchIssues)
		if !hasError(branchIssues) {
			return
		}
	}
	*found = append(*found, ValidationError{
		Path:     path,
		Message:  fmt.Sprintf("value matches no %s branch", keyword),
		Severity: SeverityWarning,
		Value:    value,
	})
}

func checkObject(doc *parser.OAS3Document, schema *parser.Schema, obj map[string]any, path string, depth int, found *[]ValidationError) {
	for _, required := range schema.Required {
		if _, present := obj[required]; !present {
			*found = append(*found, ValidationError{
				Path:     path,
				Message:  fmt.Sprintf("required property %q is missing", required),
				Severity: SeverityError,
				Field:    required,
			})
		}
	}

	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	apSchema, hasAPSchema := schema.AdditionalPropertiesSchema()
	for _, key := range keys {
		childPath := path + "." + key
		if prop, declared := schema.Properties[key]; declared {
			checkValue(doc, prop, obj[key], childPath, depth+1, found)
			continue
		}
		if hasAPSchema {
			checkValue(doc, apSchema, obj[key], childPath, depth+1, found)
			continue
		}
		if len(schema.Properties) > 0 && !schema.AllowsAdditionalProperties() {
			*found = append(*found, ValidationError{
				Path:     childPath,
				Message:  fmt.Sprintf("property %q is not declared by the schema", key),
				Severity: SeverityWarning,
				Field:    key,
			})
		}
	}
}

func hasError(found []ValidationError) bool {
	for _, issue := range found {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// enumContains reports whether the enum list holds a value deeply equal
// to the candidate, with numeric values compared by magnitude.
func enumContains(enum []any, value any) bool {
	for _, allowed := range enum {
		if reflect.DeepEqual(allowed, value) {
			return true
		}
		af, aok := asFloat(allowed)
		vf, vok := asFloat(value)
		if aok && vok && af == vf {
			return true
		}
	}
	return false
}

// valueMatchesAnyType reports whether the value conforms to at least one
// declared type name. Integer and number are interchangeable when the
// value has no fractional part.
func valueMatchesAnyType(types []string, value any) bool {
	for _, typeName := range types {
		if valueMatchesType(typeName, value) {
			return true
		}
	}
	return false
}

func valueMatchesType(typeName string, value any) bool {
	switch typeName {
	case "string":
		_, ok := value.(string)
		return ok
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "number":
		_, ok := asFloat(value)
		return ok
	case "integer":
		f, ok := asFloat(value)
		return ok && f == math.Trunc(f)
	case "array":
		_, ok := value.([]any)
		return ok
	case "object":
		_, ok := value.(map[string]any)
		return ok
	case "null":
		return value == nil
	default:
		// Unknown type names do not reject anything
		return true
	}
}

// asFloat normalizes the numeric representations the decoder produces
func asFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func valueKind(value any) string {
	switch value.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, uint64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case nil:
		return "null"
	default:
		return reflect.TypeOf(value).String()
	}
}
