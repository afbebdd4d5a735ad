package patcher

import (
	"fmt"
	"sort"

	"github.com/specmend/specmend/parser"
)

// Names of the schemas injected into components.schemas. Later passes
// and patched operations reference these by pointer.
const (
	SchemaFieldValue  = "FieldValue"
	SchemaKeyedRecord = "KeyedRecord"
	SchemaSortField   = "SortField"
	SchemaSort        = "Sort"
)

// injectedSchemas builds the shared schema definitions fresh on each call
// so pass runs never alias each other's documents.
func injectedSchemas() map[string]*parser.Schema {
	return map[string]*parser.Schema{
		SchemaFieldValue: {
			Description: "A scalar field value as it appears on a record.",
			OneOf: []*parser.Schema{
				{Type: "string"},
				{Type: "number"},
				{Type: "boolean"},
			},
			Nullable: true,
		},
		SchemaKeyedRecord: {
			Type:        "object",
			Description: "An open record keyed by field name.",
			AdditionalProperties: &parser.Schema{
				Ref: parser.SchemaRef(SchemaFieldValue),
			},
		},
		SchemaSortField: {
			Type:        "object",
			Description: "A single sort criterion.",
			Required:    []string{"field"},
			Properties: map[string]*parser.Schema{
				"field": {
					Type:        "string",
					Description: "Name of the field to sort by.",
				},
				"direction": {
					Type:    "string",
					Enum:    []any{"asc", "desc"},
					Default: "asc",
				},
			},
		},
		SchemaSort: {
			Description: "Either a single field name or an ordered list of sort criteria.",
			OneOf: []*parser.Schema{
				{Type: "string"},
				{
					Type:  "array",
					Items: &parser.Schema{Ref: parser.SchemaRef(SchemaSortField)},
				},
			},
		},
	}
}

// injectSchemas adds the shared definitions to components.schemas. An
// existing definition under the same name is left untouched and reported
// as a warning so hand-maintained overrides stay authoritative.
func (p *Patcher) injectSchemas(doc *parser.OAS3Document, result *PatchResult) {
	doc.EnsureComponents()

	schemas := injectedSchemas()
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, exists := doc.Components.Schemas[name]; exists {
			addIssue(result, "components.schemas."+name,
				fmt.Sprintf("schema %q already defined; injection skipped", name), SeverityWarning)
			continue
		}
		doc.Components.Schemas[name] = schemas[name]
		addPatch(result, PassInjectSchemas, "components.schemas."+name,
			fmt.Sprintf("injected shared schema %q", name))
	}
}
