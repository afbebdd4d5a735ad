package validator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specmend/specmend/parser"
)

func emptyDoc() *parser.OAS3Document {
	return &parser.OAS3Document{OpenAPI: "3.0.3"}
}

func errorCount(found []ValidationError) int {
	n := 0
	for _, issue := range found {
		if issue.Severity == SeverityError {
			n++
		}
	}
	return n
}

// An empty schema constrains nothing.
func TestEmptySchemaAcceptsEverything(t *testing.T) {
	values := []any{
		nil,
		"text",
		42,
		3.14,
		true,
		[]any{1, 2},
		map[string]any{"k": "v"},
	}
	for i, value := range values {
		t.Run(fmt.Sprintf("value_%d", i), func(t *testing.T) {
			found := CheckValue(emptyDoc(), &parser.Schema{}, value, "body")
			assert.Empty(t, found)
		})
	}
}

// Null satisfies every schema, whatever it declares.
func TestNullAlwaysAccepted(t *testing.T) {
	schemas := []*parser.Schema{
		{Type: "string"},
		{Type: "integer"},
		{Type: "object", Required: []string{"id"}},
		{Type: "array", Items: &parser.Schema{Type: "string"}},
	}
	for i, schema := range schemas {
		t.Run(fmt.Sprintf("schema_%d", i), func(t *testing.T) {
			assert.Empty(t, CheckValue(emptyDoc(), schema, nil, "body"))
		})
	}
}

func TestTypeMismatch(t *testing.T) {
	found := CheckValue(emptyDoc(), &parser.Schema{Type: "string"}, 42, "body")
	require.Len(t, found, 1)
	assert.Equal(t, SeverityError, found[0].Severity)
}

// Integer and number are interchangeable for integral runtime values.
func TestNumericEquivalence(t *testing.T) {
	tests := []struct {
		name      string
		schemaTyp string
		value     any
		wantErr   bool
	}{
		{"int against integer", "integer", 7, false},
		{"integral float against integer", "integer", float64(7), false},
		{"fractional float against integer", "integer", 7.5, true},
		{"int against number", "number", 7, false},
		{"float against number", "number", 7.5, false},
		{"string against number", "number", "7", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := CheckValue(emptyDoc(), &parser.Schema{Type: tt.schemaTyp}, tt.value, "body")
			if tt.wantErr {
				assert.NotZero(t, errorCount(found))
			} else {
				assert.Zero(t, errorCount(found))
			}
		})
	}
}

// Missing required properties produce exactly one error each.
func TestRequiredFieldErrorCounts(t *testing.T) {
	schema := &parser.Schema{
		Type:     "object",
		Required: []string{"id", "amount", "currency"},
		Properties: map[string]*parser.Schema{
			"id":       {Type: "string"},
			"amount":   {Type: "number"},
			"currency": {Type: "string"},
		},
	}

	found := CheckValue(emptyDoc(), schema, map[string]any{"id": "inv-1"}, "body")
	assert.Equal(t, 2, errorCount(found))

	found = CheckValue(emptyDoc(), schema, map[string]any{}, "body")
	assert.Equal(t, 3, errorCount(found))

	found = CheckValue(emptyDoc(), schema, map[string]any{
		"id": "inv-1", "amount": 10.5, "currency": "EUR",
	}, "body")
	assert.Zero(t, errorCount(found))
}

// A value matching no union branch yields a warning, never an error.
func TestUnionLeniency(t *testing.T) {
	schema := &parser.Schema{
		OneOf: []*parser.Schema{
			{Type: "string"},
			{Type: "integer"},
		},
	}

	found := CheckValue(emptyDoc(), schema, true, "body")
	require.Len(t, found, 1)
	assert.Equal(t, SeverityWarning, found[0].Severity)
	assert.Contains(t, found[0].Message, "no oneOf branch")

	// A matching branch leaves no trace
	assert.Empty(t, CheckValue(emptyDoc(), schema, "text", "body"))
	assert.Empty(t, CheckValue(emptyDoc(), schema, 3, "body"))
}

// A sibling type on a union node stays out of the verdict; the
// branches alone decide, so the result is at worst the lenient warning.
func TestUnionIgnoresSiblingType(t *testing.T) {
	schema := &parser.Schema{
		Type: "string",
		OneOf: []*parser.Schema{
			{Type: "string"},
			{Type: "integer"},
		},
	}

	// Matches the integer branch even though the declared type disagrees.
	assert.Empty(t, CheckValue(emptyDoc(), schema, 3, "body"))

	// No branch matches: one warning, never a type error.
	found := CheckValue(emptyDoc(), schema, true, "body")
	require.Len(t, found, 1)
	assert.Equal(t, SeverityWarning, found[0].Severity)
	assert.Contains(t, found[0].Message, "no oneOf branch")
}

func TestAllOfAccumulates(t *testing.T) {
	schema := &parser.Schema{
		AllOf: []*parser.Schema{
			{Type: "object", Required: []string{"id"}},
			{Type: "object", Required: []string{"amount"}},
		},
	}
	found := CheckValue(emptyDoc(), schema, map[string]any{}, "body")
	assert.Equal(t, 2, errorCount(found))
}

func TestArrayElementPaths(t *testing.T) {
	schema := &parser.Schema{
		Type:  "array",
		Items: &parser.Schema{Type: "string"},
	}
	found := CheckValue(emptyDoc(), schema, []any{"ok", 1, "ok", 2}, "body")
	require.Len(t, found, 2)
	assert.Equal(t, "body[1]", found[0].Path)
	assert.Equal(t, "body[3]", found[1].Path)
}

func TestUndeclaredKeyWarning(t *testing.T) {
	schema := &parser.Schema{
		Type: "object",
		Properties: map[string]*parser.Schema{
			"id": {Type: "string"},
		},
		AdditionalProperties: false,
	}
	found := CheckValue(emptyDoc(), schema, map[string]any{
		"id":     "inv-1",
		"bonus":  true,
		"second": 1,
	}, "body")
	assert.Zero(t, errorCount(found))
	assert.Len(t, found, 2)
	for _, issue := range found {
		assert.Equal(t, SeverityWarning, issue.Severity)
	}
}

func TestAdditionalPropertiesSchemaChecked(t *testing.T) {
	schema := &parser.Schema{
		Type:                 "object",
		AdditionalProperties: &parser.Schema{Type: "string"},
	}
	found := CheckValue(emptyDoc(), schema, map[string]any{
		"a": "ok",
		"b": 1,
	}, "body")
	require.Len(t, found, 1)
	assert.Equal(t, "body.b", found[0].Path)
}

func TestEnumMembership(t *testing.T) {
	schema := &parser.Schema{
		Type: "string",
		Enum: []any{"asc", "desc"},
	}
	assert.Empty(t, CheckValue(emptyDoc(), schema, "asc", "body"))

	found := CheckValue(emptyDoc(), schema, "sideways", "body")
	assert.Equal(t, 1, errorCount(found))
}

func TestRefResolution(t *testing.T) {
	doc := &parser.OAS3Document{
		OpenAPI: "3.0.3",
		Components: &parser.Components{
			Schemas: map[string]*parser.Schema{
				"Invoice": {
					Type:     "object",
					Required: []string{"id"},
					Properties: map[string]*parser.Schema{
						"id": {Type: "string"},
					},
				},
			},
		},
	}
	schema := &parser.Schema{Ref: parser.SchemaRef("Invoice")}

	found := CheckValue(doc, schema, map[string]any{"id": "inv-1"}, "body")
	assert.Empty(t, found)

	found = CheckValue(doc, schema, map[string]any{}, "body")
	assert.Equal(t, 1, errorCount(found))
}

// An unresolved pointer surfaces as a warning and the value passes.
func TestUnresolvedRefWarns(t *testing.T) {
	schema := &parser.Schema{Ref: "#/components/schemas/Gone"}
	found := CheckValue(emptyDoc(), schema, map[string]any{"anything": true}, "body")
	require.Len(t, found, 1)
	assert.Equal(t, SeverityWarning, found[0].Severity)
}

// A self-referential schema terminates via the depth guard.
func TestCyclicSchemaTerminates(t *testing.T) {
	doc := &parser.OAS3Document{
		OpenAPI: "3.0.3",
		Components: &parser.Components{
			Schemas: map[string]*parser.Schema{
				"Node": {
					Type: "object",
					Properties: map[string]*parser.Schema{
						"next": {Ref: "#/components/schemas/Node"},
					},
				},
			},
		},
	}

	deep := map[string]any{}
	cursor := deep
	for i := 0; i < 200; i++ {
		next := map[string]any{}
		cursor["next"] = next
		cursor = next
	}

	schema := &parser.Schema{Ref: parser.SchemaRef("Node")}
	assert.NotPanics(t, func() {
		CheckValue(doc, schema, deep, "body")
	})
}
