package patcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specmend/specmend/parser"
)

func parseOAS3(t *testing.T, doc string) parser.ParseResult {
	t.Helper()
	p := parser.New()
	p.ValidateStructure = false
	result, err := p.ParseBytes([]byte(doc))
	require.NoError(t, err)
	require.True(t, result.IsOAS3())
	return *result
}

const vendorDoc = `
openapi: "3.0.3"
info:
  title: Billing API
  version: "1.0.0"
paths:
  /invoices:
    get:
      tags: [Invoices]
      operationId: getInvoices
      parameters:
        - name: Authorization
          in: header
          schema:
            type: string
        - name: pageSize
          in: query
      responses:
        "200/202":
          description: composite
        "4XX":
          description: client error
    post:
      tags: [Invoices]
      operationId: postInvoices
      requestBody:
        content:
          application/json:
            schema:
              $ref: "#/components/schemas/Invoice"
      responses:
        "201":
          description: created
  /payment-runs/{id}/items:
    get:
      responses:
        "200":
          description: ok
components:
  schemas:
    Invoice:
      type: object
      properties:
        tags:
          type: array
        sortBy:
          type: string
          x-sortable: true
          description: sort order
        lineErrors:
          type: object
`

func patchDoc(t *testing.T, doc string, opts ...Option) *PatchResult {
	t.Helper()
	opts = append(opts, WithParsed(parseOAS3(t, doc)))
	result, err := PatchWithOptions(opts...)
	require.NoError(t, err)
	return result
}

func TestStripHeaders(t *testing.T) {
	result := patchDoc(t, vendorDoc)

	params := result.Document.Paths["/invoices"].Get.Parameters
	require.Len(t, params, 1)
	assert.Equal(t, "pageSize", params[0].Name)
}

func TestNormalizeResponseCodes(t *testing.T) {
	result := patchDoc(t, vendorDoc)

	responses := result.Document.Paths["/invoices"].Get.Responses
	assert.Nil(t, responses.Get("200/202"))
	require.NotNil(t, responses.Get("200"))
	assert.Equal(t, "composite", responses.Get("200").Description)
	require.NotNil(t, responses.Default)
	assert.Equal(t, "client error", responses.Default.Description)
}

// A composite headed by a wildcard or "default" lands in the catch-all
// on the first run, and a second run has nothing left to rewrite.
func TestCompositeWildcardHeadResolvesInOneRun(t *testing.T) {
	doc := `
openapi: "3.0.3"
info:
  title: x
  version: "1"
paths:
  /a:
    get:
      operationId: getA
      responses:
        "200":
          description: ok
        "4XX/5XX":
          description: any error
  /b:
    get:
      operationId: getB
      responses:
        "200":
          description: ok
        "default/4XX":
          description: fallback
`
	result := patchDoc(t, doc)

	for _, path := range []string{"/a", "/b"} {
		responses := result.Document.Paths[path].Get.Responses
		assert.Equal(t, []string{"200"}, responses.SortedCodes(), "path %s", path)
		require.NotNil(t, responses.Default, "path %s", path)
	}
	assert.Equal(t, "any error", result.Document.Paths["/a"].Get.Responses.Default.Description)
	assert.Equal(t, "fallback", result.Document.Paths["/b"].Get.Responses.Default.Description)

	second, err := PatchWithOptions(WithParsed(parser.ParseResult{Document: result.Document}))
	require.NoError(t, err)
	for _, patch := range second.Patches {
		assert.NotEqual(t, PassNormalizeResponseCodes, patch.Pass)
	}
}

// Running the pipeline over its own output must not change anything.
func TestNormalizationIdempotent(t *testing.T) {
	first := patchDoc(t, vendorDoc)

	second, err := PatchWithOptions(WithParsed(parser.ParseResult{Document: first.Document}))
	require.NoError(t, err)

	for _, patch := range second.Patches {
		assert.NotEqual(t, PassNormalizeResponseCodes, patch.Pass)
		assert.NotEqual(t, PassStripHeaders, patch.Pass)
		assert.NotEqual(t, PassBackfillOperationIDs, patch.Pass)
		assert.NotEqual(t, PassSortableRewrite, patch.Pass)
		assert.NotEqual(t, PassLineErrorsMap, patch.Pass)
	}
}

func TestBackfillOperationIDs(t *testing.T) {
	result := patchDoc(t, vendorDoc)

	op := result.Document.Paths["/payment-runs/{id}/items"].Get
	assert.Equal(t, "getPaymentRunsItems", op.OperationID)
	// Existing ids are preserved
	assert.Equal(t, "getInvoices", result.Document.Paths["/invoices"].Get.OperationID)
}

func TestSynthesizeOperationID(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   string
	}{
		{"get", "/invoices", "getInvoices"},
		{"get", "/payment-runs/{id}/items", "getPaymentRunsItems"},
		{"delete", "/invoices/{id}", "deleteInvoices"},
		{"post", "/credit-memos", "postCreditMemos"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SynthesizeOperationID(tt.method, tt.path))
	}
}

func TestRequireBody(t *testing.T) {
	result := patchDoc(t, vendorDoc)

	body := result.Document.Paths["/invoices"].Post.RequestBody
	require.NotNil(t, body)
	assert.True(t, body.Required)
}

func TestInjectSchemas(t *testing.T) {
	result := patchDoc(t, vendorDoc)

	schemas := result.Document.Components.Schemas
	for _, name := range []string{SchemaFieldValue, SchemaKeyedRecord, SchemaSortField, SchemaSort} {
		assert.Contains(t, schemas, name)
	}
	// Injected refs resolve
	_, ok := result.Document.ResolveSchema(parser.SchemaRef(SchemaSort))
	assert.True(t, ok)
}

func TestInjectSchemasKeepsExisting(t *testing.T) {
	doc := `
openapi: "3.0.3"
info:
  title: x
  version: "1"
paths: {}
components:
  schemas:
    Sort:
      type: string
      description: hand-maintained
`
	result := patchDoc(t, doc)

	kept := result.Document.Components.Schemas[SchemaSort]
	assert.Equal(t, "hand-maintained", kept.Description)

	warned := false
	for _, issue := range result.Issues {
		if issue.Severity == SeverityWarning {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestSortableRewrite(t *testing.T) {
	result := patchDoc(t, vendorDoc)

	sortBy := result.Document.Components.Schemas["Invoice"].Properties["sortBy"]
	assert.Equal(t, parser.SchemaRef(SchemaSort), sortBy.Ref)
	assert.Equal(t, "sort order", sortBy.Description)
	assert.NotContains(t, sortBy.Extra, xSortableKey)
}

func TestArrayItemTypes(t *testing.T) {
	result := patchDoc(t, vendorDoc)

	tags := result.Document.Components.Schemas["Invoice"].Properties["tags"]
	require.NotNil(t, tags.Items)
	assert.True(t, tags.Items.HasType("string"))
}

func TestConstrainLineErrors(t *testing.T) {
	result := patchDoc(t, vendorDoc)

	lineErrors := result.Document.Components.Schemas["Invoice"].Properties["lineErrors"]
	ap, ok := lineErrors.AdditionalPropertiesSchema()
	require.True(t, ok)
	assert.True(t, ap.HasType("array"))
	require.NotNil(t, ap.Items)
	assert.True(t, ap.Items.HasType("string"))
}

func TestPatcherDoesNotMutateInput(t *testing.T) {
	parsed := parseOAS3(t, vendorDoc)
	src, ok := parsed.OAS3Document()
	require.True(t, ok)

	_, err := PatchWithOptions(WithParsed(parsed))
	require.NoError(t, err)

	// The source still carries the vendor defects
	assert.NotNil(t, src.Paths["/invoices"].Get.Responses.Get("200/202"))
	assert.Len(t, src.Paths["/invoices"].Get.Parameters, 2)
}

func TestEnabledPassesFilter(t *testing.T) {
	result := patchDoc(t, vendorDoc, WithEnabledPasses(PassBackfillOperationIDs))

	// Only backfill ran
	assert.NotNil(t, result.Document.Paths["/invoices"].Get.Responses.Get("200/202"))
	assert.Equal(t, "getPaymentRunsItems", result.Document.Paths["/payment-runs/{id}/items"].Get.OperationID)
	for _, patch := range result.Patches {
		assert.Equal(t, PassBackfillOperationIDs, patch.Pass)
	}
}

func TestOverridesMergeInOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "schemas-a.yaml", `
Invoice:
  type: object
  description: from a
Extra:
  type: string
`)
	writeFile(t, dir, "schemas-b.yaml", `
Invoice:
  type: object
  description: from b
`)
	writeFile(t, dir, "patches-endpoints.yaml", `
/invoices:
  get:
    operationId: listInvoices
    responses:
      "200":
        description: overridden
`)
	writeFile(t, dir, "notes.txt", "ignored")

	result := patchDoc(t, vendorDoc, WithOverrideDir(dir))

	// Later file wins for the shared key
	assert.Equal(t, "from b", result.Document.Components.Schemas["Invoice"].Description)
	assert.Contains(t, result.Document.Components.Schemas, "Extra")

	// Path override replaces the get operation but keeps post
	item := result.Document.Paths["/invoices"]
	assert.Equal(t, "listInvoices", item.Get.OperationID)
	require.NotNil(t, item.Post)
	assert.Equal(t, "postInvoices", item.Post.OperationID)
}

func TestOverrideDirMissingIsFatal(t *testing.T) {
	_, err := PatchWithOptions(
		WithParsed(parseOAS3(t, vendorDoc)),
		WithOverrideDir(filepath.Join(t.TempDir(), "absent")),
	)
	require.Error(t, err)
}

func TestOverrideDirEmptyDisables(t *testing.T) {
	result := patchDoc(t, vendorDoc)
	for _, patch := range result.Patches {
		assert.NotEqual(t, PassOverrides, patch.Pass)
	}
}

func TestUnrecognizedOverridePrefixWarns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mystery.yaml", "key: value\n")

	result := patchDoc(t, vendorDoc, WithOverrideDir(dir))
	require.True(t, result.Success)

	found := false
	for _, issue := range result.Issues {
		if issue.Severity == SeverityWarning {
			found = true
		}
	}
	assert.True(t, found)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
