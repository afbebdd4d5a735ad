package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specmend/specmend/parser"
)

const generatorOAS3 = `openapi: 3.0.3
info:
  title: Billing API
  version: 1.0.0
paths:
  /invoices:
    get:
      operationId: getInvoices
      tags: [Invoices]
      responses:
        "200":
          description: Invoice list
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Invoice'
        "400":
          description: Bad request
          content:
            application/json:
              schema:
                type: object
    post:
      operationId: postInvoices
      tags: [Invoices]
      requestBody:
        description: Invoice to create
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Invoice'
      responses:
        "201":
          description: Created invoice
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Invoice'
  /payment-runs:
    get:
      tags: [Payment Runs]
      responses:
        "200":
          description: No id here
          content:
            application/json:
              schema:
                type: object
  /ping:
    get:
      operationId: getPing
      responses:
        "204":
          description: No content
components:
  schemas:
    Invoice:
      type: object
      required: [id, amount]
      properties:
        id:
          type: string
          format: uuid
        amount:
          type: number
        notes:
          type: string
`

func parseGeneratorDoc(t *testing.T) parser.ParseResult {
	t.Helper()
	p := parser.New()
	result, err := p.ParseBytes([]byte(generatorOAS3))
	require.NoError(t, err)
	return *result
}

func TestGenerateWritesSuccessFixtures(t *testing.T) {
	dir := t.TempDir()
	parseResult := parseGeneratorDoc(t)

	g := NewGenerator(dir)
	result, err := g.GenerateParsed(parseResult)
	require.NoError(t, err)
	assert.True(t, result.Success)

	assert.ElementsMatch(t, []string{
		filepath.Join("invoices", "get-invoices", "response.200.json"),
		filepath.Join("invoices", "post-invoices", "response.201.json"),
	}, result.Generated)
	assert.Equal(t, 2, result.GeneratedCount)
	assert.Empty(t, result.Skipped)

	// Error responses never get fixtures
	_, err = os.Stat(filepath.Join(dir, "invoices", "get-invoices", "response.400.json"))
	assert.True(t, os.IsNotExist(err))

	f, err := Load(filepath.Join(dir, "invoices", "post-invoices", "response.201.json"))
	require.NoError(t, err)
	assert.Equal(t, 201, f.Meta.Status)
	assert.Equal(t, "Created invoice", f.Meta.Description)
	body, ok := f.Body.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, body, "id")
	assert.Contains(t, body, "amount")
	// Optional properties are left out of the skeleton
	assert.NotContains(t, body, "notes")
}

func TestGenerateSecondRunSkips(t *testing.T) {
	dir := t.TempDir()
	parseResult := parseGeneratorDoc(t)

	g := NewGenerator(dir)
	first, err := g.GenerateParsed(parseResult)
	require.NoError(t, err)
	require.Equal(t, 2, first.GeneratedCount)

	// Hand-edit one fixture between runs
	edited := filepath.Join(dir, "invoices", "get-invoices", "response.200.json")
	require.NoError(t, os.WriteFile(edited, []byte(`{"_meta":{"status":200},"body":[]}`), 0o644))

	second, err := g.GenerateParsed(parseResult)
	require.NoError(t, err)
	assert.True(t, second.Success)
	assert.Equal(t, 0, second.GeneratedCount)
	assert.Equal(t, 2, second.SkippedCount)

	data, err := os.ReadFile(edited)
	require.NoError(t, err)
	assert.JSONEq(t, `{"_meta":{"status":200},"body":[]}`, string(data))
}

func TestGenerateWithRequests(t *testing.T) {
	dir := t.TempDir()
	parseResult := parseGeneratorDoc(t)

	g := NewGenerator(dir)
	g.WithRequests = true
	result, err := g.GenerateParsed(parseResult)
	require.NoError(t, err)
	assert.Contains(t, result.Generated, filepath.Join("invoices", "post-invoices", RequestFileName))

	f, err := Load(filepath.Join(dir, "invoices", "post-invoices", RequestFileName))
	require.NoError(t, err)
	assert.Equal(t, 0, f.Meta.Status)
	assert.Equal(t, "Invoice to create", f.Meta.Description)

	// request.json serializes without status or headers
	data, err := os.ReadFile(filepath.Join(dir, "invoices", "post-invoices", RequestFileName))
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"status"`)
	assert.NotContains(t, string(data), `"headers"`)
}

func TestGenerateUsesDeclaredExamples(t *testing.T) {
	const doc = `openapi: 3.0.3
info:
  title: Billing API
  version: 1.0.0
paths:
  /invoices:
    get:
      operationId: getInvoices
      tags: [Invoices]
      responses:
        "200":
          description: Invoice list
          content:
            application/json:
              schema:
                type: array
              examples:
                emptyPage:
                  description: No invoices yet
                  value: []
                fullPage:
                  value:
                    - id: INV-1
  /credit-memos:
    get:
      operationId: getCreditMemos
      tags: [Invoices]
      responses:
        "200":
          description: Memo list
          content:
            application/json:
              schema:
                type: array
              example:
                - id: CM-1
`
	p := parser.New()
	parsed, err := p.ParseBytes([]byte(doc))
	require.NoError(t, err)

	dir := t.TempDir()
	g := NewGenerator(dir)
	result, err := g.GenerateParsed(*parsed)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join("invoices", "get-invoices", "response.200.empty-page.json"),
		filepath.Join("invoices", "get-invoices", "response.200.full-page.json"),
		filepath.Join("invoices", "get-credit-memos", "response.200.json"),
	}, result.Generated)

	empty, err := Load(filepath.Join(dir, "invoices", "get-invoices", "response.200.empty-page.json"))
	require.NoError(t, err)
	assert.Equal(t, "No invoices yet", empty.Meta.Description)
	assert.Equal(t, []any{}, empty.Body)

	memos, err := Load(filepath.Join(dir, "invoices", "get-credit-memos", "response.200.json"))
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"id": "CM-1"}}, memos.Body)
}

func TestGenerateWarnsOnMissingOperationID(t *testing.T) {
	dir := t.TempDir()
	parseResult := parseGeneratorDoc(t)

	g := NewGenerator(dir)
	result, err := g.GenerateParsed(parseResult)
	require.NoError(t, err)

	var warned bool
	for _, issue := range result.Issues {
		if issue.Severity == SeverityWarning && issue.Path == "paths./payment-runs.get" {
			warned = true
		}
	}
	assert.True(t, warned)
	assert.True(t, result.Success)
}

func TestGenerateRejectsOAS2(t *testing.T) {
	p := parser.New()
	p.ValidateStructure = false
	result, err := p.ParseBytes([]byte("swagger: \"2.0\"\ninfo:\n  title: T\n  version: \"1\"\npaths: {}\n"))
	require.NoError(t, err)

	g := NewGenerator(t.TempDir())
	_, err = g.GenerateParsed(*result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "convert it first")
}

func TestGenerateRequiresFixtureDir(t *testing.T) {
	g := &Generator{}
	_, err := g.GenerateParsed(parseGeneratorDoc(t))
	require.Error(t, err)
}

func TestSampleValue(t *testing.T) {
	doc := &parser.OAS3Document{}

	t.Run("formats", func(t *testing.T) {
		assert.Equal(t, "2024-01-15", SampleValue(doc, &parser.Schema{Type: "string", Format: "date"}))
		assert.Equal(t, "user@example.com", SampleValue(doc, &parser.Schema{Type: "string", Format: "email"}))
		assert.Equal(t, "string", SampleValue(doc, &parser.Schema{Type: "string"}))
		assert.Equal(t, 0, SampleValue(doc, &parser.Schema{Type: "integer"}))
		assert.Equal(t, 0.0, SampleValue(doc, &parser.Schema{Type: "number"}))
		assert.Equal(t, false, SampleValue(doc, &parser.Schema{Type: "boolean"}))
	})

	t.Run("example wins over synthesis", func(t *testing.T) {
		assert.Equal(t, "INV-42", SampleValue(doc, &parser.Schema{Type: "string", Example: "INV-42"}))
	})

	t.Run("enum contributes first value", func(t *testing.T) {
		assert.Equal(t, "asc", SampleValue(doc, &parser.Schema{Type: "string", Enum: []any{"asc", "desc"}}))
	})

	t.Run("array wraps one item", func(t *testing.T) {
		got := SampleValue(doc, &parser.Schema{Type: "array", Items: &parser.Schema{Type: "integer"}})
		assert.Equal(t, []any{0}, got)
	})

	t.Run("allOf merges object branches", func(t *testing.T) {
		got := SampleValue(doc, &parser.Schema{AllOf: []*parser.Schema{
			{Type: "object", Required: []string{"a"}, Properties: map[string]*parser.Schema{"a": {Type: "string"}}},
			{Type: "object", Required: []string{"b"}, Properties: map[string]*parser.Schema{"b": {Type: "integer"}}},
		}})
		assert.Equal(t, map[string]any{"a": "string", "b": 0}, got)
	})

	t.Run("cyclic schema terminates", func(t *testing.T) {
		cyclic := &parser.Schema{Type: "object", Required: []string{"next"}}
		cyclic.Properties = map[string]*parser.Schema{"next": cyclic}
		assert.NotPanics(t, func() { SampleValue(doc, cyclic) })
	})
}
