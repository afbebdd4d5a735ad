package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specmend/specmend/parser"
)

func parseOAS2(t *testing.T, doc string) parser.ParseResult {
	t.Helper()
	p := parser.New()
	result, err := p.ParseBytes([]byte(doc))
	require.NoError(t, err)
	require.True(t, result.IsOAS2())
	return *result
}

const billingOAS2 = `
swagger: "2.0"
info:
  title: Billing API
  version: "1.0.0"
host: api.example.com
basePath: /v2
schemes: [https, http]
produces: [application/json]
paths:
  /invoices:
    get:
      operationId: getInvoices
      parameters:
        - name: status
          in: query
          type: string
      responses:
        "200":
          description: A page of invoices
          schema:
            $ref: "#/definitions/InvoicePage"
    post:
      operationId: postInvoices
      parameters:
        - name: body
          in: body
          required: true
          schema:
            $ref: "#/definitions/Invoice"
      responses:
        "201":
          description: Created
          schema:
            $ref: "#/definitions/Invoice"
definitions:
  InvoicePage:
    type: object
    properties:
      items:
        type: array
        items:
          $ref: "#/definitions/Invoice"
  Invoice:
    type: object
    required: [id]
    properties:
      id:
        type: string
securityDefinitions:
  basicAuth:
    type: basic
  keyAuth:
    type: apiKey
    name: X-Api-Key
    in: header
  oauth:
    type: oauth2
    flow: accessCode
    authorizationUrl: https://auth.example.com/authorize
    tokenUrl: https://auth.example.com/token
    scopes:
      read: read access
`

func TestConvertServers(t *testing.T) {
	result, err := ConvertWithOptions(WithParsed(parseOAS2(t, billingOAS2)))
	require.NoError(t, err)
	require.True(t, result.Success)

	doc := result.Document
	require.Len(t, doc.Servers, 2)
	assert.Equal(t, "https://api.example.com/v2", doc.Servers[0].URL)
	assert.Equal(t, "http://api.example.com/v2", doc.Servers[1].URL)
}

func TestConvertDefinitionsBecomeComponents(t *testing.T) {
	result, err := ConvertWithOptions(WithParsed(parseOAS2(t, billingOAS2)))
	require.NoError(t, err)

	doc := result.Document
	require.NotNil(t, doc.Components)
	assert.Len(t, doc.Components.Schemas, 2)
	assert.Contains(t, doc.Components.Schemas, "Invoice")
	assert.Contains(t, doc.Components.Schemas, "InvoicePage")
}

// Every rewritten pointer must resolve against the converted document.
func TestConvertedRefsResolve(t *testing.T) {
	result, err := ConvertWithOptions(WithParsed(parseOAS2(t, billingOAS2)))
	require.NoError(t, err)
	doc := result.Document

	page, ok := doc.ResolveSchema(parser.SchemaRef("InvoicePage"))
	require.True(t, ok)
	itemRef := page.Properties["items"].Items.Ref
	assert.Equal(t, "#/components/schemas/Invoice", itemRef)
	_, ok = doc.ResolveSchema(itemRef)
	assert.True(t, ok)

	resp := doc.Paths["/invoices"].Get.Responses.Get("200")
	require.NotNil(t, resp)
	media := resp.JSONContent()
	require.NotNil(t, media)
	_, ok = doc.ResolveSchema(media.Schema.Ref)
	assert.True(t, ok)
}

func TestConvertBodyParameterBecomesRequestBody(t *testing.T) {
	result, err := ConvertWithOptions(WithParsed(parseOAS2(t, billingOAS2)))
	require.NoError(t, err)

	post := result.Document.Paths["/invoices"].Post
	require.NotNil(t, post.RequestBody)
	assert.True(t, post.RequestBody.Required)
	assert.Empty(t, post.Parameters)

	media := post.RequestBody.JSONContent()
	require.NotNil(t, media)
	assert.Equal(t, "#/components/schemas/Invoice", media.Schema.Ref)
}

func TestConvertQueryParameterWrapsType(t *testing.T) {
	result, err := ConvertWithOptions(WithParsed(parseOAS2(t, billingOAS2)))
	require.NoError(t, err)

	params := result.Document.Paths["/invoices"].Get.Parameters
	require.Len(t, params, 1)
	require.NotNil(t, params[0].Schema)
	assert.True(t, params[0].Schema.HasType("string"))
}

func TestConvertSecurityDefinitions(t *testing.T) {
	result, err := ConvertWithOptions(WithParsed(parseOAS2(t, billingOAS2)))
	require.NoError(t, err)

	schemes := result.Document.Components.SecuritySchemes
	require.Len(t, schemes, 3)

	basic := schemes["basicAuth"]
	assert.Equal(t, "http", basic.Type)
	assert.Equal(t, "basic", basic.Scheme)

	key := schemes["keyAuth"]
	assert.Equal(t, "apiKey", key.Type)
	assert.Equal(t, "X-Api-Key", key.Name)
	assert.Equal(t, "header", key.In)

	oauth := schemes["oauth"]
	assert.Equal(t, "oauth2", oauth.Type)
	require.Contains(t, oauth.Flows, "authorizationCode")
	flow, ok := oauth.Flows["authorizationCode"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "https://auth.example.com/token", flow["tokenUrl"])
}

func TestConvertRejectsOAS3Input(t *testing.T) {
	p := parser.New()
	parsed, err := p.ParseBytes([]byte(`
openapi: "3.0.3"
info:
  title: x
  version: "1"
paths: {}
`))
	require.NoError(t, err)

	_, err = ConvertWithOptions(WithParsed(*parsed))
	require.Error(t, err)
}

func TestConvertOptionValidation(t *testing.T) {
	_, err := ConvertWithOptions()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input source")

	_, err = ConvertWithOptions(
		WithFilePath("a.yaml"),
		WithParsed(parser.ParseResult{}),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple input sources")

	_, err = ConvertWithOptions(WithFilePath(""))
	require.Error(t, err)
}
