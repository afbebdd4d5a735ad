package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specmend/specmend/parser"
)

func validateDoc(t *testing.T, doc string) *ValidationResult {
	t.Helper()
	p := parser.New()
	parsed, err := p.ParseBytes([]byte(doc))
	require.NoError(t, err)

	result, err := ValidateWithOptions(WithParsed(*parsed))
	require.NoError(t, err)
	return result
}

func TestValidDocument(t *testing.T) {
	result := validateDoc(t, `
openapi: "3.0.3"
info:
  title: Billing API
  version: "1.0.0"
paths:
  /invoices/{id}:
    get:
      operationId: getInvoice
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Invoice"
components:
  schemas:
    Invoice:
      type: object
`)
	assert.True(t, result.Valid)
	assert.Zero(t, result.ErrorCount)
}

func TestUnresolvedRefIsError(t *testing.T) {
	result := validateDoc(t, `
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
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Missing"
`)
	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[len(result.Errors)-1].Message, "does not resolve")
}

func TestExternalRefIsWarning(t *testing.T) {
	result := validateDoc(t, `
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
          content:
            application/json:
              schema:
                $ref: "other.yaml#/components/schemas/Remote"
`)
	assert.True(t, result.Valid)
	assert.NotZero(t, result.WarningCount)
}

func TestUnresolvedRefCheckedWithoutRawData(t *testing.T) {
	p := parser.New()
	parsed, err := p.ParseBytes([]byte(`
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
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/DoesNotExist"
`))
	require.NoError(t, err)

	// A transformed document carries no raw parse tree, the way the
	// patch pipeline hands its output to the validator.
	result, err := ValidateWithOptions(WithParsed(parser.ParseResult{
		Version:  parsed.Version,
		Document: parsed.Document,
	}))
	require.NoError(t, err)

	assert.False(t, result.Valid)
	found := false
	for _, e := range result.Errors {
		if e.Value == "#/components/schemas/DoesNotExist" {
			found = true
		}
	}
	assert.True(t, found, "expected an error naming the dangling reference")
}

func TestOperationWithoutResponses(t *testing.T) {
	result := validateDoc(t, `
openapi: "3.0.3"
info:
  title: x
  version: "1"
paths:
  /a:
    get:
      operationId: getA
      responses: {}
`)
	assert.False(t, result.Valid)
}

func TestUndeclaredPathParameter(t *testing.T) {
	result := validateDoc(t, `
openapi: "3.0.3"
info:
  title: x
  version: "1"
paths:
  /invoices/{id}:
    get:
      operationId: getInvoice
      responses:
        "200":
          description: ok
`)
	assert.False(t, result.Valid)

	found := false
	for _, e := range result.Errors {
		if e.Value == "id" {
			found = true
		}
	}
	assert.True(t, found, "expected an error naming the undeclared template variable")
}

func TestPathParameterDeclaredAtItemLevel(t *testing.T) {
	result := validateDoc(t, `
openapi: "3.0.3"
info:
  title: x
  version: "1"
paths:
  /invoices/{id}:
    parameters:
      - name: id
        in: path
        required: true
        schema:
          type: string
    get:
      operationId: getInvoice
      responses:
        "200":
          description: ok
`)
	assert.True(t, result.Valid)
}

func TestMissingOperationIDIsWarning(t *testing.T) {
	result := validateDoc(t, `
openapi: "3.0.3"
info:
  title: x
  version: "1"
paths:
  /a:
    get:
      responses:
        "200":
          description: ok
`)
	assert.True(t, result.Valid)
	assert.NotZero(t, result.WarningCount)
}

func TestWarningsSuppressed(t *testing.T) {
	p := parser.New()
	parsed, err := p.ParseBytes([]byte(`
openapi: "3.0.3"
info:
  title: x
  version: "1"
paths:
  /a:
    get:
      responses:
        "200":
          description: ok
`))
	require.NoError(t, err)

	result, err := ValidateWithOptions(
		WithParsed(*parsed),
		WithIncludeWarnings(false),
	)
	require.NoError(t, err)
	assert.Zero(t, result.WarningCount)
}

func TestValidateOptionValidation(t *testing.T) {
	_, err := ValidateWithOptions()
	require.Error(t, err)

	_, err = ValidateWithOptions(
		WithFilePath("a.yaml"),
		WithParsed(parser.ParseResult{}),
	)
	require.Error(t, err)
}
