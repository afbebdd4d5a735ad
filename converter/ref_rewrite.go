package converter

import (
	"strings"

	"github.com/specmend/specmend/parser"
)

// Swagger 2.0 pointer prefixes and their OAS 3.0 replacements
var refRewrites = [...][2]string{
	{"#/definitions/", parser.RefPrefixSchemas},
	{"#/parameters/", parser.RefPrefixParameters},
	{"#/responses/", parser.RefPrefixResponses},
}

// rewriteRefs rewrites every local $ref in the document from Swagger 2.0
// section paths to OAS 3.0 component paths. A pointer produced from a
// #/definitions entry always resolves afterward if the definition existed
// in the source map.
func rewriteRefs(doc *parser.OAS3Document) {
	if doc.Components != nil {
		for _, schema := range doc.Components.Schemas {
			rewriteSchemaRefs(schema)
		}
		for _, param := range doc.Components.Parameters {
			rewriteParameterRefs(param)
		}
		for _, resp := range doc.Components.Responses {
			rewriteResponseRefs(resp)
		}
	}

	for _, pathItem := range doc.Paths {
		if pathItem == nil {
			continue
		}
		for _, param := range pathItem.Parameters {
			rewriteParameterRefs(param)
		}
		for _, op := range parser.GetOperations(pathItem) {
			if op == nil {
				continue
			}
			for _, param := range op.Parameters {
				rewriteParameterRefs(param)
			}
			if op.RequestBody != nil {
				for _, mt := range op.RequestBody.Content {
					rewriteSchemaRefs(mt.Schema)
				}
			}
			if op.Responses != nil {
				for _, resp := range op.Responses.Codes {
					rewriteResponseRefs(resp)
				}
				rewriteResponseRefs(op.Responses.Default)
			}
		}
	}
}

// rewriteRef maps a single OAS 2.0 pointer to its OAS 3.0 equivalent
func rewriteRef(ref string) string {
	for _, rw := range refRewrites {
		if strings.HasPrefix(ref, rw[0]) {
			return rw[1] + strings.TrimPrefix(ref, rw[0])
		}
	}
	return ref
}

// rewriteSchemaRefs rewrites pointers in a schema subtree
func rewriteSchemaRefs(schema *parser.Schema) {
	if schema == nil {
		return
	}
	if schema.Ref != "" {
		schema.Ref = rewriteRef(schema.Ref)
		return
	}
	rewriteSchemaRefs(schema.Items)
	for _, prop := range schema.Properties {
		rewriteSchemaRefs(prop)
	}
	if ap, ok := schema.AdditionalProperties.(*parser.Schema); ok {
		rewriteSchemaRefs(ap)
	}
	for _, sub := range schema.AllOf {
		rewriteSchemaRefs(sub)
	}
	for _, sub := range schema.AnyOf {
		rewriteSchemaRefs(sub)
	}
	for _, sub := range schema.OneOf {
		rewriteSchemaRefs(sub)
	}
}

// rewriteParameterRefs rewrites pointers in a parameter
func rewriteParameterRefs(param *parser.Parameter) {
	if param == nil {
		return
	}
	if param.Ref != "" {
		param.Ref = rewriteRef(param.Ref)
		return
	}
	rewriteSchemaRefs(param.Schema)
}

// rewriteResponseRefs rewrites pointers in a response
func rewriteResponseRefs(resp *parser.Response) {
	if resp == nil {
		return
	}
	if resp.Ref != "" {
		resp.Ref = rewriteRef(resp.Ref)
		return
	}
	for _, mt := range resp.Content {
		rewriteSchemaRefs(mt.Schema)
	}
	rewriteSchemaRefs(resp.Schema)
}
