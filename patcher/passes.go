package patcher

import (
	"fmt"
	"sort"
	"strings"

	"github.com/specmend/specmend/internal/httputil"
	"github.com/specmend/specmend/internal/naming"
	"github.com/specmend/specmend/parser"
)

// strippedHeaderNames is the denylist of header parameters removed from
// every operation. The generated SDK supplies these itself; they are not
// part of the consumer-facing surface.
var strippedHeaderNames = map[string]bool{
	"authorization": true,
	"content-type":  true,
	"accept":        true,
	"x-request-id":  true,
	"x-api-key":     true,
}

// stripHeaders removes denylisted header parameters from path items and
// operations.
func (p *Patcher) stripHeaders(doc *parser.OAS3Document, result *PatchResult) {
	doc.EachOperation(func(path, method string, op *parser.Operation) {
		opPath := fmt.Sprintf("paths.%s.%s.parameters", path, method)
		op.Parameters = filterHeaders(op.Parameters, doc, opPath, result)
	})
	for _, pattern := range parser.SortedPaths(doc.Paths) {
		pathItem := doc.Paths[pattern]
		if pathItem == nil {
			continue
		}
		itemPath := fmt.Sprintf("paths.%s.parameters", pattern)
		pathItem.Parameters = filterHeaders(pathItem.Parameters, doc, itemPath, result)
	}
}

// filterHeaders returns params with denylisted headers removed
func filterHeaders(params []*parser.Parameter, doc *parser.OAS3Document, path string, result *PatchResult) []*parser.Parameter {
	if len(params) == 0 {
		return params
	}
	kept := params[:0]
	for _, param := range params {
		resolved := param
		if param != nil && param.Ref != "" {
			if target, ok := doc.ResolveParameter(param.Ref); ok {
				resolved = target
			}
		}
		if resolved != nil && resolved.In == parser.ParamInHeader && strippedHeaderNames[strings.ToLower(resolved.Name)] {
			addPatch(result, PassStripHeaders, path, fmt.Sprintf("removed transport header parameter %q", resolved.Name))
			continue
		}
		kept = append(kept, param)
	}
	return kept
}

// normalizeResponseCodes rewrites composite status-code keys (e.g.,
// "200/202") to their first component and wildcard patterns (e.g., "4XX")
// to the catch-all default, only when the canonical key is unoccupied. A
// composite whose head is itself a wildcard or "default" resolves to the
// catch-all directly. Keys are visited in sorted order so the "first
// normalization wins" rule is deterministic. Re-running the pass on
// normalized input is a no-op.
func (p *Patcher) normalizeResponseCodes(doc *parser.OAS3Document, result *PatchResult) {
	doc.EachOperation(func(path, method string, op *parser.Operation) {
		if op.Responses == nil || len(op.Responses.Codes) == 0 {
			return
		}
		opPath := fmt.Sprintf("paths.%s.%s.responses", path, method)

		keys := make([]string, 0, len(op.Responses.Codes))
		for key := range op.Responses.Codes {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			resp := op.Responses.Codes[key]
			switch {
			case strings.Contains(key, "/"):
				canonical := strings.SplitN(key, "/", 2)[0]
				if !httputil.ValidateStatusCode(canonical) {
					continue
				}
				delete(op.Responses.Codes, key)
				// A wildcard or default head resolves straight to the
				// catch-all so one run reaches the fixpoint.
				if canonical == "default" || isWildcardCode(canonical) {
					if op.Responses.Default != nil {
						addPatch(result, PassNormalizeResponseCodes, opPath,
							fmt.Sprintf("dropped composite response key %q (default already present)", key))
						continue
					}
					op.Responses.Default = resp
					addPatch(result, PassNormalizeResponseCodes, opPath,
						fmt.Sprintf("normalized composite response key %q to default", key))
					continue
				}
				if _, occupied := op.Responses.Codes[canonical]; occupied {
					addPatch(result, PassNormalizeResponseCodes, opPath,
						fmt.Sprintf("dropped composite response key %q (canonical %q already present)", key, canonical))
					continue
				}
				op.Responses.Codes[canonical] = resp
				addPatch(result, PassNormalizeResponseCodes, opPath,
					fmt.Sprintf("normalized composite response key %q to %q", key, canonical))

			case isWildcardCode(key):
				delete(op.Responses.Codes, key)
				if op.Responses.Default != nil {
					addPatch(result, PassNormalizeResponseCodes, opPath,
						fmt.Sprintf("dropped wildcard response key %q (default already present)", key))
					continue
				}
				op.Responses.Default = resp
				addPatch(result, PassNormalizeResponseCodes, opPath,
					fmt.Sprintf("normalized wildcard response key %q to default", key))
			}
		}
	})
}

// isWildcardCode reports whether a responses key is a wildcard pattern
// like "2XX" or "4XX".
func isWildcardCode(key string) bool {
	return len(key) == 3 && key[1] == 'X' && key[2] == 'X' && key[0] >= '1' && key[0] <= '5'
}

// backfillOperationIDs synthesizes a deterministic identifier for every
// operation that lacks one: the HTTP method followed by the PascalCased
// non-parameter path segments. Afterward every operation is addressable.
func (p *Patcher) backfillOperationIDs(doc *parser.OAS3Document, result *PatchResult) {
	doc.EachOperation(func(path, method string, op *parser.Operation) {
		if op.OperationID != "" {
			return
		}
		op.OperationID = SynthesizeOperationID(method, path)
		addPatch(result, PassBackfillOperationIDs,
			fmt.Sprintf("paths.%s.%s", path, method),
			fmt.Sprintf("backfilled operationId %q", op.OperationID))
	})
}

// SynthesizeOperationID builds an operation identifier from the HTTP
// method and the path's non-parameter segments.
// Example: ("get", "/payment-runs/{id}/items") -> "getPaymentRunsItems".
func SynthesizeOperationID(method, path string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))
	for _, segment := range strings.Split(path, "/") {
		if segment == "" || strings.HasPrefix(segment, "{") {
			continue
		}
		b.WriteString(naming.ToPascalCase(segment))
	}
	return b.String()
}

// requiredBodyOperationIDs is the allow-list of operations known to
// require a request body despite the vendor document marking it optional.
var requiredBodyOperationIDs = map[string]bool{
	"postInvoices":     true,
	"postPaymentRuns":  true,
	"putInvoicesBatch": true,
	"postCreditMemos":  true,
}

// requireBodies forces requestBody.required on the allow-listed operations.
func (p *Patcher) requireBodies(doc *parser.OAS3Document, result *PatchResult) {
	doc.EachOperation(func(path, method string, op *parser.Operation) {
		if !requiredBodyOperationIDs[op.OperationID] {
			return
		}
		if op.RequestBody == nil || op.RequestBody.Required {
			return
		}
		op.RequestBody.Required = true
		addPatch(result, PassRequireBody,
			fmt.Sprintf("paths.%s.%s.requestBody", path, method),
			fmt.Sprintf("marked request body required for %q", op.OperationID))
	})
}

// arrayItemTypes maps property names to the item type inferred for
// array-typed schema nodes that arrive without an items descriptor.
// This is a fixed heuristic lookup, not general inference.
var arrayItemTypes = map[string]string{
	"tags":           "string",
	"fields":         "string",
	"invoiceNumbers": "string",
	"accountIds":     "string",
	"amounts":        "number",
	"statusCodes":    "integer",
}

// fixArrayItemTypes fills in missing items descriptors on array-typed
// properties using the name-keyed lookup table.
func (p *Patcher) fixArrayItemTypes(doc *parser.OAS3Document, result *PatchResult) {
	eachNamedSchema(doc, func(name string, schema *parser.Schema) {
		walkSchema(schema, "components.schemas."+name, func(propName string, node *parser.Schema, nodePath string) {
			if !node.HasType("array") || node.Items != nil {
				return
			}
			itemType, ok := arrayItemTypes[propName]
			if !ok {
				return
			}
			node.Items = &parser.Schema{Type: itemType}
			addPatch(result, PassArrayItemTypes, nodePath,
				fmt.Sprintf("typed array items of %q as %s", propName, itemType))
		})
	})
}

// xSortableKey is the vendor-specific union marker attached to sortBy
// properties.
const xSortableKey = "x-sortable"

// rewriteSortable strips the vendor x-sortable marker from sortBy
// properties and replaces the node's structural content with a pointer to
// the injected sort-union schema.
func (p *Patcher) rewriteSortable(doc *parser.OAS3Document, result *PatchResult) {
	eachNamedSchema(doc, func(name string, schema *parser.Schema) {
		walkSchema(schema, "components.schemas."+name, func(propName string, node *parser.Schema, nodePath string) {
			if propName != "sortBy" {
				return
			}
			if _, marked := node.Extra[xSortableKey]; !marked {
				return
			}
			description := node.Description
			*node = parser.Schema{
				Ref:         parser.SchemaRef(SchemaSort),
				Description: description,
			}
			addPatch(result, PassSortableRewrite, nodePath,
				fmt.Sprintf("replaced x-sortable marker with reference to %s", SchemaSort))
		})
	})
}

// constrainLineErrors constrains open-ended lineErrors objects to a
// mapping of string to list-of-string.
func (p *Patcher) constrainLineErrors(doc *parser.OAS3Document, result *PatchResult) {
	eachNamedSchema(doc, func(name string, schema *parser.Schema) {
		walkSchema(schema, "components.schemas."+name, func(propName string, node *parser.Schema, nodePath string) {
			if propName != "lineErrors" || !node.HasType("object") {
				return
			}
			if _, hasSchema := node.AdditionalProperties.(*parser.Schema); hasSchema {
				return
			}
			node.AdditionalProperties = &parser.Schema{
				Type:  "array",
				Items: &parser.Schema{Type: "string"},
			}
			addPatch(result, PassLineErrorsMap, nodePath,
				"constrained lineErrors values to list-of-string")
		})
	})
}

// eachNamedSchema visits the document's named schemas in sorted order.
func eachNamedSchema(doc *parser.OAS3Document, fn func(name string, schema *parser.Schema)) {
	if doc.Components == nil || doc.Components.Schemas == nil {
		return
	}
	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if schema := doc.Components.Schemas[name]; schema != nil {
			fn(name, schema)
		}
	}
}

// walkSchema visits every property node in a schema subtree, calling fn
// with the property name, the node, and its dotted path. The root is
// visited with an empty property name.
func walkSchema(schema *parser.Schema, path string, fn func(propName string, node *parser.Schema, nodePath string)) {
	walkSchemaNamed(schema, "", path, fn, 0)
}

// schemaWalkDepthLimit bounds recursion; vendor schemas are shallow and a
// deeper chain indicates a pointer loop expanded inline.
const schemaWalkDepthLimit = 100

func walkSchemaNamed(schema *parser.Schema, propName, path string, fn func(string, *parser.Schema, string), depth int) {
	if schema == nil || depth > schemaWalkDepthLimit {
		return
	}
	fn(propName, schema, path)
	if schema.Ref != "" {
		return
	}
	walkSchemaNamed(schema.Items, propName, path+".items", fn, depth+1)
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		walkSchemaNamed(schema.Properties[name], name, path+".properties."+name, fn, depth+1)
	}
	if ap, ok := schema.AdditionalProperties.(*parser.Schema); ok {
		walkSchemaNamed(ap, propName, path+".additionalProperties", fn, depth+1)
	}
	for i, sub := range schema.AllOf {
		walkSchemaNamed(sub, propName, fmt.Sprintf("%s.allOf[%d]", path, i), fn, depth+1)
	}
	for i, sub := range schema.AnyOf {
		walkSchemaNamed(sub, propName, fmt.Sprintf("%s.anyOf[%d]", path, i), fn, depth+1)
	}
	for i, sub := range schema.OneOf {
		walkSchemaNamed(sub, propName, fmt.Sprintf("%s.oneOf[%d]", path, i), fn, depth+1)
	}
}
