package parser

import "strings"

// Local pointer prefixes for the sections the toolchain dereferences.
const (
	RefPrefixSchemas    = "#/components/schemas/"
	RefPrefixParameters = "#/components/parameters/"
	RefPrefixResponses  = "#/components/responses/"
	RefPrefixDefinitions = "#/definitions/" // OAS 2.0
)

// SchemaRef builds a local pointer to a named component schema.
func SchemaRef(name string) string {
	return RefPrefixSchemas + name
}

// ResolveLocal resolves a local pointer of the form #/path/to/node by
// successive key lookup in the raw document tree. It returns the found
// node and true, or nil and false if any segment is absent. Absence is a
// signal for the caller to report; the resolver never errors.
func ResolveLocal(doc map[string]any, ref string) (any, bool) {
	ref = strings.TrimPrefix(ref, "#")
	if ref == "" || ref == "/" {
		return doc, true
	}

	parts := strings.Split(strings.TrimPrefix(ref, "/"), "/")

	current := any(doc)
	for _, part := range parts {
		part = unescapeJSONPointer(part)
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		next, ok := node[part]
		if !ok {
			return nil, false
		}
		current = next
	}

	return current, true
}

// IsLocalRef reports whether a pointer string targets the same document.
func IsLocalRef(ref string) bool {
	return strings.HasPrefix(ref, "#/")
}

// unescapeJSONPointer unescapes JSON Pointer tokens.
// Per RFC 6901, ~1 represents / and ~0 represents ~
func unescapeJSONPointer(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}

// ResolveSchema resolves a local schema pointer against the document's
// named-schema table. Returns the schema and true, or nil and false when
// the pointer targets another section or the name is absent.
func (d *OAS3Document) ResolveSchema(ref string) (*Schema, bool) {
	name, ok := strings.CutPrefix(ref, RefPrefixSchemas)
	if !ok || d.Components == nil {
		return nil, false
	}
	schema, ok := d.Components.Schemas[name]
	return schema, ok && schema != nil
}

// ResolveParameter resolves a local parameter pointer against the
// document's named-parameter table.
func (d *OAS3Document) ResolveParameter(ref string) (*Parameter, bool) {
	name, ok := strings.CutPrefix(ref, RefPrefixParameters)
	if !ok || d.Components == nil {
		return nil, false
	}
	param, ok := d.Components.Parameters[name]
	return param, ok && param != nil
}

// ResolveResponse resolves a local response pointer against the
// document's named-response table.
func (d *OAS3Document) ResolveResponse(ref string) (*Response, bool) {
	name, ok := strings.CutPrefix(ref, RefPrefixResponses)
	if !ok || d.Components == nil {
		return nil, false
	}
	resp, ok := d.Components.Responses[name]
	return resp, ok && resp != nil
}
