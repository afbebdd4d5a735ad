package parser

import (
	"sort"

	"github.com/specmend/specmend/internal/httputil"
)

// GetOperations extracts a map of all operations from a PathItem.
// Returns a map with keys for HTTP methods and values pointing to the
// corresponding Operation (or nil if not defined).
func GetOperations(pathItem *PathItem) map[string]*Operation {
	return map[string]*Operation{
		httputil.MethodGet:     pathItem.Get,
		httputil.MethodPut:     pathItem.Put,
		httputil.MethodPost:    pathItem.Post,
		httputil.MethodDelete:  pathItem.Delete,
		httputil.MethodOptions: pathItem.Options,
		httputil.MethodHead:    pathItem.Head,
		httputil.MethodPatch:   pathItem.Patch,
	}
}

// SetOperation assigns the operation for the given HTTP method. Unknown
// methods are ignored.
func (p *PathItem) SetOperation(method string, op *Operation) {
	switch method {
	case httputil.MethodGet:
		p.Get = op
	case httputil.MethodPut:
		p.Put = op
	case httputil.MethodPost:
		p.Post = op
	case httputil.MethodDelete:
		p.Delete = op
	case httputil.MethodOptions:
		p.Options = op
	case httputil.MethodHead:
		p.Head = op
	case httputil.MethodPatch:
		p.Patch = op
	}
}

// SortedPaths returns the path patterns of a Paths map in lexical order
// for deterministic pass iteration.
func SortedPaths(paths Paths) []string {
	patterns := make([]string, 0, len(paths))
	for pattern := range paths {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)
	return patterns
}

// EachOperation invokes fn for every non-nil operation in the document,
// in sorted (path, method) order for deterministic traversal.
func (d *OAS3Document) EachOperation(fn func(path, method string, op *Operation)) {
	for _, pattern := range SortedPaths(d.Paths) {
		pathItem := d.Paths[pattern]
		if pathItem == nil {
			continue
		}
		operations := GetOperations(pathItem)
		methods := make([]string, 0, len(operations))
		for method := range operations {
			methods = append(methods, method)
		}
		sort.Strings(methods)
		for _, method := range methods {
			if op := operations[method]; op != nil {
				fn(pattern, method, op)
			}
		}
	}
}
