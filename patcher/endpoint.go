package patcher

import (
	"fmt"
	"sort"

	"github.com/specmend/specmend/parser"
)

// endpointPatch is a hand-written correction for a single operation,
// applied after the mechanical passes so it sees their output.
type endpointPatch struct {
	description string
	apply       func(op *parser.Operation) bool
}

// endpointPatches is keyed by operationId. Each entry names the concrete
// vendor defect it corrects; the apply func reports whether it changed
// anything so re-runs stay silent.
var endpointPatches = map[string]endpointPatch{
	"getInvoices": {
		description: "pageSize query parameter is documented without a type",
		apply: func(op *parser.Operation) bool {
			changed := false
			for _, param := range op.Parameters {
				if param == nil || param.Name != "pageSize" || param.In != parser.ParamInQuery {
					continue
				}
				if param.Schema == nil {
					param.Schema = &parser.Schema{Type: "integer"}
					changed = true
				}
			}
			return changed
		},
	},
	"postPaymentRuns": {
		description: "202 response lacks a description",
		apply: func(op *parser.Operation) bool {
			if op.Responses == nil {
				return false
			}
			resp := op.Responses.Get("202")
			if resp == nil || resp.Description != "" {
				return false
			}
			resp.Description = "Payment run accepted for asynchronous processing."
			return true
		},
	},
	"deleteInvoicesId": {
		description: "success response declares a body it never returns",
		apply: func(op *parser.Operation) bool {
			if op.Responses == nil {
				return false
			}
			resp := op.Responses.Get("204")
			if resp == nil || resp.Content == nil {
				return false
			}
			resp.Content = nil
			return true
		},
	},
}

// PatchedOperationIDs returns the operationIds with a registered
// hand-written correction, sorted.
func PatchedOperationIDs() []string {
	ids := make([]string, 0, len(endpointPatches))
	for id := range endpointPatches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// applyEndpointPatches runs the registered per-operation corrections.
// Registered ids with no matching operation are reported as warnings so
// a vendor rename does not silently disable a correction.
func (p *Patcher) applyEndpointPatches(doc *parser.OAS3Document, result *PatchResult) {
	seen := make(map[string]bool, len(endpointPatches))

	doc.EachOperation(func(path, method string, op *parser.Operation) {
		patch, ok := endpointPatches[op.OperationID]
		if !ok {
			return
		}
		seen[op.OperationID] = true
		if patch.apply(op) {
			addPatch(result, PassEndpointPatches,
				fmt.Sprintf("paths.%s.%s", path, method),
				fmt.Sprintf("%s: %s", op.OperationID, patch.description))
		}
	})

	for _, id := range PatchedOperationIDs() {
		if !seen[id] {
			addIssue(result, "paths",
				fmt.Sprintf("registered endpoint patch %q matched no operation", id), SeverityWarning)
		}
	}
}
