// Package summary renders compact operation summaries of a patched
// document, one machine-readable and one for humans.
package summary

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/specmend/specmend/parser"
)

// OperationSummary is one row of the operation table.
type OperationSummary struct {
	// OperationID identifies the operation
	OperationID string `json:"operationId"`
	// Method is the lowercase HTTP method
	Method string `json:"method"`
	// Path is the path pattern
	Path string `json:"path"`
	// Tag is the operation's primary tag
	Tag string `json:"tag,omitempty"`
	// Summary is the operation's one-line description
	Summary string `json:"summary,omitempty"`
	// ResponseCodes lists the declared status codes in lexical order,
	// with "default" last when present
	ResponseCodes []string `json:"responseCodes,omitempty"`
}

// Build produces one summary per operation in sorted (path, method)
// order.
func Build(doc *parser.OAS3Document) []OperationSummary {
	var summaries []OperationSummary
	doc.EachOperation(func(path, method string, op *parser.Operation) {
		row := OperationSummary{
			OperationID:   op.OperationID,
			Method:        method,
			Path:          path,
			Tag:           op.PrimaryTag(),
			Summary:       op.Summary,
			ResponseCodes: op.Responses.SortedCodes(),
		}
		if op.Responses != nil && op.Responses.Default != nil {
			row.ResponseCodes = append(row.ResponseCodes, "default")
		}
		summaries = append(summaries, row)
	})
	return summaries
}

// WriteJSON emits the machine-readable summary as indented JSON.
func WriteJSON(w io.Writer, summaries []OperationSummary) error {
	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return fmt.Errorf("summary: failed to encode: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteMarkdown emits the human-readable summary as a markdown table.
func WriteMarkdown(w io.Writer, title string, summaries []OperationSummary) error {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "# %s\n\n", title)
	}
	fmt.Fprintf(&b, "%d operations\n\n", len(summaries))
	b.WriteString("| Operation | Method | Path | Tag | Responses |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, row := range summaries {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			escapeCell(row.OperationID),
			strings.ToUpper(row.Method),
			escapeCell(row.Path),
			escapeCell(row.Tag),
			strings.Join(row.ResponseCodes, ", "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// escapeCell keeps pipes in values from breaking the table layout.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
