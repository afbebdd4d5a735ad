// Package issues provides a unified issue type for validation, patching,
// and fixture health problems.
package issues

import (
	"fmt"

	"github.com/specmend/specmend/internal/severity"
)

// Issue represents a single problem found during validation or patching.
type Issue struct {
	// Path is the JSON-pointer-like path to the problematic field
	// (e.g., "paths./pets.get.responses" or "body.items[2].name")
	Path string
	// Message is a human-readable description of the issue
	Message string
	// Severity indicates the severity level of the issue
	Severity severity.Severity
	// Field is the specific field name that has the issue
	Field string
	// Value is the problematic value (optional)
	Value any
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}
	if i.Path == "" {
		return fmt.Sprintf("%s %s", symbol, i.Message)
	}
	return fmt.Sprintf("%s %s: %s", symbol, i.Path, i.Message)
}
