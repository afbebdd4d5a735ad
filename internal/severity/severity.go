// Package severity provides severity level constants and utilities
// for issues reported by the validator, patcher, and health packages.
//
// The severity levels are ordered from least to most severe:
// Info < Warning < Error.
package severity

// Severity indicates the severity level of an issue found during
// validation, patching, or fixture health checking.
type Severity int

const (
	// SeverityError indicates a conformance or structural violation that
	// makes the document or fixture invalid.
	SeverityError Severity = iota

	// SeverityWarning indicates soft findings such as undeclared object
	// keys or unions where no branch matched. Warnings never fail a run.
	SeverityWarning

	// SeverityInfo indicates informational messages about processing choices.
	SeverityInfo
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}
