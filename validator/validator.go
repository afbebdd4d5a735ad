// Package validator checks OpenAPI documents for structural defects and
// checks concrete values against their schemas.
package validator

import (
	"encoding/json"
	"fmt"
	"strings"

	yaml "go.yaml.in/yaml/v4"

	"github.com/specmend/specmend/internal/issues"
	"github.com/specmend/specmend/internal/severity"
	"github.com/specmend/specmend/parser"
)

// Severity indicates the severity level of a validation issue
type Severity = severity.Severity

const (
	// SeverityError indicates a violation that makes the document invalid
	SeverityError = severity.SeverityError
	// SeverityWarning indicates a finding that does not invalidate the document
	SeverityWarning = severity.SeverityWarning
	// SeverityInfo indicates informational messages
	SeverityInfo = severity.SeverityInfo
)

const (
	// defaultErrorCapacity is the initial capacity for error slices
	defaultErrorCapacity = 10
	// defaultWarningCapacity is the initial capacity for warning slices
	defaultWarningCapacity = 10
)

// ValidationError represents a single validation issue
type ValidationError = issues.Issue

// ValidationResult contains the results of validating a specification
type ValidationResult struct {
	// Valid is true if no errors were found (warnings are allowed)
	Valid bool
	// Version is the detected specification version string
	Version string
	// Errors contains all validation errors
	Errors []ValidationError
	// Warnings contains all validation warnings
	Warnings []ValidationError
	// ErrorCount is the total number of errors
	ErrorCount int
	// WarningCount is the total number of warnings
	WarningCount int
	// Stats contains statistical information about the document
	Stats parser.DocumentStats
	// Document contains the validated document
	// (*parser.OAS2Document or *parser.OAS3Document)
	Document any
	// SourceFormat is the format of the source file (JSON or YAML)
	SourceFormat parser.SourceFormat
	// SourcePath is the original source path from the parsed document
	SourcePath string
}

// Validator handles specification validation
type Validator struct {
	// IncludeWarnings determines whether warnings are collected
	IncludeWarnings bool
	// ValidateStructure controls whether the parser performs basic
	// structure validation when this validator parses a file itself
	ValidateStructure bool
	// Logger receives structured progress output. Nil disables logging.
	Logger parser.Logger
}

// New creates a new Validator instance with default settings
func New() *Validator {
	return &Validator{
		IncludeWarnings:   true,
		ValidateStructure: true,
	}
}

func (v *Validator) log() parser.Logger {
	if v.Logger != nil {
		return v.Logger
	}
	return parser.NopLogger{}
}

// addError appends a validation error
func (v *Validator) addError(result *ValidationResult, path, message string, opts ...func(*ValidationError)) {
	err := ValidationError{
		Path:     path,
		Message:  message,
		Severity: SeverityError,
	}
	for _, opt := range opts {
		opt(&err)
	}
	result.Errors = append(result.Errors, err)
}

// addWarning appends a validation warning
func (v *Validator) addWarning(result *ValidationResult, path, message string, opts ...func(*ValidationError)) {
	if !v.IncludeWarnings {
		return
	}
	warn := ValidationError{
		Path:     path,
		Message:  message,
		Severity: SeverityWarning,
	}
	for _, opt := range opts {
		opt(&warn)
	}
	result.Warnings = append(result.Warnings, warn)
}

// withField sets the Field on a ValidationError.
func withField(field string) func(*ValidationError) {
	return func(e *ValidationError) { e.Field = field }
}

// withValue sets the Value on a ValidationError.
func withValue(value any) func(*ValidationError) {
	return func(e *ValidationError) { e.Value = value }
}

// Validate validates the specification file at the given path
func (v *Validator) Validate(specPath string) (*ValidationResult, error) {
	p := parser.New()
	p.ValidateStructure = v.ValidateStructure
	p.Logger = v.Logger

	parseResult, err := p.Parse(specPath)
	if err != nil {
		return nil, fmt.Errorf("validator: failed to parse specification: %w", err)
	}
	return v.ValidateParsed(*parseResult)
}

// ValidateParsed validates an already-parsed specification
func (v *Validator) ValidateParsed(parseResult parser.ParseResult) (*ValidationResult, error) {
	result := &ValidationResult{
		Version:      parseResult.Version,
		Errors:       make([]ValidationError, 0, defaultErrorCapacity),
		Warnings:     make([]ValidationError, 0, defaultWarningCapacity),
		Stats:        parseResult.Stats,
		Document:     parseResult.Document,
		SourceFormat: parseResult.SourceFormat,
		SourcePath:   parseResult.SourcePath,
	}

	for _, parseErr := range parseResult.Errors {
		result.Errors = append(result.Errors, ValidationError{
			Path:     "document",
			Message:  parseErr.Error(),
			Severity: SeverityError,
		})
	}
	for _, warning := range parseResult.Warnings {
		v.addWarning(result, "document", warning)
	}

	data := parseResult.Data
	if data == nil {
		// A transformed document arrives without raw parse data; rebuild
		// the generic tree so pointer checks still run.
		data = rawTree(parseResult.Document)
	}
	if data != nil {
		v.checkLocalRefs(data, result)
	}

	switch doc := parseResult.Document.(type) {
	case *parser.OAS2Document:
		v.validateOAS2(doc, result)
	case *parser.OAS3Document:
		v.validateOAS3(doc, result)
	case nil:
		v.addError(result, "document", "no parsed document to validate")
	}

	result.ErrorCount = len(result.Errors)
	result.WarningCount = len(result.Warnings)
	result.Valid = result.ErrorCount == 0

	v.log().Debug("validation complete",
		"errors", result.ErrorCount,
		"warnings", result.WarningCount)
	return result, nil
}

// rawTree re-derives the generic document tree from a typed document.
func rawTree(doc any) map[string]any {
	if doc == nil {
		return nil
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil
	}
	var data map[string]any
	if err := yaml.Unmarshal(encoded, &data); err != nil {
		return nil
	}
	return data
}

// checkLocalRefs walks the raw document tree and verifies that every
// local $ref pointer resolves. External refs are reported as warnings
// since this validator only loads a single document.
func (v *Validator) checkLocalRefs(data map[string]any, result *ValidationResult) {
	walkRefs(data, "", func(path, ref string) {
		if !parser.IsLocalRef(ref) {
			v.addWarning(result, path,
				fmt.Sprintf("external reference %q cannot be checked", ref),
				withField("$ref"), withValue(ref))
			return
		}
		if _, ok := parser.ResolveLocal(data, ref); !ok {
			v.addError(result, path,
				fmt.Sprintf("reference %q does not resolve", ref),
				withField("$ref"), withValue(ref))
		}
	})
}

// walkRefs visits every $ref string in a generic document tree
func walkRefs(node any, path string, fn func(path, ref string)) {
	switch n := node.(type) {
	case map[string]any:
		if ref, ok := n["$ref"].(string); ok {
			fn(path, ref)
		}
		for key, child := range n {
			childPath := key
			if path != "" {
				childPath = path + "." + key
			}
			walkRefs(child, childPath, fn)
		}
	case []any:
		for i, child := range n {
			walkRefs(child, fmt.Sprintf("%s[%d]", path, i), fn)
		}
	}
}

// validateOAS3 applies document-level checks to an OpenAPI 3.x document
func (v *Validator) validateOAS3(doc *parser.OAS3Document, result *ValidationResult) {
	doc.EachOperation(func(path, method string, op *parser.Operation) {
		opPath := fmt.Sprintf("paths.%s.%s", path, method)

		if op.Responses == nil || (op.Responses.Len() == 0 && op.Responses.Default == nil) {
			v.addError(result, opPath, "operation has no responses", withField("responses"))
		}
		if op.OperationID == "" {
			v.addWarning(result, opPath, "operation has no operationId", withField("operationId"))
		}
		v.checkPathParameters(doc, path, op, opPath, result)
	})
}

// validateOAS2 applies document-level checks to a Swagger 2.0 document
func (v *Validator) validateOAS2(doc *parser.OAS2Document, result *ValidationResult) {
	for _, pattern := range parser.SortedPaths(doc.Paths) {
		pathItem := doc.Paths[pattern]
		if pathItem == nil {
			continue
		}
		for method, op := range parser.GetOperations(pathItem) {
			if op == nil {
				continue
			}
			opPath := fmt.Sprintf("paths.%s.%s", pattern, method)
			if op.Responses == nil || (op.Responses.Len() == 0 && op.Responses.Default == nil) {
				v.addError(result, opPath, "operation has no responses", withField("responses"))
			}
		}
	}
}

// checkPathParameters verifies that every template variable in the path
// pattern has a matching path parameter declaration.
func (v *Validator) checkPathParameters(doc *parser.OAS3Document, pattern string, op *parser.Operation, opPath string, result *ValidationResult) {
	declared := make(map[string]bool)
	collect := func(params []*parser.Parameter) {
		for _, param := range params {
			if param == nil {
				continue
			}
			resolved := param
			if param.Ref != "" {
				if target, ok := doc.ResolveParameter(param.Ref); ok {
					resolved = target
				}
			}
			if resolved.In == parser.ParamInPath {
				declared[resolved.Name] = true
			}
		}
	}
	if pathItem := doc.Paths[pattern]; pathItem != nil {
		collect(pathItem.Parameters)
	}
	collect(op.Parameters)

	for _, segment := range strings.Split(pattern, "/") {
		if !strings.HasPrefix(segment, "{") || !strings.HasSuffix(segment, "}") {
			continue
		}
		name := segment[1 : len(segment)-1]
		if !declared[name] {
			v.addError(result, opPath,
				fmt.Sprintf("path template variable %q has no matching path parameter", name),
				withField("parameters"), withValue(name))
		}
	}
}
