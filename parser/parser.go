package parser

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/specmend/specmend/specerrors"
)

// Parser handles specification document parsing
type Parser struct {
	// ValidateStructure determines whether to perform basic structure validation
	ValidateStructure bool
	// Logger is the structured logger for debug output
	// If nil, logging is disabled (default)
	Logger Logger
}

// New creates a new Parser instance with default settings
func New() *Parser {
	return &Parser{
		ValidateStructure: true,
	}
}

// log returns the configured logger, or a no-op logger if none is set.
func (p *Parser) log() Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return NopLogger{}
}

// SourceFormat represents the format of the source specification file
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the source format could not be determined
	SourceFormatUnknown SourceFormat = "unknown"
)

// ParseResult contains the parsed specification and metadata.
//
// Callers should treat ParseResult as read-only after parsing. The
// patcher deep-copies the document before transforming it; other
// consumers only read.
type ParseResult struct {
	// SourcePath is the document's input source path that it was read from
	SourcePath string
	// SourceFormat is the format of the source file (JSON or YAML)
	SourceFormat SourceFormat
	// Version is the detected specification version string (e.g., "2.0", "3.0.3")
	Version string
	// Data contains the raw parsed data as a generic tree, used for
	// pointer-reachability checks
	Data map[string]any
	// Document contains the version-specific parsed document:
	// - *OAS2Document for Swagger 2.0
	// - *OAS3Document for OpenAPI 3.x
	Document any
	// Errors contains any parsing or structure validation errors encountered
	Errors []error
	// Warnings contains non-fatal findings
	Warnings []string
	// Stats contains statistical information about the document
	Stats DocumentStats
	// LoadTime is the time taken to load and decode the source data
	LoadTime time.Duration
	// SourceSize is the size of the source data in bytes
	SourceSize int64
}

// OAS2Document returns the typed Swagger 2.0 document, or nil and false
// when the parsed document is a different version.
func (pr *ParseResult) OAS2Document() (*OAS2Document, bool) {
	doc, ok := pr.Document.(*OAS2Document)
	return doc, ok
}

// OAS3Document returns the typed OpenAPI 3.0 document, or nil and false
// when the parsed document is a different version.
func (pr *ParseResult) OAS3Document() (*OAS3Document, bool) {
	doc, ok := pr.Document.(*OAS3Document)
	return doc, ok
}

// IsOAS2 returns true if the parsed document is Swagger 2.0
func (pr *ParseResult) IsOAS2() bool {
	_, ok := pr.Document.(*OAS2Document)
	return ok
}

// IsOAS3 returns true if the parsed document is OpenAPI 3.x
func (pr *ParseResult) IsOAS3() bool {
	_, ok := pr.Document.(*OAS3Document)
	return ok
}

// Parse parses a specification file and returns the result.
// A missing or unreadable file is a fatal error; structure findings are
// collected into the result instead.
func (p *Parser) Parse(specPath string) (*ParseResult, error) {
	start := time.Now()
	data, err := os.ReadFile(specPath)
	if err != nil {
		return nil, &specerrors.ParseError{Path: specPath, Message: "failed to read file", Cause: err}
	}

	result, err := p.ParseBytes(data)
	if err != nil {
		if pe, ok := err.(*specerrors.ParseError); ok {
			pe.Path = specPath
		}
		return nil, err
	}
	result.SourcePath = specPath
	result.LoadTime = time.Since(start)
	return result, nil
}

// ParseReader parses a specification from a reader (e.g., stdin).
func (p *Parser) ParseReader(r io.Reader) (*ParseResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &specerrors.ParseError{Path: "<reader>", Message: "failed to read input", Cause: err}
	}
	result, err := p.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	result.SourcePath = "<reader>"
	return result, nil
}

// ParseBytes parses a specification from raw bytes. YAML is a superset of
// JSON, so a single decode path handles both formats; the detected format
// is recorded for output fidelity.
func (p *Parser) ParseBytes(data []byte) (*ParseResult, error) {
	start := time.Now()
	result := &ParseResult{
		SourceFormat: detectFormat(data),
		SourceSize:   int64(len(data)),
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &specerrors.ParseError{Message: "failed to parse document", Cause: err}
	}
	if raw == nil {
		return nil, &specerrors.ParseError{Message: "document is empty"}
	}
	result.Data = raw

	version, err := detectVersion(raw)
	if err != nil {
		return nil, err
	}
	result.Version = version
	p.log().Debug("detected specification version", "version", version)

	switch {
	case version == "2.0":
		var doc OAS2Document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &specerrors.ParseError{Message: "failed to decode Swagger 2.0 document", Cause: err}
		}
		result.Document = &doc
	case strings.HasPrefix(version, "3."):
		var doc OAS3Document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &specerrors.ParseError{Message: "failed to decode OpenAPI 3.x document", Cause: err}
		}
		result.Document = &doc
	default:
		return nil, &specerrors.ParseError{Message: fmt.Sprintf("unsupported specification version: %s", version)}
	}

	if p.ValidateStructure {
		result.Errors = append(result.Errors, p.validateStructure(result)...)
	}

	result.Stats = collectStats(result)
	result.LoadTime = time.Since(start)
	return result, nil
}

// detectFormat inspects the first non-whitespace byte: JSON documents in
// this toolchain always open with an object brace.
func detectFormat(data []byte) SourceFormat {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '{':
			return SourceFormatJSON
		default:
			return SourceFormatYAML
		}
	}
	return SourceFormatUnknown
}

// detectVersion extracts the specification version from the raw tree.
func detectVersion(raw map[string]any) (string, error) {
	if swagger, ok := raw["swagger"].(string); ok {
		return swagger, nil
	}
	if openapi, ok := raw["openapi"].(string); ok {
		return openapi, nil
	}
	return "", &specerrors.ParseError{Message: "document declares neither 'swagger' nor 'openapi' version"}
}

// validateStructure performs basic structure validation: required
// top-level fields, path shape, and operationId uniqueness.
// Findings are collected, not thrown; the caller decides pass/fail.
func (p *Parser) validateStructure(result *ParseResult) []error {
	var errs []error

	var info *Info
	var paths Paths
	switch doc := result.Document.(type) {
	case *OAS2Document:
		info = doc.Info
		paths = doc.Paths
	case *OAS3Document:
		info = doc.Info
		paths = doc.Paths
	}

	if info == nil {
		errs = append(errs, &specerrors.ValidationError{Path: "info", Message: "missing required field: info"})
	} else {
		if info.Title == "" {
			errs = append(errs, &specerrors.ValidationError{Path: "info.title", Message: "missing required field: title"})
		}
		if info.Version == "" {
			errs = append(errs, &specerrors.ValidationError{Path: "info.version", Message: "missing required field: version"})
		}
	}

	if paths == nil {
		errs = append(errs, &specerrors.ValidationError{Path: "paths", Message: "missing required field: paths"})
		return errs
	}

	operationIDs := make(map[string]string)
	for _, pattern := range SortedPaths(paths) {
		if !strings.HasPrefix(pattern, "/") {
			errs = append(errs, &specerrors.ValidationError{
				Path:    "paths." + pattern,
				Message: "path must start with '/'",
			})
		}
		pathItem := paths[pattern]
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
			op := operations[method]
			if op == nil || op.OperationID == "" {
				continue
			}
			opPath := fmt.Sprintf("paths.%s.%s", pattern, method)
			if firstSeen, dup := operationIDs[op.OperationID]; dup {
				errs = append(errs, &specerrors.ValidationError{
					Path:    opPath,
					Field:   "operationId",
					Value:   op.OperationID,
					Message: fmt.Sprintf("duplicate operationId %q (first seen at %s)", op.OperationID, firstSeen),
				})
			} else {
				operationIDs[op.OperationID] = opPath
			}
		}
	}

	return errs
}
