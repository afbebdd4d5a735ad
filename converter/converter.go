// Package converter converts vendor-supplied Swagger 2.0 documents to
// OpenAPI 3.0.
//
// The conversion is a single-pass tree transformation: host/basePath/
// schemes become servers, definitions and securityDefinitions move under
// components, body and formData parameters become request bodies, and
// every local pointer is rewritten from #/definitions/Name to
// #/components/schemas/Name.
package converter

import (
	"fmt"

	"github.com/specmend/specmend/internal/issues"
	"github.com/specmend/specmend/internal/severity"
	"github.com/specmend/specmend/parser"
)

// TargetVersion is the OpenAPI version emitted by the converter.
const TargetVersion = "3.0.3"

// Severity indicates the severity level of a conversion issue
type Severity = severity.Severity

const (
	// SeverityError indicates a conversion failure for a node
	SeverityError = severity.SeverityError
	// SeverityWarning indicates a lossy conversion
	SeverityWarning = severity.SeverityWarning
	// SeverityInfo indicates informational messages about choices made
	SeverityInfo = severity.SeverityInfo
)

// ConversionIssue represents a single finding during conversion
type ConversionIssue = issues.Issue

// ConversionResult contains the results of a conversion operation
type ConversionResult struct {
	// Document contains the converted *parser.OAS3Document
	Document *parser.OAS3Document
	// SourceVersion is the detected source version string
	SourceVersion string
	// TargetVersion is the emitted OpenAPI version
	TargetVersion string
	// SourceFormat is the format of the source file (JSON or YAML)
	SourceFormat parser.SourceFormat
	// SourcePath is the path to the source file
	SourcePath string
	// Issues contains all findings collected during conversion
	Issues []ConversionIssue
	// Success is true if conversion completed without errors
	Success bool
	// Stats contains statistical information about the source document
	Stats parser.DocumentStats
}

// Converter handles Swagger 2.0 to OpenAPI 3.0 conversion
type Converter struct {
	// Logger is the structured logger for debug output
	// If nil, logging is disabled (default)
	Logger parser.Logger
}

// New creates a new Converter instance with default settings
func New() *Converter {
	return &Converter{}
}

// log returns the configured logger, or a no-op logger if none is set.
func (c *Converter) log() parser.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return parser.NopLogger{}
}

// Option is a function that configures a conversion operation
type Option func(*convertConfig) error

// convertConfig holds configuration for a conversion operation
type convertConfig struct {
	filePath *string
	parsed   *parser.ParseResult
	logger   parser.Logger
}

// WithFilePath specifies the file path of the Swagger 2.0 document to convert
func WithFilePath(path string) Option {
	return func(cfg *convertConfig) error {
		if path == "" {
			return fmt.Errorf("file path cannot be empty")
		}
		cfg.filePath = &path
		return nil
	}
}

// WithParsed specifies an already-parsed specification to convert
func WithParsed(result parser.ParseResult) Option {
	return func(cfg *convertConfig) error {
		cfg.parsed = &result
		return nil
	}
}

// WithLogger sets the structured logger for the conversion
func WithLogger(logger parser.Logger) Option {
	return func(cfg *convertConfig) error {
		cfg.logger = logger
		return nil
	}
}

// ConvertWithOptions converts a Swagger 2.0 specification using functional
// options.
//
// Example:
//
//	result, err := converter.ConvertWithOptions(
//	    converter.WithFilePath("swagger.json"),
//	)
func ConvertWithOptions(opts ...Option) (*ConversionResult, error) {
	cfg := &convertConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("converter: invalid options: %w", err)
		}
	}

	sources := 0
	if cfg.filePath != nil {
		sources++
	}
	if cfg.parsed != nil {
		sources++
	}
	if sources == 0 {
		return nil, fmt.Errorf("converter: no input source specified: use WithFilePath or WithParsed")
	}
	if sources > 1 {
		return nil, fmt.Errorf("converter: multiple input sources specified: use only one of WithFilePath or WithParsed")
	}

	c := &Converter{Logger: cfg.logger}
	if cfg.parsed != nil {
		return c.ConvertParsed(*cfg.parsed)
	}
	return c.Convert(*cfg.filePath)
}

// Convert converts a Swagger 2.0 specification file to OpenAPI 3.0
func (c *Converter) Convert(specPath string) (*ConversionResult, error) {
	p := parser.New()
	p.Logger = c.Logger

	parseResult, err := p.Parse(specPath)
	if err != nil {
		return nil, fmt.Errorf("converter: failed to parse specification: %w", err)
	}

	return c.ConvertParsed(*parseResult)
}

// ConvertParsed converts an already-parsed Swagger 2.0 specification
func (c *Converter) ConvertParsed(parseResult parser.ParseResult) (*ConversionResult, error) {
	result := &ConversionResult{
		SourceVersion: parseResult.Version,
		TargetVersion: TargetVersion,
		SourceFormat:  parseResult.SourceFormat,
		SourcePath:    parseResult.SourcePath,
		Stats:         parseResult.Stats,
		Issues:        make([]ConversionIssue, 0),
		Success:       true,
	}

	src, ok := parseResult.OAS2Document()
	if !ok {
		if parseResult.IsOAS3() {
			return nil, fmt.Errorf("converter: document is already OpenAPI 3.x (version %s)", parseResult.Version)
		}
		return nil, fmt.Errorf("converter: expected *parser.OAS2Document, got %T", parseResult.Document)
	}

	if err := c.convertOAS2ToOAS3(src, result); err != nil {
		return nil, err
	}

	for _, issue := range result.Issues {
		if issue.Severity == SeverityError {
			result.Success = false
			break
		}
	}

	return result, nil
}

// addIssue appends a conversion issue to the result
func (c *Converter) addIssue(result *ConversionResult, path, message string, sev Severity) {
	result.Issues = append(result.Issues, ConversionIssue{
		Path:     path,
		Message:  message,
		Severity: sev,
	})
}
