// Package patcher transforms a freshly-converted OpenAPI document into a
// corrected, codegen-ready document.
//
// The patcher applies a fixed, ordered sequence of structural passes
// (header stripping, response-code normalization, operationId backfill,
// schema injection, targeted typing corrections, endpoint-specific
// patches) and then layers user-supplied override documents on top.
// Overrides always win.
//
// Each pass takes the document the previous pass produced; order matters
// because later passes assume earlier normalizations. Individual passes
// tolerate shapes they do not recognize (silent no-op for that node); the
// pipeline fails only on missing required input files.
package patcher

import (
	"fmt"

	"github.com/specmend/specmend/internal/issues"
	"github.com/specmend/specmend/internal/severity"
	"github.com/specmend/specmend/parser"
)

// PassName identifies one corrective pass in the fixed pipeline order.
type PassName string

// Passes, in application order. Later passes assume earlier normalizations:
// endpoint patches address operations by the ids that backfill guarantees,
// and the x-sortable rewrite targets a schema that injection provides.
const (
	PassStripHeaders           PassName = "strip-headers"
	PassNormalizeResponseCodes PassName = "normalize-response-codes"
	PassBackfillOperationIDs   PassName = "backfill-operation-ids"
	PassRequireBody            PassName = "require-body"
	PassInjectSchemas          PassName = "inject-schemas"
	PassArrayItemTypes         PassName = "array-item-types"
	PassSortableRewrite        PassName = "sortable-rewrite"
	PassLineErrorsMap          PassName = "line-errors-map"
	PassEndpointPatches        PassName = "endpoint-patches"
	PassOverrides              PassName = "overrides"
)

// passOrder is the authoritative pass sequence.
var passOrder = []PassName{
	PassStripHeaders,
	PassNormalizeResponseCodes,
	PassBackfillOperationIDs,
	PassRequireBody,
	PassInjectSchemas,
	PassArrayItemTypes,
	PassSortableRewrite,
	PassLineErrorsMap,
	PassEndpointPatches,
	PassOverrides,
}

// Patch represents a single correction applied to the document
type Patch struct {
	// Pass identifies the pass that applied the correction
	Pass PassName
	// Path is the JSON path to the patched location (e.g., "paths./invoices.get.parameters")
	Path string
	// Description is a human-readable description of the correction
	Description string
}

const (
	// SeverityError indicates a pass failure for a node
	SeverityError = severity.SeverityError
	// SeverityWarning indicates a finding the pass left in place
	SeverityWarning = severity.SeverityWarning
	// SeverityInfo indicates informational messages about choices made
	SeverityInfo = severity.SeverityInfo
)

// PatchIssue represents a soft finding collected during patching
type PatchIssue = issues.Issue

// PatchResult contains the results of a patch operation
type PatchResult struct {
	// Document contains the patched document. The patcher deep-copies its
	// input, so the caller's document is never aliased.
	Document *parser.OAS3Document
	// SourcePath is the path to the source file
	SourcePath string
	// SourceFormat is the format of the source file (JSON or YAML)
	SourceFormat parser.SourceFormat
	// Patches contains all corrections applied, in application order
	Patches []Patch
	// PatchCount is the total number of corrections applied
	PatchCount int
	// Issues contains soft findings (skipped override files, ...)
	Issues []PatchIssue
	// Success is true if patching completed without errors
	Success bool
}

// HasPatches returns true if any corrections were applied
func (r *PatchResult) HasPatches() bool {
	return r.PatchCount > 0
}

// Patcher applies the corrective pass pipeline and override layering
type Patcher struct {
	// OverrideDir is the directory holding user-supplied override
	// documents. Empty disables the override pass. A configured but
	// missing directory is a fatal error.
	OverrideDir string
	// EnabledPasses specifies which passes to apply.
	// If nil or empty, all passes are enabled.
	EnabledPasses []PassName
	// Logger is the structured logger for debug output
	// If nil, logging is disabled (default)
	Logger parser.Logger
}

// New creates a new Patcher instance with default settings
func New() *Patcher {
	return &Patcher{}
}

// log returns the configured logger, or a no-op logger if none is set.
func (p *Patcher) log() parser.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return parser.NopLogger{}
}

// Option is a function that configures a patch operation
type Option func(*patchConfig) error

// patchConfig holds configuration for a patch operation
type patchConfig struct {
	filePath    *string
	parsed      *parser.ParseResult
	overrideDir string
	enabled     []PassName
	logger      parser.Logger
}

// WithFilePath specifies the file path of the OpenAPI document to patch
func WithFilePath(path string) Option {
	return func(cfg *patchConfig) error {
		if path == "" {
			return fmt.Errorf("file path cannot be empty")
		}
		cfg.filePath = &path
		return nil
	}
}

// WithParsed specifies an already-parsed specification to patch
func WithParsed(result parser.ParseResult) Option {
	return func(cfg *patchConfig) error {
		cfg.parsed = &result
		return nil
	}
}

// WithOverrideDir sets the directory holding override documents
func WithOverrideDir(dir string) Option {
	return func(cfg *patchConfig) error {
		cfg.overrideDir = dir
		return nil
	}
}

// WithEnabledPasses restricts the pipeline to the named passes
func WithEnabledPasses(passes ...PassName) Option {
	return func(cfg *patchConfig) error {
		cfg.enabled = passes
		return nil
	}
}

// WithLogger sets the structured logger for the patch run
func WithLogger(logger parser.Logger) Option {
	return func(cfg *patchConfig) error {
		cfg.logger = logger
		return nil
	}
}

// PatchWithOptions patches an OpenAPI specification using functional options.
//
// Example:
//
//	result, err := patcher.PatchWithOptions(
//	    patcher.WithFilePath("openapi.json"),
//	    patcher.WithOverrideDir("overrides"),
//	)
func PatchWithOptions(opts ...Option) (*PatchResult, error) {
	cfg := &patchConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("patcher: invalid options: %w", err)
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
		return nil, fmt.Errorf("patcher: no input source specified: use WithFilePath or WithParsed")
	}
	if sources > 1 {
		return nil, fmt.Errorf("patcher: multiple input sources specified: use only one of WithFilePath or WithParsed")
	}

	p := &Patcher{
		OverrideDir:   cfg.overrideDir,
		EnabledPasses: cfg.enabled,
		Logger:        cfg.logger,
	}

	if cfg.parsed != nil {
		return p.PatchParsed(*cfg.parsed)
	}
	return p.Patch(*cfg.filePath)
}

// Patch patches an OpenAPI specification file and returns the result
func (p *Patcher) Patch(specPath string) (*PatchResult, error) {
	psr := parser.New()
	psr.Logger = p.Logger

	parseResult, err := psr.Parse(specPath)
	if err != nil {
		return nil, fmt.Errorf("patcher: failed to parse specification: %w", err)
	}

	return p.PatchParsed(*parseResult)
}

// PatchParsed patches an already-parsed OpenAPI specification.
// The patcher operates on a deep copy and does not require a fully valid
// document - correcting validation problems is often the reason it runs.
func (p *Patcher) PatchParsed(parseResult parser.ParseResult) (*PatchResult, error) {
	srcDoc, ok := parseResult.OAS3Document()
	if !ok {
		return nil, fmt.Errorf("patcher: expected *parser.OAS3Document, got %T", parseResult.Document)
	}

	doc, err := parser.DeepCopyOAS3Document(srcDoc)
	if err != nil {
		return nil, fmt.Errorf("patcher: failed to copy document: %w", err)
	}

	result := &PatchResult{
		Document:     doc,
		SourcePath:   parseResult.SourcePath,
		SourceFormat: parseResult.SourceFormat,
		Patches:      make([]Patch, 0),
		Success:      true,
	}

	for _, pass := range passOrder {
		if !p.isPassEnabled(pass) {
			continue
		}
		p.log().Debug("applying patch pass", "pass", string(pass))
		if err := p.applyPass(pass, doc, result); err != nil {
			return nil, err
		}
	}

	result.PatchCount = len(result.Patches)
	for _, issue := range result.Issues {
		if issue.Severity == SeverityError {
			result.Success = false
			break
		}
	}
	return result, nil
}

// applyPass dispatches one named pass over the document
func (p *Patcher) applyPass(pass PassName, doc *parser.OAS3Document, result *PatchResult) error {
	switch pass {
	case PassStripHeaders:
		p.stripHeaders(doc, result)
	case PassNormalizeResponseCodes:
		p.normalizeResponseCodes(doc, result)
	case PassBackfillOperationIDs:
		p.backfillOperationIDs(doc, result)
	case PassRequireBody:
		p.requireBodies(doc, result)
	case PassInjectSchemas:
		p.injectSchemas(doc, result)
	case PassArrayItemTypes:
		p.fixArrayItemTypes(doc, result)
	case PassSortableRewrite:
		p.rewriteSortable(doc, result)
	case PassLineErrorsMap:
		p.constrainLineErrors(doc, result)
	case PassEndpointPatches:
		p.applyEndpointPatches(doc, result)
	case PassOverrides:
		return p.mergeOverrides(doc, result)
	}
	return nil
}

// isPassEnabled checks if a pass is enabled
func (p *Patcher) isPassEnabled(pass PassName) bool {
	if len(p.EnabledPasses) == 0 {
		return true // all passes enabled by default
	}
	for _, enabled := range p.EnabledPasses {
		if enabled == pass {
			return true
		}
	}
	return false
}

// addPatch records an applied correction
func addPatch(result *PatchResult, pass PassName, path, description string) {
	result.Patches = append(result.Patches, Patch{
		Pass:        pass,
		Path:        path,
		Description: description,
	})
}

// addIssue records a soft finding
func addIssue(result *PatchResult, path, message string, sev severity.Severity) {
	result.Issues = append(result.Issues, PatchIssue{
		Path:     path,
		Message:  message,
		Severity: sev,
	})
}
