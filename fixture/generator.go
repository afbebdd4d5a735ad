package fixture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/specmend/specmend/internal/httputil"
	"github.com/specmend/specmend/internal/issues"
	"github.com/specmend/specmend/internal/naming"
	"github.com/specmend/specmend/internal/severity"
	"github.com/specmend/specmend/parser"
)

const (
	// SeverityError indicates a generation failure for an operation
	SeverityError = severity.SeverityError
	// SeverityWarning indicates an operation the generator skipped over
	SeverityWarning = severity.SeverityWarning
	// SeverityInfo indicates informational messages
	SeverityInfo = severity.SeverityInfo
)

// GenerateIssue represents a single generation finding
type GenerateIssue = issues.Issue

// GenerateResult contains the results of a fixture generation run
type GenerateResult struct {
	// SourcePath is the specification the fixtures were generated from
	SourcePath string
	// FixtureDir is the root directory fixtures were written under
	FixtureDir string
	// Generated lists the fixture files written by this run,
	// relative to FixtureDir
	Generated []string
	// Skipped lists the fixture files that already existed,
	// relative to FixtureDir
	Skipped []string
	// GeneratedCount is the number of files written
	GeneratedCount int
	// SkippedCount is the number of files left untouched
	SkippedCount int
	// Issues contains findings from the run
	Issues []GenerateIssue
	// Success is false when any issue is an error
	Success bool
}

// Generator writes skeleton fixtures for every operation that lacks
// them. Existing files are never overwritten, so a run is safe against a
// directory of hand-edited fixtures.
type Generator struct {
	// FixtureDir is the root directory to write fixtures under
	FixtureDir string
	// WithRequests also generates request.json for operations that
	// declare a JSON request body
	WithRequests bool
	// Logger receives structured progress output. Nil disables logging.
	Logger parser.Logger
}

// NewGenerator creates a Generator writing under the given root.
func NewGenerator(fixtureDir string) *Generator {
	return &Generator{FixtureDir: fixtureDir}
}

func (g *Generator) log() parser.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return parser.NopLogger{}
}

// Generate parses the specification file and generates fixtures for it.
func (g *Generator) Generate(specPath string) (*GenerateResult, error) {
	p := parser.New()
	p.Logger = g.Logger

	parseResult, err := p.Parse(specPath)
	if err != nil {
		return nil, fmt.Errorf("fixture: failed to parse specification: %w", err)
	}
	return g.GenerateParsed(*parseResult)
}

// GenerateParsed generates fixtures for an already-parsed specification.
// Only success responses (status below 400) with JSON content get
// fixtures; error responses are exercised elsewhere and are exempt.
func (g *Generator) GenerateParsed(parseResult parser.ParseResult) (*GenerateResult, error) {
	doc, ok := parseResult.OAS3Document()
	if !ok {
		return nil, fmt.Errorf("fixture: document is not OpenAPI 3.x: convert it first")
	}
	if g.FixtureDir == "" {
		return nil, fmt.Errorf("fixture: no fixture directory configured")
	}

	result := &GenerateResult{
		SourcePath: parseResult.SourcePath,
		FixtureDir: g.FixtureDir,
		Success:    true,
	}

	doc.EachOperation(func(path, method string, op *parser.Operation) {
		g.generateOperation(doc, path, method, op, result)
	})

	result.GeneratedCount = len(result.Generated)
	result.SkippedCount = len(result.Skipped)
	for _, issue := range result.Issues {
		if issue.Severity == SeverityError {
			result.Success = false
			break
		}
	}

	g.log().Info("fixture generation complete",
		"generated", result.GeneratedCount,
		"skipped", result.SkippedCount)
	return result, nil
}

func (g *Generator) generateOperation(doc *parser.OAS3Document, path, method string, op *parser.Operation, result *GenerateResult) {
	opPath := fmt.Sprintf("paths.%s.%s", path, method)
	if op.OperationID == "" {
		g.addIssue(result, opPath, "operation has no operationId; no fixture directory can be derived", SeverityWarning)
		return
	}

	dir := OperationDir(op.PrimaryTag(), op.OperationID)

	if op.Responses != nil {
		for _, status := range op.Responses.SortedCodes() {
			if !httputil.IsSuccessCode(status) {
				continue
			}
			resp := g.resolveResponse(doc, op.Responses.Get(status))
			if resp == nil {
				continue
			}
			media := resp.JSONContent()
			if media == nil {
				continue
			}
			g.generateResponseFixtures(doc, dir, status, resp, media, opPath, result)
		}
	}

	if g.WithRequests && op.RequestBody != nil {
		if media := op.RequestBody.JSONContent(); media != nil && media.Schema != nil {
			g.writeFixture(filepath.Join(dir, RequestFileName), &Fixture{
				Meta: Meta{Description: op.RequestBody.Description},
				Body: SampleValue(doc, media.Schema),
			}, opPath, result)
		}
	}
}

// generateResponseFixtures writes the fixtures for one response. Named
// examples each become a variant file; otherwise the declared example or
// a value synthesized from the schema produces a single fixture.
func (g *Generator) generateResponseFixtures(doc *parser.OAS3Document, dir, status string, resp *parser.Response, media *parser.MediaType, opPath string, result *GenerateResult) {
	meta := Meta{
		Description: resp.Description,
		Status:      mustStatus(status),
	}

	if len(media.Examples) > 0 {
		names := make([]string, 0, len(media.Examples))
		for name := range media.Examples {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			example := media.Examples[name]
			if example == nil || example.Ref != "" {
				continue
			}
			variantMeta := meta
			if example.Description != "" {
				variantMeta.Description = example.Description
			}
			g.writeFixture(filepath.Join(dir, ResponseFileName(status, naming.ToKebabCase(name))), &Fixture{
				Meta: variantMeta,
				Body: example.Value,
			}, opPath, result)
		}
		return
	}

	var body any
	switch {
	case media.Example != nil:
		body = media.Example
	case media.Schema != nil:
		body = SampleValue(doc, media.Schema)
	default:
		return
	}
	g.writeFixture(filepath.Join(dir, ResponseFileName(status, "")), &Fixture{
		Meta: meta,
		Body: body,
	}, opPath, result)
}

func (g *Generator) resolveResponse(doc *parser.OAS3Document, resp *parser.Response) *parser.Response {
	if resp == nil || resp.Ref == "" {
		return resp
	}
	target, ok := doc.ResolveResponse(resp.Ref)
	if !ok {
		return nil
	}
	return target
}

// writeFixture writes one fixture unless the file already exists.
func (g *Generator) writeFixture(relPath string, f *Fixture, opPath string, result *GenerateResult) {
	fullPath := filepath.Join(g.FixtureDir, relPath)
	err := Write(fullPath, f)
	switch {
	case err == nil:
		result.Generated = append(result.Generated, relPath)
	case errors.Is(err, os.ErrExist):
		result.Skipped = append(result.Skipped, relPath)
	default:
		g.addIssue(result, opPath, err.Error(), SeverityError)
	}
}

func (g *Generator) addIssue(result *GenerateResult, path, message string, sev severity.Severity) {
	result.Issues = append(result.Issues, GenerateIssue{
		Path:     path,
		Message:  message,
		Severity: sev,
	})
}

func mustStatus(status string) int {
	code, err := strconv.Atoi(status)
	if err != nil {
		return 0
	}
	return code
}
