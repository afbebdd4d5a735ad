// Package health pairs a specification's operations with their recorded
// fixtures and checks that every fixture payload still conforms to the
// schema it was recorded against.
package health

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/specmend/specmend/fixture"
	"github.com/specmend/specmend/internal/issues"
	"github.com/specmend/specmend/internal/severity"
	"github.com/specmend/specmend/parser"
	"github.com/specmend/specmend/validator"
)

const (
	// SeverityError indicates a fixture that no longer conforms
	SeverityError = severity.SeverityError
	// SeverityWarning indicates a finding that does not fail the check
	SeverityWarning = severity.SeverityWarning
	// SeverityInfo indicates informational messages
	SeverityInfo = severity.SeverityInfo
)

// HealthIssue represents a single health finding
type HealthIssue = issues.Issue

// FixtureFinding groups the conformance issues of one fixture file.
type FixtureFinding struct {
	// File is the fixture path relative to the fixture root
	File string
	// OperationID is the operation the fixture belongs to
	OperationID string
	// Issues are the conformance problems found in the payload
	Issues []validator.ValidationError
}

// Report contains the results of a fixture health check
type Report struct {
	// SpecPath is the specification the fixtures were checked against
	SpecPath string
	// FixtureDir is the root directory that was scanned
	FixtureDir string
	// TotalOperations is the number of operations in the specification
	TotalOperations int
	// Covered is the number of operations with at least one fixture
	Covered int
	// Missing lists operationIds with no fixture directory,
	// sorted
	Missing []string
	// Unmatched lists fixture directories that pair with no operation,
	// relative to FixtureDir, sorted
	Unmatched []string
	// Findings holds the per-fixture conformance issues
	Findings []FixtureFinding
	// Issues contains check-level findings
	Issues []HealthIssue
	// ErrorCount is the total number of error-severity findings
	ErrorCount int
	// WarningCount is the total number of warning-severity findings
	WarningCount int
	// Healthy is true when every operation is covered and every
	// checked fixture conforms
	Healthy bool
}

// CoverageRatio returns covered operations over total, or 1 for an
// empty specification.
func (r *Report) CoverageRatio() float64 {
	if r.TotalOperations == 0 {
		return 1
	}
	return float64(r.Covered) / float64(r.TotalOperations)
}

// Checker verifies fixture coverage and conformance for a specification.
type Checker struct {
	// FixtureDir is the root directory holding the fixtures
	FixtureDir string
	// Logger receives structured progress output. Nil disables logging.
	Logger parser.Logger
}

// NewChecker creates a Checker reading fixtures under the given root.
func NewChecker(fixtureDir string) *Checker {
	return &Checker{FixtureDir: fixtureDir}
}

func (c *Checker) log() parser.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return parser.NopLogger{}
}

// Check parses the specification file and checks its fixtures.
func (c *Checker) Check(specPath string) (*Report, error) {
	p := parser.New()
	p.Logger = c.Logger

	parseResult, err := p.Parse(specPath)
	if err != nil {
		return nil, fmt.Errorf("health: failed to parse specification: %w", err)
	}
	return c.CheckParsed(*parseResult)
}

// CheckParsed checks the fixtures of an already-parsed specification.
// Success-response fixtures (status below 400) are checked against
// their response schemas; error-response fixtures only count toward
// coverage.
func (c *Checker) CheckParsed(parseResult parser.ParseResult) (*Report, error) {
	doc, ok := parseResult.OAS3Document()
	if !ok {
		return nil, fmt.Errorf("health: document is not OpenAPI 3.x: convert it first")
	}
	if c.FixtureDir == "" {
		return nil, fmt.Errorf("health: no fixture directory configured")
	}

	report := &Report{
		SpecPath:   parseResult.SourcePath,
		FixtureDir: c.FixtureDir,
	}

	index := indexOperations(doc)
	report.TotalOperations = len(index.byDir)

	dirs, err := scanFixtureDirs(c.FixtureDir)
	if err != nil {
		return nil, fmt.Errorf("health: failed to scan fixture directory: %w", err)
	}

	covered := make(map[string]bool)
	for _, dir := range dirs {
		op := index.match(dir)
		if op == nil {
			report.Unmatched = append(report.Unmatched, dir)
			c.addIssue(report, dir, "fixture directory matches no operation", SeverityWarning)
			continue
		}
		covered[op.op.OperationID] = true
		c.checkOperationFixtures(doc, dir, op, report)
	}

	for _, dir := range sortedDirKeys(index.byDir) {
		entry := index.byDir[dir]
		if !covered[entry.op.OperationID] {
			report.Missing = append(report.Missing, entry.op.OperationID)
		}
	}
	sort.Strings(report.Missing)
	sort.Strings(report.Unmatched)
	report.Covered = report.TotalOperations - len(report.Missing)

	for _, issue := range report.Issues {
		switch issue.Severity {
		case SeverityError:
			report.ErrorCount++
		case SeverityWarning:
			report.WarningCount++
		}
	}
	for _, finding := range report.Findings {
		for _, issue := range finding.Issues {
			switch issue.Severity {
			case SeverityError:
				report.ErrorCount++
			case SeverityWarning:
				report.WarningCount++
			}
		}
	}
	report.Healthy = len(report.Missing) == 0 && report.ErrorCount == 0

	c.log().Info("health check complete",
		"operations", report.TotalOperations,
		"covered", report.Covered,
		"errors", report.ErrorCount)
	return report, nil
}

// checkOperationFixtures checks every response fixture in one operation
// directory.
func (c *Checker) checkOperationFixtures(doc *parser.OAS3Document, dir string, entry *operationEntry, report *Report) {
	files, err := listResponseFixtures(filepath.Join(c.FixtureDir, dir))
	if err != nil {
		c.addIssue(report, dir, err.Error(), SeverityError)
		return
	}

	for _, relFile := range files {
		name := filepath.Base(relFile)
		status, _, ok := fixture.ParseResponseFileName(name)
		if !ok {
			continue
		}
		fixturePath := filepath.Join(dir, relFile)
		if status >= 400 {
			continue
		}

		f, err := fixture.Load(filepath.Join(c.FixtureDir, fixturePath))
		if err != nil {
			c.addIssue(report, fixturePath, err.Error(), SeverityError)
			continue
		}
		if f.Meta.Status != 0 && f.Meta.Status != status {
			c.addIssue(report, fixturePath,
				fmt.Sprintf("fixture metadata status %d disagrees with file name status %d", f.Meta.Status, status),
				SeverityWarning)
		}

		schema := responseSchema(doc, entry.op, status)
		if schema == nil {
			c.addIssue(report, fixturePath,
				fmt.Sprintf("operation declares no JSON schema for status %d", status),
				SeverityWarning)
			continue
		}

		found := validator.CheckValue(doc, schema, f.Body, "body")
		if len(found) > 0 {
			report.Findings = append(report.Findings, FixtureFinding{
				File:        fixturePath,
				OperationID: entry.op.OperationID,
				Issues:      found,
			})
		}
	}
}

// responseSchema finds the JSON schema declared for a status code,
// falling back to the default response.
func responseSchema(doc *parser.OAS3Document, op *parser.Operation, status int) *parser.Schema {
	if op.Responses == nil {
		return nil
	}
	resp := op.Responses.Get(strconv.Itoa(status))
	if resp == nil {
		resp = op.Responses.Default
	}
	if resp != nil && resp.Ref != "" {
		if target, ok := doc.ResolveResponse(resp.Ref); ok {
			resp = target
		}
	}
	if resp == nil {
		return nil
	}
	media := resp.JSONContent()
	if media == nil {
		return nil
	}
	return media.Schema
}

func (c *Checker) addIssue(report *Report, path, message string, sev severity.Severity) {
	report.Issues = append(report.Issues, HealthIssue{
		Path:     path,
		Message:  message,
		Severity: sev,
	})
}
