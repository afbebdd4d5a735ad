// Package fixture generates and loads recorded response fixtures laid
// out alongside the operations they exercise.
//
// Fixtures live under a root directory, one subdirectory per operation:
//
//	<root>/<tag>/<operation-id-in-kebab-case>/response.<status>.json
//
// A fixture file may carry a variant label between the status code and
// the extension (response.200.empty-page.json) to record alternate
// payloads for the same status. Hand-written fixtures that should never
// be touched by the generator live under a _manual tree at the root,
// mirroring the same <tag>/<operation> layout. An operation directory
// may also hold a single request.json recording a valid request body.
package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	yaml "go.yaml.in/yaml/v4"

	"github.com/specmend/specmend/internal/fileutil"
	"github.com/specmend/specmend/internal/naming"
	"github.com/specmend/specmend/specerrors"
)

// ManualDirName is the root-level tree whose contents the generator
// never writes to.
const ManualDirName = "_manual"

// RequestFileName is the per-operation recorded request body.
const RequestFileName = "request.json"

// Meta carries the descriptive envelope of a fixture.
type Meta struct {
	// Description explains what the recorded payload demonstrates
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Status is the HTTP status code the payload was recorded under.
	// Request fixtures leave it zero and it is omitted on output.
	Status int `json:"status,omitempty" yaml:"status,omitempty"`
	// Headers holds response headers worth preserving
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// Fixture is one recorded payload with its envelope.
type Fixture struct {
	Meta Meta `json:"_meta" yaml:"_meta"`
	// Body is the recorded payload checked against the response schema
	Body any `json:"body" yaml:"body"`
}

// OperationDir returns the fixture directory for an operation relative
// to the fixture root. Untagged operations group under "untagged" so
// the layout always stays two levels deep.
func OperationDir(tag, operationID string) string {
	if tag == "" {
		tag = "untagged"
	}
	return filepath.Join(naming.ToKebabCase(tag), naming.ToKebabCase(operationID))
}

// ResponseFileName builds a fixture file name for a status code and an
// optional variant label.
func ResponseFileName(status string, variant string) string {
	if variant == "" {
		return fmt.Sprintf("response.%s.json", status)
	}
	return fmt.Sprintf("response.%s.%s.json", status, variant)
}

// ParseResponseFileName splits a fixture file name into its status code
// and variant label. It reports false for names that are not response
// fixtures.
func ParseResponseFileName(name string) (status int, variant string, ok bool) {
	if !strings.HasPrefix(name, "response.") || !strings.HasSuffix(name, ".json") {
		return 0, "", false
	}
	trimmed := strings.TrimSuffix(strings.TrimPrefix(name, "response."), ".json")
	statusPart, variantPart, _ := strings.Cut(trimmed, ".")
	code, err := strconv.Atoi(statusPart)
	if err != nil || code < 100 || code > 599 {
		return 0, "", false
	}
	return code, variantPart, true
}

// Load reads and decodes a fixture file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &specerrors.ParseError{
			Path:    path,
			Message: "failed to read fixture",
			Cause:   err,
		}
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &specerrors.ParseError{
			Path:    path,
			Message: "failed to decode fixture",
			Cause:   err,
		}
	}
	return &f, nil
}

// Write marshals a fixture as indented JSON and writes it, creating the
// parent directory as needed. Existing files are never overwritten; the
// second write of the same path reports os.ErrExist.
func Write(path string, f *Fixture) error {
	if err := os.MkdirAll(filepath.Dir(path), fileutil.DirReadableByAll); err != nil {
		return fmt.Errorf("fixture: failed to create directory: %w", err)
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("fixture: failed to encode fixture: %w", err)
	}
	data = append(data, '\n')

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fileutil.ReadableByAll)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("fixture: failed to write %s: %w", path, err)
	}
	return nil
}
