// Package commands provides CLI command handlers for specmend.
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "go.yaml.in/yaml/v4"

	"github.com/specmend/specmend/internal/fileutil"
	"github.com/specmend/specmend/internal/issues"
)

// maxShownMessages caps the number of individual findings printed per
// command. The summary counts always show the full totals.
const maxShownMessages = 20

// WriteDocument marshals a document and writes it to the given path,
// choosing YAML when the extension asks for it and indented JSON
// otherwise.
func WriteDocument(path string, doc any) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(doc)
	default:
		data, err = json.MarshalIndent(doc, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	}
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), fileutil.DirReadableByAll); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, data, fileutil.ReadableByAll); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// PrintIssues prints up to maxShownMessages findings under a heading,
// with a suppression note for the rest.
func PrintIssues(heading string, found []issues.Issue) {
	if len(found) == 0 {
		return
	}
	fmt.Printf("%s:\n", heading)
	shown := found
	if len(shown) > maxShownMessages {
		shown = shown[:maxShownMessages]
	}
	for _, issue := range shown {
		fmt.Printf("  %s\n", issue.String())
	}
	if suppressed := len(found) - len(shown); suppressed > 0 {
		fmt.Printf("  ... and %d more\n", suppressed)
	}
	fmt.Println()
}
