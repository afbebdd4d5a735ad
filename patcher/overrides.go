package patcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	yaml "go.yaml.in/yaml/v4"

	"github.com/specmend/specmend/parser"
	"github.com/specmend/specmend/specerrors"
)

// Override files are routed by basename prefix. A schemas file holds
// named schema definitions, a parameters file named parameter
// definitions, and a patches file path items keyed by path pattern.
const (
	overridePrefixSchemas    = "schemas"
	overridePrefixParameters = "parameters"
	overridePrefixPatches    = "patches"
)

// mergeOverrides applies the override files found in OverrideDir. Files
// are processed in lexical order and merge at the key level, so a later
// file wins for any key it shares with an earlier one. An empty
// OverrideDir disables the pass; a configured directory that does not
// exist is a hard error.
func (p *Patcher) mergeOverrides(doc *parser.OAS3Document, result *PatchResult) error {
	if p.OverrideDir == "" {
		return nil
	}

	entries, err := os.ReadDir(p.OverrideDir)
	if err != nil {
		return &specerrors.PatchError{
			Pass:    string(PassOverrides),
			Path:    p.OverrideDir,
			Message: "override directory is not readable",
			Cause:   err,
		}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" && ext != ".json" {
			continue
		}
		fullPath := filepath.Join(p.OverrideDir, name)
		if err := p.mergeOverrideFile(doc, fullPath, name, result); err != nil {
			return err
		}
	}
	return nil
}

// mergeOverrideFile routes one override file into the document section
// its basename prefix names.
func (p *Patcher) mergeOverrideFile(doc *parser.OAS3Document, fullPath, name string, result *PatchResult) error {
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return &specerrors.PatchError{
			Pass:    string(PassOverrides),
			Path:    fullPath,
			Message: "failed to read override file",
			Cause:   err,
		}
	}

	switch {
	case strings.HasPrefix(name, overridePrefixSchemas):
		return mergeSchemaOverrides(doc, data, fullPath, name, result)
	case strings.HasPrefix(name, overridePrefixParameters):
		return mergeParameterOverrides(doc, data, fullPath, name, result)
	case strings.HasPrefix(name, overridePrefixPatches):
		return mergePathOverrides(doc, data, fullPath, name, result)
	default:
		addIssue(result, fullPath,
			fmt.Sprintf("override file %q has no recognized section prefix; skipped", name), SeverityWarning)
		return nil
	}
}

func mergeSchemaOverrides(doc *parser.OAS3Document, data []byte, fullPath, name string, result *PatchResult) error {
	var schemas map[string]*parser.Schema
	if err := yaml.Unmarshal(data, &schemas); err != nil {
		return overrideDecodeError(fullPath, err)
	}
	doc.EnsureComponents()
	for _, key := range sortedKeys(schemas) {
		_, replaced := doc.Components.Schemas[key]
		doc.Components.Schemas[key] = schemas[key]
		addPatch(result, PassOverrides, "components.schemas."+key,
			overrideDescription(name, key, replaced))
	}
	return nil
}

func mergeParameterOverrides(doc *parser.OAS3Document, data []byte, fullPath, name string, result *PatchResult) error {
	var params map[string]*parser.Parameter
	if err := yaml.Unmarshal(data, &params); err != nil {
		return overrideDecodeError(fullPath, err)
	}
	doc.EnsureComponents()
	for _, key := range sortedKeys(params) {
		_, replaced := doc.Components.Parameters[key]
		doc.Components.Parameters[key] = params[key]
		addPatch(result, PassOverrides, "components.parameters."+key,
			overrideDescription(name, key, replaced))
	}
	return nil
}

// mergePathOverrides merges path items operation by operation: each
// method present in the override replaces the corresponding operation,
// and methods absent from the override are preserved. A path not yet in
// the document is added whole.
func mergePathOverrides(doc *parser.OAS3Document, data []byte, fullPath, name string, result *PatchResult) error {
	var paths map[string]*parser.PathItem
	if err := yaml.Unmarshal(data, &paths); err != nil {
		return overrideDecodeError(fullPath, err)
	}
	if doc.Paths == nil {
		doc.Paths = parser.Paths{}
	}
	for _, pattern := range sortedKeys(paths) {
		override := paths[pattern]
		existing := doc.Paths[pattern]
		if existing == nil || override == nil {
			doc.Paths[pattern] = override
			addPatch(result, PassOverrides, "paths."+pattern,
				overrideDescription(name, pattern, existing != nil))
			continue
		}
		operations := parser.GetOperations(override)
		for _, method := range sortedKeys(operations) {
			op := operations[method]
			if op == nil {
				continue
			}
			existing.SetOperation(method, op)
			addPatch(result, PassOverrides,
				fmt.Sprintf("paths.%s.%s", pattern, method),
				overrideDescription(name, pattern+" "+method, true))
		}
		if len(override.Parameters) > 0 {
			existing.Parameters = override.Parameters
		}
	}
	return nil
}

func overrideDecodeError(fullPath string, err error) error {
	return &specerrors.PatchError{
		Pass:    string(PassOverrides),
		Path:    fullPath,
		Message: "failed to decode override file",
		Cause:   err,
	}
}

func overrideDescription(file, key string, replaced bool) string {
	if replaced {
		return fmt.Sprintf("override %s replaced %q", file, key)
	}
	return fmt.Sprintf("override %s added %q", file, key)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
