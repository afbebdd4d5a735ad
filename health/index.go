package health

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/specmend/specmend/fixture"
	"github.com/specmend/specmend/internal/naming"
	"github.com/specmend/specmend/parser"
)

// operationEntry is one operation with its expected fixture location.
type operationEntry struct {
	path   string
	method string
	op     *parser.Operation
}

// operationIndex maps fixture directories to operations. byDir holds
// the canonical <tag>/<kebab-opid> location; byFolder keys on the
// operation folder alone so a fixture tree survives a vendor tag rename
// as long as the folder name stays unambiguous.
type operationIndex struct {
	byDir    map[string]*operationEntry
	byFolder map[string][]*operationEntry
}

func indexOperations(doc *parser.OAS3Document) *operationIndex {
	index := &operationIndex{
		byDir:    make(map[string]*operationEntry),
		byFolder: make(map[string][]*operationEntry),
	}
	doc.EachOperation(func(path, method string, op *parser.Operation) {
		if op.OperationID == "" {
			return
		}
		entry := &operationEntry{path: path, method: method, op: op}
		dir := fixture.OperationDir(op.PrimaryTag(), op.OperationID)
		index.byDir[dir] = entry
		folder := naming.ToKebabCase(op.OperationID)
		index.byFolder[folder] = append(index.byFolder[folder], entry)
	})
	return index
}

// match pairs a fixture directory with its operation. The _manual
// prefix is stripped first, then an exact <tag>/<kebab-opid> hit wins;
// otherwise the folder name alone matches when exactly one operation
// claims it.
func (idx *operationIndex) match(dir string) *operationEntry {
	canonical := strings.TrimPrefix(dir, fixture.ManualDirName+string(filepath.Separator))
	if entry, ok := idx.byDir[canonical]; ok {
		return entry
	}
	entries := idx.byFolder[filepath.Base(canonical)]
	if len(entries) == 1 {
		return entries[0]
	}
	return nil
}

func sortedDirKeys(byDir map[string]*operationEntry) []string {
	keys := make([]string, 0, len(byDir))
	for key := range byDir {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// scanFixtureDirs returns the operation-level fixture directories under
// the root and under the root _manual tree, relative to the root,
// sorted. The layout is <tag>/<operation>, so only second-level
// directories qualify in each tree.
func scanFixtureDirs(root string) ([]string, error) {
	var dirs []string

	collect := func(prefix string) error {
		tagEntries, err := os.ReadDir(filepath.Join(root, prefix))
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		for _, tagEntry := range tagEntries {
			if !tagEntry.IsDir() || strings.HasPrefix(tagEntry.Name(), "_") {
				continue
			}
			opEntries, err := os.ReadDir(filepath.Join(root, prefix, tagEntry.Name()))
			if err != nil {
				return err
			}
			for _, opEntry := range opEntries {
				if !opEntry.IsDir() {
					continue
				}
				dirs = append(dirs, filepath.Join(prefix, tagEntry.Name(), opEntry.Name()))
			}
		}
		return nil
	}

	if err := collect(""); err != nil {
		return nil, err
	}
	if err := collect(fixture.ManualDirName); err != nil {
		return nil, err
	}
	sort.Strings(dirs)
	return dirs, nil
}

// listResponseFixtures returns the response fixture files directly in an
// operation directory, relative to it, sorted.
func listResponseFixtures(opDir string) ([]string, error) {
	entries, err := os.ReadDir(opDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, _, ok := fixture.ParseResponseFileName(entry.Name()); ok {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
