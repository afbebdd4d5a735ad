package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "go.yaml.in/yaml/v4"
)

func TestWriteDocumentJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "openapi.json")
	doc := map[string]any{"openapi": "3.0.3", "info": map[string]any{"title": "T"}}
	require.NoError(t, WriteDocument(path, doc))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), data[len(data)-1])

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "3.0.3", decoded["openapi"])
}

func TestWriteDocumentYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	doc := map[string]any{"openapi": "3.0.3"}
	require.NoError(t, WriteDocument(path, doc))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "{")

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "3.0.3", decoded["openapi"])
}
