package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationDir(t *testing.T) {
	tests := []struct {
		tag  string
		opID string
		want string
	}{
		{"Invoices", "getInvoices", filepath.Join("invoices", "get-invoices")},
		{"Payment Runs", "postPaymentRuns", filepath.Join("payment-runs", "post-payment-runs")},
		{"", "getThing", filepath.Join("untagged", "get-thing")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OperationDir(tt.tag, tt.opID))
	}
}

func TestParseResponseFileName(t *testing.T) {
	tests := []struct {
		name        string
		wantStatus  int
		wantVariant string
		wantOK      bool
	}{
		{"response.200.json", 200, "", true},
		{"response.201.json", 201, "", true},
		{"response.200.empty-page.json", 200, "empty-page", true},
		{"response.404.json", 404, "", true},
		{"request.json", 0, "", false},
		{"response.json", 0, "", false},
		{"response.999.json", 0, "", false},
		{"response.200.txt", 0, "", false},
		{"notes.md", 0, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, variant, ok := ParseResponseFileName(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantStatus, status)
				assert.Equal(t, tt.wantVariant, variant)
			}
		})
	}
}

func TestResponseFileName(t *testing.T) {
	assert.Equal(t, "response.200.json", ResponseFileName("200", ""))
	assert.Equal(t, "response.200.empty-page.json", ResponseFileName("200", "empty-page"))
}

// The second write of the same path must fail with os.ErrExist and leave
// the original content untouched.
func TestWriteAtMostOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoices", "get-invoices", "response.200.json")

	first := &Fixture{
		Meta: Meta{Description: "original", Status: 200},
		Body: map[string]any{"id": "inv-1"},
	}
	require.NoError(t, Write(path, first))

	second := &Fixture{
		Meta: Meta{Description: "overwrite attempt", Status: 200},
		Body: map[string]any{},
	}
	err := Write(path, second)
	require.ErrorIs(t, err, os.ErrExist)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "original", loaded.Meta.Description)
	assert.Equal(t, 200, loaded.Meta.Status)
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "response.200.json")
	f := &Fixture{
		Meta: Meta{
			Description: "a page",
			Status:      200,
			Headers:     map[string]string{"X-Total-Count": "2"},
		},
		Body: map[string]any{
			"items": []any{
				map[string]any{"id": "inv-1"},
				map[string]any{"id": "inv-2"},
			},
		},
	}
	require.NoError(t, Write(path, f))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, f.Meta.Description, loaded.Meta.Description)
	assert.Equal(t, "2", loaded.Meta.Headers["X-Total-Count"])

	body, ok := loaded.Body.(map[string]any)
	require.True(t, ok)
	assert.Len(t, body["items"], 2)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
