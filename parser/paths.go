package parser

import (
	"fmt"
	"sort"

	"go.yaml.in/yaml/v4"

	"github.com/specmend/specmend/internal/httputil"
)

// Parameter location constants
const (
	ParamInPath   = "path"
	ParamInQuery  = "query"
	ParamInHeader = "header"
	ParamInCookie = "cookie"
	ParamInBody   = "body"     // OAS 2.0
	ParamInForm   = "formData" // OAS 2.0
)

// Paths holds the relative paths to the individual endpoints
type Paths map[string]*PathItem

// PathItem describes the operations available on a single path
type PathItem struct {
	Ref         string       `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Summary     string       `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Get         *Operation   `yaml:"get,omitempty" json:"get,omitempty"`
	Put         *Operation   `yaml:"put,omitempty" json:"put,omitempty"`
	Post        *Operation   `yaml:"post,omitempty" json:"post,omitempty"`
	Delete      *Operation   `yaml:"delete,omitempty" json:"delete,omitempty"`
	Options     *Operation   `yaml:"options,omitempty" json:"options,omitempty"`
	Head        *Operation   `yaml:"head,omitempty" json:"head,omitempty"`
	Patch       *Operation   `yaml:"patch,omitempty" json:"patch,omitempty"`
	Parameters  []*Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Operation describes a single API operation on a path
type Operation struct {
	Tags         []string              `yaml:"tags,omitempty" json:"tags,omitempty"`
	Summary      string                `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description  string                `yaml:"description,omitempty" json:"description,omitempty"`
	ExternalDocs *ExternalDocs         `yaml:"externalDocs,omitempty" json:"externalDocs,omitempty"`
	OperationID  string                `yaml:"operationId,omitempty" json:"operationId,omitempty"`
	Parameters   []*Parameter          `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	RequestBody  *RequestBody          `yaml:"requestBody,omitempty" json:"requestBody,omitempty"` // OAS 3.0
	Responses    *Responses            `yaml:"responses" json:"responses"`
	Deprecated   bool                  `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	Security     []SecurityRequirement `yaml:"security,omitempty" json:"security,omitempty"`
	// OAS 2.0 specific
	Consumes []string `yaml:"consumes,omitempty" json:"consumes,omitempty"` // OAS 2.0
	Produces []string `yaml:"produces,omitempty" json:"produces,omitempty"` // OAS 2.0
	Schemes  []string `yaml:"schemes,omitempty" json:"schemes,omitempty"`   // OAS 2.0
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// PrimaryTag returns the operation's first tag, or "" when untagged.
// The first tag is the operation's primary classification.
func (op *Operation) PrimaryTag() string {
	if len(op.Tags) == 0 {
		return ""
	}
	return op.Tags[0]
}

// Responses is a container for the expected responses of an operation
type Responses struct {
	Default *Response            `yaml:"default,omitempty" json:"default,omitempty"`
	Codes   map[string]*Response `yaml:",inline" json:"-"` // Handled by custom marshalers
}

// Get returns the response for a status-code key, checking "default" too.
func (r *Responses) Get(code string) *Response {
	if r == nil {
		return nil
	}
	if code == "default" {
		return r.Default
	}
	return r.Codes[code]
}

// Len returns the total number of declared responses including default.
func (r *Responses) Len() int {
	if r == nil {
		return 0
	}
	n := len(r.Codes)
	if r.Default != nil {
		n++
	}
	return n
}

// SortedCodes returns the declared status-code keys in lexical order,
// excluding default.
func (r *Responses) SortedCodes() []string {
	if r == nil {
		return nil
	}
	codes := make([]string, 0, len(r.Codes))
	for code := range r.Codes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// UnmarshalYAML implements custom unmarshaling for Responses so the
// status-code keys land in the Codes map and invalid keys are rejected
// with a clear message during parsing.
func (r *Responses) UnmarshalYAML(unmarshal func(any) error) error {
	var raw map[string]any
	if err := unmarshal(&raw); err != nil {
		return err
	}

	r.Codes = make(map[string]*Response)

	for key, value := range raw {
		valueBytes, err := yaml.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal response for %q: %w", key, err)
		}
		if key == "default" {
			var defaultResp Response
			if err := yaml.Unmarshal(valueBytes, &defaultResp); err != nil {
				return fmt.Errorf("failed to unmarshal default response: %w", err)
			}
			r.Default = &defaultResp
			continue
		}
		// Vendor documents carry composite keys like "200/202"; accept any
		// key whose components validate so the patcher can normalize later.
		if !validResponseKey(key) {
			return fmt.Errorf("invalid status code '%s' in responses: must be a valid HTTP status code (e.g., \"200\", \"404\"), wildcard pattern (e.g., \"2XX\"), or extension field (e.g., \"x-custom\")", key)
		}
		var resp Response
		if err := yaml.Unmarshal(valueBytes, &resp); err != nil {
			return fmt.Errorf("failed to unmarshal response for status code %s: %w", key, err)
		}
		r.Codes[key] = &resp
	}

	return nil
}

// validResponseKey accepts standard status keys plus slash-joined
// composites of standard keys (a known vendor quirk).
func validResponseKey(key string) bool {
	if httputil.ValidateStatusCode(key) {
		return true
	}
	start := 0
	for i := 0; i <= len(key); i++ {
		if i == len(key) || key[i] == '/' {
			if !httputil.ValidateStatusCode(key[start:i]) {
				return false
			}
			start = i + 1
		}
	}
	return start > 0
}

// Response describes a single response from an API Operation
type Response struct {
	Ref string `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	// Description uses omitempty because responses can be defined via $ref.
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Headers     map[string]*Header    `yaml:"headers,omitempty" json:"headers,omitempty"`
	Content     map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"` // OAS 3.0
	// OAS 2.0 specific
	Schema   *Schema        `yaml:"schema,omitempty" json:"schema,omitempty"`     // OAS 2.0
	Examples map[string]any `yaml:"examples,omitempty" json:"examples,omitempty"` // OAS 2.0
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// JSONContent returns the application/json media type for the response,
// or nil when the response declares no JSON content.
func (r *Response) JSONContent() *MediaType {
	if r == nil || r.Content == nil {
		return nil
	}
	return r.Content[MediaTypeJSON]
}

// MediaTypeJSON is the JSON content type key used throughout the toolchain.
const MediaTypeJSON = "application/json"

// MediaType provides schema and examples for the media type (OAS 3.0)
type MediaType struct {
	Schema   *Schema             `yaml:"schema,omitempty" json:"schema,omitempty"`
	Example  any                 `yaml:"example,omitempty" json:"example,omitempty"`
	Examples map[string]*Example `yaml:"examples,omitempty" json:"examples,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Example represents an example object (OAS 3.0)
type Example struct {
	Ref         string `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Summary     string `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Value       any    `yaml:"value,omitempty" json:"value,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}
