package parser

// Parameter describes a single operation parameter
type Parameter struct {
	Ref string `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	// Name and In use omitempty because parameters can be defined via $ref.
	// When a parameter uses $ref, these fields should be empty in the
	// referencing object (the actual values are in the referenced definition).
	Name        string `yaml:"name,omitempty" json:"name,omitempty"`
	In          string `yaml:"in,omitempty" json:"in,omitempty"` // "query", "header", "path", "cookie" (OAS 3.0), "formData", "body" (OAS 2.0)
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool   `yaml:"required,omitempty" json:"required,omitempty"`

	// OAS 3.0 fields
	Schema  *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`
	Example any     `yaml:"example,omitempty" json:"example,omitempty"`

	// OAS 2.0 fields
	Type             string `yaml:"type,omitempty" json:"type,omitempty"`                         // OAS 2.0
	Format           string `yaml:"format,omitempty" json:"format,omitempty"`                     // OAS 2.0
	Items            *Items `yaml:"items,omitempty" json:"items,omitempty"`                       // OAS 2.0
	CollectionFormat string `yaml:"collectionFormat,omitempty" json:"collectionFormat,omitempty"` // OAS 2.0
	Default          any    `yaml:"default,omitempty" json:"default,omitempty"`                   // OAS 2.0
	Enum             []any  `yaml:"enum,omitempty" json:"enum,omitempty"`                         // OAS 2.0

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Items represents the items object for array parameters (OAS 2.0)
type Items struct {
	Type             string         `yaml:"type" json:"type"`
	Format           string         `yaml:"format,omitempty" json:"format,omitempty"`
	Items            *Items         `yaml:"items,omitempty" json:"items,omitempty"`
	CollectionFormat string         `yaml:"collectionFormat,omitempty" json:"collectionFormat,omitempty"`
	Default          any            `yaml:"default,omitempty" json:"default,omitempty"`
	Enum             []any          `yaml:"enum,omitempty" json:"enum,omitempty"`
	Extra            map[string]any `yaml:",inline" json:"-"`
}

// RequestBody describes a single request body (OAS 3.0)
type RequestBody struct {
	Ref         string `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	// Content uses omitempty because request bodies can be defined via $ref.
	Content  map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`
	Required bool                  `yaml:"required,omitempty" json:"required,omitempty"`
	Extra    map[string]any        `yaml:",inline" json:"-"`
}

// JSONContent returns the application/json media type for the request
// body, or nil when none is declared.
func (rb *RequestBody) JSONContent() *MediaType {
	if rb == nil || rb.Content == nil {
		return nil
	}
	return rb.Content[MediaTypeJSON]
}

// Header represents a response header object
type Header struct {
	Ref         string `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool   `yaml:"required,omitempty" json:"required,omitempty"`

	// OAS 3.0 fields
	Schema *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`

	// OAS 2.0 fields
	Type   string `yaml:"type,omitempty" json:"type,omitempty"`     // OAS 2.0
	Format string `yaml:"format,omitempty" json:"format,omitempty"` // OAS 2.0
	Items  *Items `yaml:"items,omitempty" json:"items,omitempty"`   // OAS 2.0

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}
