package parser

// Schema represents a structural type descriptor for a JSON value.
// Covers the subset of JSON Schema used by OAS 2.0 and OAS 3.0 documents.
type Schema struct {
	// Ref defers all structural meaning to the referenced node.
	// A node with Ref set is not evaluated for its own fields.
	Ref string `yaml:"$ref,omitempty" json:"$ref,omitempty"`

	// Metadata
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Default     any    `yaml:"default,omitempty" json:"default,omitempty"`

	// Type validation
	Type   any    `yaml:"type,omitempty" json:"type,omitempty"` // string or []string
	Enum   []any  `yaml:"enum,omitempty" json:"enum,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"` // e.g., "date-time", "int64"

	// Array validation
	Items *Schema `yaml:"items,omitempty" json:"items,omitempty"`

	// Object validation
	Properties           map[string]*Schema `yaml:"properties,omitempty" json:"properties,omitempty"`
	AdditionalProperties any                `yaml:"additionalProperties,omitempty" json:"additionalProperties,omitempty"` // *Schema or bool
	Required             []string           `yaml:"required,omitempty" json:"required,omitempty"`

	// Schema composition
	AllOf []*Schema `yaml:"allOf,omitempty" json:"allOf,omitempty"`
	AnyOf []*Schema `yaml:"anyOf,omitempty" json:"anyOf,omitempty"`
	OneOf []*Schema `yaml:"oneOf,omitempty" json:"oneOf,omitempty"`

	// OAS specific
	Nullable bool `yaml:"nullable,omitempty" json:"nullable,omitempty"` // OAS 3.0
	ReadOnly bool `yaml:"readOnly,omitempty" json:"readOnly,omitempty"`
	Example  any  `yaml:"example,omitempty" json:"example,omitempty"`

	// Extra captures specification extensions (fields starting with "x-")
	// and any other fields not explicitly defined in the struct
	Extra map[string]any `yaml:",inline" json:"-"`
}

// TypeNames returns the declared type(s) of the schema as a string slice.
// A scalar "type: string" yields one entry; "type: [string, null]" yields
// all entries; an absent type yields nil.
func (s *Schema) TypeNames() []string {
	switch t := s.Type.(type) {
	case string:
		return []string{t}
	case []any:
		names := make([]string, 0, len(t))
		for _, v := range t {
			if name, ok := v.(string); ok {
				names = append(names, name)
			}
		}
		return names
	case []string:
		return t
	default:
		return nil
	}
}

// HasType reports whether the schema declares the given type name.
func (s *Schema) HasType(name string) bool {
	for _, t := range s.TypeNames() {
		if t == name {
			return true
		}
	}
	return false
}

// AdditionalPropertiesSchema returns the schema governing undeclared
// object keys, if one is declared. A bare "additionalProperties: true"
// returns (nil, true); "additionalProperties: false" or an absent field
// returns (nil, false).
func (s *Schema) AdditionalPropertiesSchema() (*Schema, bool) {
	switch ap := s.AdditionalProperties.(type) {
	case *Schema:
		return ap, true
	case bool:
		return nil, ap
	case map[string]any:
		// Decoded generically (e.g., from an override document); re-shape
		// into a Schema so callers get structural checking.
		child := schemaFromMap(ap)
		if child != nil {
			return child, true
		}
		return nil, true
	default:
		return nil, false
	}
}

// AllowsAdditionalProperties reports whether undeclared object keys are
// explicitly permitted.
func (s *Schema) AllowsAdditionalProperties() bool {
	_, ok := s.AdditionalPropertiesSchema()
	return ok
}
