package parser

// Info provides metadata about the API
type Info struct {
	Title          string   `yaml:"title" json:"title"`
	Description    string   `yaml:"description,omitempty" json:"description,omitempty"`
	TermsOfService string   `yaml:"termsOfService,omitempty" json:"termsOfService,omitempty"`
	Contact        *Contact `yaml:"contact,omitempty" json:"contact,omitempty"`
	License        *License `yaml:"license,omitempty" json:"license,omitempty"`
	Version        string   `yaml:"version" json:"version"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Contact information for the exposed API
type Contact struct {
	Name  string `yaml:"name,omitempty" json:"name,omitempty"`
	URL   string `yaml:"url,omitempty" json:"url,omitempty"`
	Email string `yaml:"email,omitempty" json:"email,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// License information for the exposed API
type License struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url,omitempty" json:"url,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// ExternalDocs allows referencing external documentation
type ExternalDocs struct {
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	URL         string `yaml:"url" json:"url"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Tag adds metadata to a single tag used by operations
type Tag struct {
	Name         string        `yaml:"name" json:"name"`
	Description  string        `yaml:"description,omitempty" json:"description,omitempty"`
	ExternalDocs *ExternalDocs `yaml:"externalDocs,omitempty" json:"externalDocs,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Server represents a Server object (OAS 3.0)
type Server struct {
	URL         string `yaml:"url" json:"url"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// SecurityRequirement lists the required security schemes for an operation
type SecurityRequirement map[string][]string

// SecurityScheme defines a security scheme usable by operations
type SecurityScheme struct {
	Ref          string         `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Type         string         `yaml:"type,omitempty" json:"type,omitempty"` // "apiKey", "http", "oauth2", "basic"
	Description  string         `yaml:"description,omitempty" json:"description,omitempty"`
	Name         string         `yaml:"name,omitempty" json:"name,omitempty"` // apiKey
	In           string         `yaml:"in,omitempty" json:"in,omitempty"`     // apiKey: "query" or "header"
	Scheme       string         `yaml:"scheme,omitempty" json:"scheme,omitempty"`
	BearerFormat string         `yaml:"bearerFormat,omitempty" json:"bearerFormat,omitempty"`
	Flows        map[string]any `yaml:"flows,omitempty" json:"flows,omitempty"`
	// Extra captures specification extensions and OAuth2 flow fields
	Extra map[string]any `yaml:",inline" json:"-"`
}
