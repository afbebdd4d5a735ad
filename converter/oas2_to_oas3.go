package converter

import (
	"fmt"

	"github.com/specmend/specmend/parser"
)

// convertOAS2ToOAS3 converts a Swagger 2.0 document to OpenAPI 3.0
func (c *Converter) convertOAS2ToOAS3(src *parser.OAS2Document, result *ConversionResult) error {
	dst := &parser.OAS3Document{
		OpenAPI:      TargetVersion,
		Info:         src.Info,
		Servers:      c.convertServers(src, result),
		Paths:        make(parser.Paths, len(src.Paths)),
		Tags:         src.Tags,
		ExternalDocs: src.ExternalDocs,
	}

	// Convert reusable components
	if src.Definitions != nil || src.Parameters != nil || src.Responses != nil || src.SecurityDefinitions != nil {
		dst.Components = &parser.Components{
			Schemas:         make(map[string]*parser.Schema),
			Parameters:      make(map[string]*parser.Parameter),
			Responses:       make(map[string]*parser.Response),
			SecuritySchemes: make(map[string]*parser.SecurityScheme),
		}

		for name, schema := range src.Definitions {
			dst.Components.Schemas[name] = schema
		}

		for name, param := range src.Parameters {
			dst.Components.Parameters[name] = c.convertParameter(param, src, result, fmt.Sprintf("parameters.%s", name))
		}

		for name, response := range src.Responses {
			dst.Components.Responses[name] = c.convertResponse(response, src.Produces)
		}

		c.convertSecurityDefinitions(src, dst, result)
	}

	// Convert paths
	for _, pathPattern := range parser.SortedPaths(src.Paths) {
		pathItem := src.Paths[pathPattern]
		if pathItem == nil {
			continue
		}
		dst.Paths[pathPattern] = c.convertPathItem(pathItem, src, result, fmt.Sprintf("paths.%s", pathPattern))
	}

	// Global security requirements are compatible as-is
	if len(src.Security) > 0 {
		dst.Security = src.Security
	}

	// Rewrite all $ref pointers from #/definitions to #/components/schemas
	rewriteRefs(dst)

	result.Document = dst
	return nil
}

// convertServers converts OAS 2.0 host/basePath/schemes to OAS 3.0 servers
func (c *Converter) convertServers(src *parser.OAS2Document, result *ConversionResult) []*parser.Server {
	if src.Host == "" {
		c.addIssue(result, "servers", "no host specified in Swagger 2.0 document, using default server", SeverityInfo)
		return []*parser.Server{{URL: "/", Description: "Default server"}}
	}

	schemes := src.Schemes
	if len(schemes) == 0 {
		schemes = []string{"https"}
	}

	basePath := src.BasePath
	if basePath == "" {
		basePath = "/"
	}

	servers := make([]*parser.Server, 0, len(schemes))
	for _, scheme := range schemes {
		servers = append(servers, &parser.Server{
			URL: fmt.Sprintf("%s://%s%s", scheme, src.Host, basePath),
		})
	}
	return servers
}

// convertPathItem converts a Swagger 2.0 path item to OAS 3.0
func (c *Converter) convertPathItem(src *parser.PathItem, doc *parser.OAS2Document, result *ConversionResult, pathPrefix string) *parser.PathItem {
	if src == nil {
		return nil
	}

	dst := &parser.PathItem{
		Summary:     src.Summary,
		Description: src.Description,
	}
	for _, param := range src.Parameters {
		dst.Parameters = append(dst.Parameters, c.convertParameter(param, doc, result, fmt.Sprintf("%s.parameters", pathPrefix)))
	}

	if src.Get != nil {
		dst.Get = c.convertOperation(src.Get, doc, result, fmt.Sprintf("%s.get", pathPrefix))
	}
	if src.Put != nil {
		dst.Put = c.convertOperation(src.Put, doc, result, fmt.Sprintf("%s.put", pathPrefix))
	}
	if src.Post != nil {
		dst.Post = c.convertOperation(src.Post, doc, result, fmt.Sprintf("%s.post", pathPrefix))
	}
	if src.Delete != nil {
		dst.Delete = c.convertOperation(src.Delete, doc, result, fmt.Sprintf("%s.delete", pathPrefix))
	}
	if src.Options != nil {
		dst.Options = c.convertOperation(src.Options, doc, result, fmt.Sprintf("%s.options", pathPrefix))
	}
	if src.Head != nil {
		dst.Head = c.convertOperation(src.Head, doc, result, fmt.Sprintf("%s.head", pathPrefix))
	}
	if src.Patch != nil {
		dst.Patch = c.convertOperation(src.Patch, doc, result, fmt.Sprintf("%s.patch", pathPrefix))
	}

	return dst
}

// convertOperation converts a Swagger 2.0 operation to OAS 3.0.
// Body and formData parameters become the request body; everything else
// carries over with schema-wrapped types.
func (c *Converter) convertOperation(src *parser.Operation, doc *parser.OAS2Document, result *ConversionResult, opPath string) *parser.Operation {
	dst := &parser.Operation{
		Tags:         src.Tags,
		Summary:      src.Summary,
		Description:  src.Description,
		ExternalDocs: src.ExternalDocs,
		OperationID:  src.OperationID,
		Deprecated:   src.Deprecated,
		Security:     src.Security,
		Extra:        src.Extra,
	}

	consumes := src.Consumes
	if len(consumes) == 0 {
		consumes = doc.Consumes
	}

	var formParams []*parser.Parameter
	for _, param := range src.Parameters {
		if param == nil {
			continue
		}
		switch param.In {
		case parser.ParamInBody:
			dst.RequestBody = c.convertBodyParameter(param, consumes)
		case parser.ParamInForm:
			formParams = append(formParams, param)
		default:
			dst.Parameters = append(dst.Parameters, c.convertParameter(param, doc, result, fmt.Sprintf("%s.parameters", opPath)))
		}
	}
	if len(formParams) > 0 {
		dst.RequestBody = c.convertFormParameters(formParams, consumes)
		c.addIssue(result, opPath, "formData parameters converted to a form request body", SeverityInfo)
	}

	produces := src.Produces
	if len(produces) == 0 {
		produces = doc.Produces
	}

	if src.Responses != nil {
		dst.Responses = &parser.Responses{Codes: make(map[string]*parser.Response, len(src.Responses.Codes))}
		for code, resp := range src.Responses.Codes {
			dst.Responses.Codes[code] = c.convertResponse(resp, produces)
		}
		if src.Responses.Default != nil {
			dst.Responses.Default = c.convertResponse(src.Responses.Default, produces)
		}
	}

	return dst
}

// convertBodyParameter converts an OAS 2.0 body parameter to a request body
func (c *Converter) convertBodyParameter(param *parser.Parameter, consumes []string) *parser.RequestBody {
	if len(consumes) == 0 {
		consumes = []string{parser.MediaTypeJSON}
	}
	content := make(map[string]*parser.MediaType, len(consumes))
	for _, mediaType := range consumes {
		content[mediaType] = &parser.MediaType{Schema: param.Schema}
	}
	return &parser.RequestBody{
		Description: param.Description,
		Required:    param.Required,
		Content:     content,
	}
}

// convertFormParameters collapses formData parameters into a single
// object-typed request body.
func (c *Converter) convertFormParameters(params []*parser.Parameter, consumes []string) *parser.RequestBody {
	properties := make(map[string]*parser.Schema, len(params))
	var required []string
	for _, param := range params {
		properties[param.Name] = &parser.Schema{
			Type:        param.Type,
			Format:      param.Format,
			Description: param.Description,
		}
		if param.Required {
			required = append(required, param.Name)
		}
	}

	mediaType := "application/x-www-form-urlencoded"
	for _, mt := range consumes {
		if mt == "multipart/form-data" {
			mediaType = mt
			break
		}
	}

	return &parser.RequestBody{
		Required: len(required) > 0,
		Content: map[string]*parser.MediaType{
			mediaType: {Schema: &parser.Schema{
				Type:       "object",
				Properties: properties,
				Required:   required,
			}},
		},
	}
}

// convertParameter converts an OAS 2.0 parameter to OAS 3.0 by wrapping
// its bare type fields into a schema.
func (c *Converter) convertParameter(param *parser.Parameter, _ *parser.OAS2Document, _ *ConversionResult, _ string) *parser.Parameter {
	if param == nil {
		return nil
	}
	if param.Ref != "" {
		return &parser.Parameter{Ref: param.Ref}
	}
	dst := &parser.Parameter{
		Name:        param.Name,
		In:          param.In,
		Description: param.Description,
		Required:    param.Required,
		Extra:       param.Extra,
	}
	if param.Schema != nil {
		dst.Schema = param.Schema
		return dst
	}
	if param.Type != "" {
		dst.Schema = &parser.Schema{
			Type:    param.Type,
			Format:  param.Format,
			Enum:    param.Enum,
			Default: param.Default,
		}
		if param.Type == "array" && param.Items != nil {
			dst.Schema.Items = itemsToSchema(param.Items)
		}
	}
	return dst
}

// itemsToSchema converts an OAS 2.0 items object to a schema node
func itemsToSchema(items *parser.Items) *parser.Schema {
	if items == nil {
		return nil
	}
	schema := &parser.Schema{
		Type:    items.Type,
		Format:  items.Format,
		Enum:    items.Enum,
		Default: items.Default,
	}
	if items.Items != nil {
		schema.Items = itemsToSchema(items.Items)
	}
	return schema
}

// convertResponse converts an OAS 2.0 response to OAS 3.0 by moving its
// schema and examples under a content entry per produced media type.
func (c *Converter) convertResponse(src *parser.Response, produces []string) *parser.Response {
	if src == nil {
		return nil
	}
	if src.Ref != "" {
		return &parser.Response{Ref: src.Ref}
	}

	dst := &parser.Response{
		Description: src.Description,
		Headers:     src.Headers,
		Extra:       src.Extra,
	}

	if src.Schema == nil && len(src.Examples) == 0 {
		return dst
	}

	if len(produces) == 0 {
		produces = []string{parser.MediaTypeJSON}
	}

	dst.Content = make(map[string]*parser.MediaType, len(produces))
	for _, mediaType := range produces {
		mt := &parser.MediaType{Schema: src.Schema}
		// OAS 2.0 keys examples by media type; carry the matching one over
		if example, ok := src.Examples[mediaType]; ok {
			mt.Example = example
		}
		dst.Content[mediaType] = mt
	}

	return dst
}
