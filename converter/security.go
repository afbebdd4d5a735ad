package converter

import (
	"fmt"
	"sort"

	"github.com/specmend/specmend/parser"
)

// convertSecurityDefinitions maps OAS 2.0 securityDefinitions to OAS 3.0
// securitySchemes. "basic" becomes the http scheme, apiKey carries over
// unchanged, and oauth2 flow fields are restructured under "flows".
func (c *Converter) convertSecurityDefinitions(src *parser.OAS2Document, dst *parser.OAS3Document, result *ConversionResult) {
	names := make([]string, 0, len(src.SecurityDefinitions))
	for name := range src.SecurityDefinitions {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := src.SecurityDefinitions[name]
		if def == nil {
			continue
		}
		nodePath := fmt.Sprintf("securityDefinitions.%s", name)

		scheme := &parser.SecurityScheme{
			Description: def.Description,
		}
		switch def.Type {
		case "basic":
			scheme.Type = "http"
			scheme.Scheme = "basic"
		case "apiKey":
			scheme.Type = "apiKey"
			scheme.Name = def.Name
			scheme.In = def.In
		case "oauth2":
			scheme.Type = "oauth2"
			scheme.Flows = convertOAuth2Flows(def)
		default:
			c.addIssue(result, nodePath,
				fmt.Sprintf("unknown security scheme type %q, carried over unchanged", def.Type),
				SeverityWarning)
			scheme = def
		}
		dst.Components.SecuritySchemes[name] = scheme
	}
}

// oas2FlowNames maps OAS 2.0 oauth2 flow names to their OAS 3.0
// equivalents. "accessCode" and "application" were renamed.
var oas2FlowNames = map[string]string{
	"implicit":    "implicit",
	"password":    "password",
	"application": "clientCredentials",
	"accessCode":  "authorizationCode",
}

// convertOAuth2Flows restructures a single OAS 2.0 oauth2 definition
// (flow, authorizationUrl, tokenUrl, scopes at the top level) into the
// OAS 3.0 flows object keyed by flow name.
func convertOAuth2Flows(def *parser.SecurityScheme) map[string]any {
	flowName, _ := def.Extra["flow"].(string)
	target, ok := oas2FlowNames[flowName]
	if !ok {
		target = flowName
	}

	flow := map[string]any{}
	if url, ok := def.Extra["authorizationUrl"]; ok {
		flow["authorizationUrl"] = url
	}
	if url, ok := def.Extra["tokenUrl"]; ok {
		flow["tokenUrl"] = url
	}
	if scopes, ok := def.Extra["scopes"]; ok {
		flow["scopes"] = scopes
	} else {
		flow["scopes"] = map[string]any{}
	}
	return map[string]any{target: flow}
}
