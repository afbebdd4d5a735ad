package parser

// DocumentStats contains statistical information about a parsed document
type DocumentStats struct {
	// PathCount is the number of path patterns in the document
	PathCount int
	// OperationCount is the number of operations across all paths
	OperationCount int
	// SchemaCount is the number of named schemas (definitions or
	// components.schemas depending on version)
	SchemaCount int
	// ParameterCount is the number of named reusable parameters
	ParameterCount int
}

// collectStats gathers document statistics for a parse result.
func collectStats(result *ParseResult) DocumentStats {
	var stats DocumentStats

	countPaths := func(paths Paths) {
		stats.PathCount = len(paths)
		for _, pathItem := range paths {
			if pathItem == nil {
				continue
			}
			for _, op := range GetOperations(pathItem) {
				if op != nil {
					stats.OperationCount++
				}
			}
		}
	}

	switch doc := result.Document.(type) {
	case *OAS2Document:
		countPaths(doc.Paths)
		stats.SchemaCount = len(doc.Definitions)
		stats.ParameterCount = len(doc.Parameters)
	case *OAS3Document:
		countPaths(doc.Paths)
		if doc.Components != nil {
			stats.SchemaCount = len(doc.Components.Schemas)
			stats.ParameterCount = len(doc.Components.Parameters)
		}
	}

	return stats
}
