package analyzer

import (
	"encoding/json"
	"strings"

	"github.com/seoscan/seoscan/internal/parser"
)

// Structured data formats.
const (
	FormatJSONLD    = "json-ld"
	FormatMicrodata = "microdata"
)

// analyzeSchema scans JSON-LD script blocks and microdata itemtype
// attributes. A malformed JSON-LD block becomes an issue rather than
// aborting the facet.
func analyzeSchema(doc *parser.Document) *SchemaResult {
	result := &SchemaResult{
		Schemas: make([]SchemaInfo, 0),
		Issues:  make([]FacetIssue, 0),
	}

	for _, block := range doc.JSONLD {
		var data interface{}
		if err := json.Unmarshal([]byte(block), &data); err != nil {
			result.Issues = append(result.Issues, FacetIssue{
				Type:     IssueInvalidJSON,
				Message:  "Invalid JSON-LD structured data found",
				Severity: SeverityCritical,
			})
			continue
		}

		for _, t := range extractSchemaTypes(data) {
			result.Schemas = append(result.Schemas, SchemaInfo{
				Type:   t,
				Format: FormatJSONLD,
			})
		}
	}

	for _, itemtype := range doc.ItemTypes {
		// The type name is the final path segment of the itemtype URI.
		name := itemtype
		if idx := strings.LastIndex(strings.TrimRight(itemtype, "/"), "/"); idx != -1 {
			name = strings.TrimRight(itemtype, "/")[idx+1:]
		}
		result.Schemas = append(result.Schemas, SchemaInfo{
			Type:   name,
			Format: FormatMicrodata,
		})
	}

	for _, s := range result.Schemas {
		switch s.Format {
		case FormatJSONLD:
			result.JSONLDCount++
		case FormatMicrodata:
			result.MicrodataCount++
		}
	}

	result.HasSchema = len(result.Schemas) > 0
	if !result.HasSchema {
		result.Issues = append(result.Issues, FacetIssue{
			Type:     IssueMissingSchema,
			Message:  "No structured data (Schema.org) found on the page",
			Severity: SeverityWarning,
		})
	}

	return result
}

// extractSchemaTypes recursively extracts @type values, handling
// arrays and @graph nesting.
func extractSchemaTypes(data interface{}) []string {
	types := make([]string, 0)

	switch v := data.(type) {
	case map[string]interface{}:
		if t, ok := v["@type"]; ok {
			switch tt := t.(type) {
			case string:
				types = append(types, tt)
			case []interface{}:
				for _, item := range tt {
					if str, ok := item.(string); ok {
						types = append(types, str)
					}
				}
			}
		}
		if graph, ok := v["@graph"]; ok {
			types = append(types, extractSchemaTypes(graph)...)
		}
	case []interface{}:
		for _, item := range v {
			types = append(types, extractSchemaTypes(item)...)
		}
	}

	return types
}
