package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaJSONLDTypeExtraction(t *testing.T) {
	html := `<html lang="en"><head><title>t</title>
<script type="application/ld+json">{"@context":"https://schema.org","@type":"Organization","name":"Acme"}</script>
</head><body></body></html>`
	result := analyzeHTML(t, html)

	require.True(t, result.Schema.HasSchema)
	require.Len(t, result.Schema.Schemas, 1)
	assert.Equal(t, "Organization", result.Schema.Schemas[0].Type)
	assert.Equal(t, FormatJSONLD, result.Schema.Schemas[0].Format)
	assert.Equal(t, 1, result.Schema.JSONLDCount)
	assert.Empty(t, result.Schema.Issues)
}

func TestSchemaGraphNesting(t *testing.T) {
	html := `<html lang="en"><head><title>t</title>
<script type="application/ld+json">{"@graph":[{"@type":"WebSite"},{"@type":["Article","BlogPosting"]}]}</script>
</head><body></body></html>`
	result := analyzeHTML(t, html)

	types := make([]string, 0)
	for _, s := range result.Schema.Schemas {
		types = append(types, s.Type)
	}
	assert.Equal(t, []string{"WebSite", "Article", "BlogPosting"}, types)
}

func TestSchemaInvalidJSONContinues(t *testing.T) {
	html := `<html lang="en"><head><title>t</title>
<script type="application/ld+json">{not valid json</script>
<script type="application/ld+json">{"@type":"Product"}</script>
</head><body></body></html>`
	result := analyzeHTML(t, html)

	issue := findIssue(result.Schema.Issues, IssueInvalidJSON, "")
	require.NotNil(t, issue)
	assert.Equal(t, SeverityCritical, issue.Severity)

	// The valid block is still extracted.
	require.Len(t, result.Schema.Schemas, 1)
	assert.Equal(t, "Product", result.Schema.Schemas[0].Type)
}

func TestSchemaMicrodataLastPathSegment(t *testing.T) {
	html := `<html lang="en"><head><title>t</title></head><body>
<div itemscope itemtype="https://schema.org/LocalBusiness"></div>
</body></html>`
	result := analyzeHTML(t, html)

	require.Len(t, result.Schema.Schemas, 1)
	assert.Equal(t, "LocalBusiness", result.Schema.Schemas[0].Type)
	assert.Equal(t, FormatMicrodata, result.Schema.Schemas[0].Format)
	assert.Equal(t, 1, result.Schema.MicrodataCount)
}

func TestSchemaMissingIsWarning(t *testing.T) {
	html := `<html lang="en"><head><title>t</title></head><body></body></html>`
	result := analyzeHTML(t, html)

	assert.False(t, result.Schema.HasSchema)
	issue := findIssue(result.Schema.Issues, IssueMissingSchema, "")
	require.NotNil(t, issue)
	assert.Equal(t, SeverityWarning, issue.Severity)
}

func TestSchemaAnalysisIsIdempotent(t *testing.T) {
	html := `<html lang="en"><head><title>t</title>
<script type="application/ld+json">{"@type":"Organization"}</script>
</head><body>
<div itemscope itemtype="https://schema.org/Product"></div>
</body></html>`

	first := analyzeHTML(t, html)
	second := analyzeHTML(t, html)

	assert.Equal(t, first.Schema.Schemas, second.Schema.Schemas)
	assert.Equal(t, first.Schema.Issues, second.Schema.Issues)
}
