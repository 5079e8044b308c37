package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImagesMissingAltIsCritical(t *testing.T) {
	html := `<html lang="en"><head><title>t</title></head><body>
<img src="/a.png" width="10" height="10">
</body></html>`
	result := analyzeHTML(t, html)

	require.Equal(t, 1, result.Images.Total)
	assert.Equal(t, 1, result.Images.WithoutAlt)
	assert.Equal(t, 0, result.Images.WithAlt)

	issue := findIssue(result.Images.Issues, IssueMissingAlt, "")
	require.NotNil(t, issue)
	assert.Equal(t, SeverityCritical, issue.Severity)
}

func TestImagesEmptyAltIsDecorative(t *testing.T) {
	html := `<html lang="en"><head><title>t</title></head><body>
<img src="/a.png" alt="" width="10" height="10">
</body></html>`
	result := analyzeHTML(t, html)

	require.Equal(t, 1, result.Images.Total)
	assert.Equal(t, 1, result.Images.Decorative)
	assert.Equal(t, 0, result.Images.WithoutAlt)
	assert.Equal(t, 0, result.Images.WithAlt)
	assert.Nil(t, findIssue(result.Images.Issues, IssueMissingAlt, ""))
}

func TestImagesWithAltCounted(t *testing.T) {
	html := `<html lang="en"><head><title>t</title></head><body>
<img src="/a.png" alt="A chart" width="10" height="10">
<img src="/b.png" alt="" width="10" height="10">
<img src="/c.png" width="10" height="10">
</body></html>`
	result := analyzeHTML(t, html)

	assert.Equal(t, 3, result.Images.Total)
	assert.Equal(t, 1, result.Images.WithAlt)
	assert.Equal(t, 1, result.Images.Decorative)
	assert.Equal(t, 1, result.Images.WithoutAlt)
}

func TestImagesMissingDimensions(t *testing.T) {
	html := `<html lang="en"><head><title>t</title></head><body>
<img src="/a.png" alt="ok" width="10">
</body></html>`
	result := analyzeHTML(t, html)

	issue := findIssue(result.Images.Issues, IssueMissingDims, "")
	require.NotNil(t, issue)
	assert.Equal(t, SeverityWarning, issue.Severity)
}

func TestImagesSrcResolvedAgainstBase(t *testing.T) {
	html := `<html lang="en"><head><title>t</title></head><body>
<img src="/img/logo.png" alt="logo" width="10" height="10">
</body></html>`
	result := analyzeHTML(t, html)

	require.Len(t, result.Images.Images, 1)
	assert.Equal(t, "https://example.com/img/logo.png", result.Images.Images[0].Src)
}
