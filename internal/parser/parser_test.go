package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, html string) *Document {
	t.Helper()
	doc, err := ParseHTML("https://example.com/page/", []byte(html))
	require.NoError(t, err)
	return doc
}

func TestParseHeadExtraction(t *testing.T) {
	doc := parse(t, `<!DOCTYPE html>
<html lang="en-US">
<head>
<meta charset="utf-8">
<meta name="description" content=" Spaced description ">
<meta name="robots" content="index,follow">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta property="og:title" content="OG Title">
<meta name="twitter:card" content="summary">
<link rel="canonical" href="https://example.com/canonical">
<title>  The   Title  </title>
</head>
<body></body>
</html>`)

	assert.Equal(t, "The Title", doc.Title)
	assert.Equal(t, "Spaced description", doc.MetaDescription)
	assert.Equal(t, "index,follow", doc.MetaRobots)
	assert.Equal(t, "width=device-width, initial-scale=1", doc.Viewport)
	assert.Equal(t, "utf-8", doc.Charset)
	assert.Equal(t, "en-US", doc.Language)
	assert.Equal(t, "https://example.com/canonical", doc.Canonical)
	assert.Equal(t, "OG Title", doc.OpenGraph["og:title"])
	assert.Equal(t, "summary", doc.TwitterCard["twitter:card"])
}

func TestParseFirstTitleWins(t *testing.T) {
	doc := parse(t, `<html><head><title>First</title><title>Second</title></head><body></body></html>`)
	assert.Equal(t, "First", doc.Title)
}

func TestParseCharsetFromHTTPEquiv(t *testing.T) {
	doc := parse(t, `<html><head>
<meta http-equiv="Content-Type" content="text/html; charset=ISO-8859-1">
</head><body></body></html>`)
	assert.Equal(t, "ISO-8859-1", doc.Charset)
}

func TestParseImageAttributes(t *testing.T) {
	doc := parse(t, `<html><body>
<img src="logo.png" alt="Logo" width="100" height="50" loading="lazy">
<img src="/abs.png" alt="">
<img src="bare.png">
</body></html>`)

	require.Len(t, doc.Images, 3)

	assert.Equal(t, "https://example.com/page/logo.png", doc.Images[0].Src)
	assert.Equal(t, "Logo", doc.Images[0].Alt)
	assert.True(t, doc.Images[0].HasAlt)
	assert.Equal(t, "100", doc.Images[0].Width)
	assert.Equal(t, "lazy", doc.Images[0].Loading)

	assert.Equal(t, "https://example.com/abs.png", doc.Images[1].Src)
	assert.True(t, doc.Images[1].HasAlt)
	assert.Empty(t, doc.Images[1].Alt)

	assert.False(t, doc.Images[2].HasAlt)
}

func TestParseAnchors(t *testing.T) {
	doc := parse(t, `<html><body>
<a href="/about" rel="NOFOLLOW" target="_blank">About <b>us</b></a>
<a href="/pic"><img src="i.png" alt="icon"></a>
<a>no href</a>
</body></html>`)

	require.Len(t, doc.Anchors, 2)
	assert.Equal(t, "/about", doc.Anchors[0].Href)
	assert.Equal(t, "About us", doc.Anchors[0].Text)
	assert.Equal(t, "nofollow", doc.Anchors[0].Rel)
	assert.Equal(t, "_blank", doc.Anchors[0].Target)
	assert.True(t, doc.Anchors[1].HasImage)
}

func TestParseBaseHref(t *testing.T) {
	doc := parse(t, `<html><head><base href="https://cdn.example.net/assets/"></head><body>
<img src="pic.png" alt="p">
</body></html>`)

	require.Len(t, doc.Images, 1)
	assert.Equal(t, "https://cdn.example.net/assets/pic.png", doc.Images[0].Src)
}

func TestParseJSONLDAndMicrodata(t *testing.T) {
	doc := parse(t, `<html><head>
<script type="application/ld+json">{"@type":"Organization"}</script>
<script type="text/javascript">var notLD = true;</script>
</head><body>
<div itemscope itemtype="https://schema.org/Product"></div>
</body></html>`)

	require.Len(t, doc.JSONLD, 1)
	assert.Contains(t, doc.JSONLD[0], "Organization")
	assert.Equal(t, []string{"https://schema.org/Product"}, doc.ItemTypes)
}

func TestParseTextContentBodyOnly(t *testing.T) {
	doc := parse(t, `<html><head><title>Head Words Here</title></head><body>
<p>one two</p>
</body></html>`)

	assert.Equal(t, 2, doc.WordCount)
	assert.NotContains(t, doc.TextContent, "Head")
}

func TestParseWordCountSkipsScripts(t *testing.T) {
	doc := parse(t, `<html><body>
<p>one two three</p>
<script>var ignored = "zzz";</script>
</body></html>`)

	assert.Equal(t, 3, doc.WordCount)
}

func TestResolveURL(t *testing.T) {
	p, err := New("https://example.com/dir/page.html")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/other", p.ResolveURL("/other"))
	assert.Equal(t, "https://example.com/dir/rel", p.ResolveURL("rel"))
	assert.Equal(t, "https://other.org/x", p.ResolveURL("https://other.org/x"))
	assert.Empty(t, p.ResolveURL(""))
}

func TestBaseHost(t *testing.T) {
	p, err := New("https://WWW.Example.COM:8080/page")
	require.NoError(t, err)
	assert.Equal(t, "www.example.com", p.BaseHost())
}
