// Package parser handles HTML parsing and data extraction.
package parser

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Document contains all extracted data from an HTML page.
type Document struct {
	// Title tag content
	Title string

	// Meta description
	MetaDescription string

	// Meta robots content
	MetaRobots string

	// Canonical URL
	Canonical string

	// Viewport meta content
	Viewport string

	// Charset from <meta charset> or http-equiv Content-Type
	Charset string

	// Language from html lang attribute
	Language string

	// Open Graph data (og:title, og:description, og:image, ...)
	OpenGraph map[string]string

	// Twitter Card data
	TwitterCard map[string]string

	// Headings in document order
	Headings []Heading

	// Images found on page
	Images []Image

	// Anchors found on page
	Anchors []Anchor

	// Raw JSON-LD script bodies
	JSONLD []string

	// itemtype attribute values (microdata)
	ItemTypes []string

	// Word count (visible text)
	WordCount int

	// Visible body text content
	TextContent string
}

// Heading represents a heading element in document order.
type Heading struct {
	Level int
	Text  string
	Order int
}

// Image represents an image found on the page.
type Image struct {
	Src     string
	Alt     string
	HasAlt  bool // alt attribute present (may be empty)
	Width   string
	Height  string
	Loading string
}

// Anchor represents an anchor tag with an href.
type Anchor struct {
	Href     string
	Text     string
	Rel      string
	Target   string
	HasImage bool // contains an <img> child
}

// Parser parses HTML content.
type Parser struct {
	baseURL *url.URL
}

// New creates a new HTML parser resolving relative URLs against baseURL.
func New(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// Parse parses HTML content and extracts document data.
func (p *Parser) Parse(htmlContent []byte) (*Document, error) {
	root, err := html.Parse(bytes.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	doc := &Document{
		OpenGraph:   make(map[string]string),
		TwitterCard: make(map[string]string),
		Headings:    make([]Heading, 0),
		Images:      make([]Image, 0),
		Anchors:     make([]Anchor, 0),
		JSONLD:      make([]string, 0),
		ItemTypes:   make([]string, 0),
	}

	var textBuilder strings.Builder
	p.traverse(root, doc, &textBuilder, false)

	doc.TextContent = strings.TrimSpace(textBuilder.String())
	doc.WordCount = len(strings.Fields(doc.TextContent))

	return doc, nil
}

// traverse recursively walks the HTML tree. Visible text is collected
// only inside the body subtree.
func (p *Parser) traverse(n *html.Node, doc *Document, textBuilder *strings.Builder, inBody bool) {
	if n.Type == html.ElementNode {
		if n.Data == "body" {
			inBody = true
		}
		if itemtype := getAttr(n, "itemtype"); itemtype != "" {
			doc.ItemTypes = append(doc.ItemTypes, itemtype)
		}

		switch n.Data {
		case "html":
			doc.Language = strings.TrimSpace(getAttr(n, "lang"))

		case "base":
			if href := getAttr(n, "href"); href != "" {
				if u, err := url.Parse(href); err == nil {
					p.baseURL = p.baseURL.ResolveReference(u)
				}
			}

		case "title":
			if doc.Title == "" {
				doc.Title = normalizeSpace(getTextContent(n))
			}

		case "meta":
			p.parseMeta(n, doc)

		case "link":
			if strings.EqualFold(getAttr(n, "rel"), "canonical") {
				doc.Canonical = strings.TrimSpace(getAttr(n, "href"))
			}

		case "a":
			if href := getAttr(n, "href"); href != "" {
				doc.Anchors = append(doc.Anchors, Anchor{
					Href:     href,
					Text:     normalizeSpace(getTextContent(n)),
					Rel:      strings.ToLower(getAttr(n, "rel")),
					Target:   getAttr(n, "target"),
					HasImage: hasDescendant(n, "img"),
				})
			}

		case "img":
			doc.Images = append(doc.Images, Image{
				Src:     p.ResolveURL(getAttr(n, "src")),
				Alt:     getAttr(n, "alt"),
				HasAlt:  hasAttr(n, "alt"),
				Width:   getAttr(n, "width"),
				Height:  getAttr(n, "height"),
				Loading: getAttr(n, "loading"),
			})

		case "script":
			if strings.EqualFold(getAttr(n, "type"), "application/ld+json") {
				if body := strings.TrimSpace(getTextContent(n)); body != "" {
					doc.JSONLD = append(doc.JSONLD, body)
				}
			}

		case "h1", "h2", "h3", "h4", "h5", "h6":
			level := int(n.Data[1] - '0')
			doc.Headings = append(doc.Headings, Heading{
				Level: level,
				Text:  normalizeSpace(getTextContent(n)),
				Order: len(doc.Headings) + 1,
			})
		}
	}

	// Collect visible body text (skip script/style)
	if inBody && n.Type == html.TextNode {
		parent := n.Parent
		if parent != nil && parent.Data != "script" && parent.Data != "style" {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				textBuilder.WriteString(text)
				textBuilder.WriteString(" ")
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.traverse(c, doc, textBuilder, inBody)
	}
}

// parseMeta parses a meta tag into the document.
func (p *Parser) parseMeta(n *html.Node, doc *Document) {
	name := strings.ToLower(getAttr(n, "name"))
	property := strings.ToLower(getAttr(n, "property"))
	content := strings.TrimSpace(getAttr(n, "content"))
	httpEquiv := strings.ToLower(getAttr(n, "http-equiv"))

	switch {
	case hasAttr(n, "charset"):
		doc.Charset = strings.TrimSpace(getAttr(n, "charset"))
	case name == "description":
		doc.MetaDescription = content
	case name == "robots":
		doc.MetaRobots = content
	case name == "viewport":
		doc.Viewport = content
	case strings.HasPrefix(property, "og:"):
		doc.OpenGraph[property] = content
	case strings.HasPrefix(name, "twitter:") || strings.HasPrefix(property, "twitter:"):
		key := name
		if key == "" {
			key = property
		}
		doc.TwitterCard[key] = content
	case httpEquiv == "content-type":
		if idx := strings.Index(strings.ToLower(content), "charset="); idx != -1 {
			charset := content[idx+len("charset="):]
			if semi := strings.Index(charset, ";"); semi != -1 {
				charset = charset[:semi]
			}
			doc.Charset = strings.TrimSpace(charset)
		}
	}
}

// ResolveURL resolves a relative URL against the document base URL.
func (p *Parser) ResolveURL(href string) string {
	if href == "" {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return href
	}

	return p.baseURL.ResolveReference(ref).String()
}

// BaseHost returns the lowercased hostname of the base URL.
func (p *Parser) BaseHost() string {
	return strings.ToLower(p.baseURL.Hostname())
}

// Helper functions

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return true
		}
	}
	return false
}

func hasDescendant(n *html.Node, tag string) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return true
		}
		if hasDescendant(c, tag) {
			return true
		}
	}
	return false
}

func getTextContent(n *html.Node) string {
	var buf bytes.Buffer
	collectText(n, &buf)
	return buf.String()
}

func collectText(n *html.Node, buf *bytes.Buffer) {
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, buf)
	}
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ParseHTML is a convenience function to parse HTML from bytes.
func ParseHTML(baseURL string, content []byte) (*Document, error) {
	p, err := New(baseURL)
	if err != nil {
		return nil, err
	}
	return p.Parse(content)
}
