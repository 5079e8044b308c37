// Package analyzer runs SEO facet analysis over parsed HTML documents.
package analyzer

import "time"

// Severity levels for facet issues.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// FacetIssue is a single finding from one facet analyzer.
type FacetIssue struct {
	Type     string   `json:"type"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`

	// Subject is the affected field name, image src, or link href.
	Subject string `json:"subject,omitempty"`
}

// Issue type constants shared across facets.
const (
	IssueMissing       = "missing"
	IssueTooShort      = "too_short"
	IssueTooLong       = "too_long"
	IssueMissingH1     = "missing_h1"
	IssueMultipleH1    = "multiple_h1"
	IssueSkippedLevel  = "skipped_level"
	IssueEmptyHeading  = "empty_heading"
	IssueMissingAlt    = "missing_alt"
	IssueMissingDims   = "missing_dimensions"
	IssueNofollowInt   = "nofollow_internal"
	IssueEmptyLink     = "empty_link"
	IssueGenericText   = "generic_anchor"
	IssueTooManyLinks  = "too_many_links"
	IssueMissingSchema = "missing_schema"
	IssueInvalidJSON   = "invalid_json"
)

// MetaTagsResult holds extracted meta tag values and their issues.
type MetaTagsResult struct {
	Title             string       `json:"title"`
	TitleLength       int          `json:"titleLength"`
	Description       string       `json:"description"`
	DescriptionLength int          `json:"descriptionLength"`
	Robots            string       `json:"robots"`
	Canonical         string       `json:"canonical"`
	OGTitle           string       `json:"ogTitle"`
	OGDescription     string       `json:"ogDescription"`
	OGImage           string       `json:"ogImage"`
	TwitterCard       string       `json:"twitterCard"`
	Viewport          string       `json:"viewport"`
	Charset           string       `json:"charset"`
	Language          string       `json:"language"`
	Issues            []FacetIssue `json:"issues"`
}

// HeadingNode is one heading in document order.
type HeadingNode struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// HeadingsResult holds the heading outline and per-level buckets.
type HeadingsResult struct {
	H1        []string      `json:"h1"`
	H2        []string      `json:"h2"`
	H3        []string      `json:"h3"`
	H4        []string      `json:"h4"`
	H5        []string      `json:"h5"`
	H6        []string      `json:"h6"`
	Structure []HeadingNode `json:"structure"`
	Issues    []FacetIssue  `json:"issues"`
}

// ImageInfo describes one image element.
type ImageInfo struct {
	Src          string `json:"src"`
	Alt          string `json:"alt"`
	Width        string `json:"width,omitempty"`
	Height       string `json:"height,omitempty"`
	Loading      string `json:"loading,omitempty"`
	HasAlt       bool   `json:"hasAlt"`
	IsDecorative bool   `json:"isDecorative"`
}

// ImagesResult holds image descriptors and aggregate counts.
type ImagesResult struct {
	Total      int          `json:"total"`
	WithAlt    int          `json:"withAlt"`
	WithoutAlt int          `json:"withoutAlt"`
	Decorative int          `json:"decorative"`
	Images     []ImageInfo  `json:"images"`
	Issues     []FacetIssue `json:"issues"`
}

// LinkInfo describes one anchor.
type LinkInfo struct {
	Href       string `json:"href"`
	Text       string `json:"text"`
	IsNofollow bool   `json:"isNofollow"`
	IsNewTab   bool   `json:"isNewTab"`
	IsInternal bool   `json:"isInternal"`
}

// LinksResult holds internal/external link descriptors.
type LinksResult struct {
	Internal      []LinkInfo   `json:"internal"`
	External      []LinkInfo   `json:"external"`
	InternalCount int          `json:"internalCount"`
	ExternalCount int          `json:"externalCount"`
	Nofollow      []LinkInfo   `json:"nofollow"`
	Issues        []FacetIssue `json:"issues"`
}

// SchemaInfo is one detected structured data type.
type SchemaInfo struct {
	Type   string `json:"type"`
	Format string `json:"format"` // json-ld or microdata
}

// SchemaResult holds detected structured data.
type SchemaResult struct {
	HasSchema      bool         `json:"hasSchema"`
	Schemas        []SchemaInfo `json:"schemas"`
	JSONLDCount    int          `json:"jsonLdCount"`
	MicrodataCount int          `json:"microdataCount"`
	Issues         []FacetIssue `json:"issues"`
}

// HTMLAnalysisResult is one fetch+parse pass over one URL.
type HTMLAnalysisResult struct {
	URL             string          `json:"url"`
	FetchedAt       time.Time       `json:"fetchedAt"`
	StatusCode      int             `json:"statusCode"`
	ContentType     string          `json:"contentType"`
	ContentLength   int64           `json:"contentLength"`
	LoadTime        int64           `json:"loadTime"` // milliseconds
	WordCount       int             `json:"wordCount"`
	TextToHTMLRatio int             `json:"textToHtmlRatio"` // integer percent
	MetaTags        *MetaTagsResult `json:"metaTags"`
	Headings        *HeadingsResult `json:"headings"`
	Images          *ImagesResult   `json:"images"`
	Links           *LinksResult    `json:"links"`
	Schema          *SchemaResult   `json:"schema"`
}

// AllIssues returns every facet issue in the fixed analyzer order:
// meta, headings, images, links, schema.
func (r *HTMLAnalysisResult) AllIssues() []FacetIssue {
	issues := make([]FacetIssue, 0)
	if r.MetaTags != nil {
		issues = append(issues, r.MetaTags.Issues...)
	}
	if r.Headings != nil {
		issues = append(issues, r.Headings.Issues...)
	}
	if r.Images != nil {
		issues = append(issues, r.Images.Issues...)
	}
	if r.Links != nil {
		issues = append(issues, r.Links.Issues...)
	}
	if r.Schema != nil {
		issues = append(issues, r.Schema.Issues...)
	}
	return issues
}

// CountBySeverity tallies facet issues per severity level.
func (r *HTMLAnalysisResult) CountBySeverity() (critical, warning, info int) {
	for _, issue := range r.AllIssues() {
		switch issue.Severity {
		case SeverityCritical:
			critical++
		case SeverityWarning:
			warning++
		case SeverityInfo:
			info++
		}
	}
	return critical, warning, info
}
