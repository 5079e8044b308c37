package analyzer

import (
	"fmt"
	"unicode/utf8"

	"github.com/seoscan/seoscan/internal/parser"
)

// Thresholds for SEO analysis. Values are inclusive ranges: lengths
// within [min, max] raise no issue. Lengths count characters, not
// bytes.
var Thresholds = struct {
	TitleMinLength    int
	TitleMaxLength    int
	MetaDescMinLength int
	MetaDescMaxLength int
	HeadingMaxLength  int
	MaxLinksPerPage   int
}{
	TitleMinLength:    30,
	TitleMaxLength:    60,
	MetaDescMinLength: 70,
	MetaDescMaxLength: 160,
	HeadingMaxLength:  70,
	MaxLinksPerPage:   100,
}

// analyzeMetaTags extracts meta tag values and flags missing or
// out-of-range fields.
func analyzeMetaTags(doc *parser.Document) *MetaTagsResult {
	result := &MetaTagsResult{
		Title:             doc.Title,
		TitleLength:       utf8.RuneCountInString(doc.Title),
		Description:       doc.MetaDescription,
		DescriptionLength: utf8.RuneCountInString(doc.MetaDescription),
		Robots:            doc.MetaRobots,
		Canonical:         doc.Canonical,
		OGTitle:           doc.OpenGraph["og:title"],
		OGDescription:     doc.OpenGraph["og:description"],
		OGImage:           doc.OpenGraph["og:image"],
		TwitterCard:       doc.TwitterCard["twitter:card"],
		Viewport:          doc.Viewport,
		Charset:           doc.Charset,
		Language:          doc.Language,
		Issues:            make([]FacetIssue, 0),
	}

	if result.Title == "" {
		result.Issues = append(result.Issues, FacetIssue{
			Type:     IssueMissing,
			Subject:  "title",
			Message:  "Page is missing a title tag",
			Severity: SeverityCritical,
		})
	} else if result.TitleLength < Thresholds.TitleMinLength {
		result.Issues = append(result.Issues, FacetIssue{
			Type:    IssueTooShort,
			Subject: "title",
			Message: fmt.Sprintf("Title is too short (%d chars). Recommended: %d-%d characters",
				result.TitleLength, Thresholds.TitleMinLength, Thresholds.TitleMaxLength),
			Severity: SeverityWarning,
		})
	} else if result.TitleLength > Thresholds.TitleMaxLength {
		result.Issues = append(result.Issues, FacetIssue{
			Type:    IssueTooLong,
			Subject: "title",
			Message: fmt.Sprintf("Title is too long (%d chars). May be truncated in search results",
				result.TitleLength),
			Severity: SeverityWarning,
		})
	}

	if result.Description == "" {
		result.Issues = append(result.Issues, FacetIssue{
			Type:     IssueMissing,
			Subject:  "description",
			Message:  "Page is missing a meta description",
			Severity: SeverityCritical,
		})
	} else if result.DescriptionLength < Thresholds.MetaDescMinLength {
		result.Issues = append(result.Issues, FacetIssue{
			Type:    IssueTooShort,
			Subject: "description",
			Message: fmt.Sprintf("Meta description is too short (%d chars). Recommended: %d-%d characters",
				result.DescriptionLength, Thresholds.MetaDescMinLength, Thresholds.MetaDescMaxLength),
			Severity: SeverityWarning,
		})
	} else if result.DescriptionLength > Thresholds.MetaDescMaxLength {
		result.Issues = append(result.Issues, FacetIssue{
			Type:    IssueTooLong,
			Subject: "description",
			Message: fmt.Sprintf("Meta description is too long (%d chars). May be truncated in search results",
				result.DescriptionLength),
			Severity: SeverityWarning,
		})
	}

	if result.Canonical == "" {
		result.Issues = append(result.Issues, FacetIssue{
			Type:     IssueMissing,
			Subject:  "canonical",
			Message:  "Page is missing a canonical URL",
			Severity: SeverityWarning,
		})
	}

	// A single combined issue for the Open Graph trio.
	if result.OGTitle == "" || result.OGDescription == "" || result.OGImage == "" {
		result.Issues = append(result.Issues, FacetIssue{
			Type:     IssueMissing,
			Subject:  "open_graph",
			Message:  "Missing Open Graph tags (og:title, og:description, or og:image)",
			Severity: SeverityInfo,
		})
	}

	if result.Viewport == "" {
		result.Issues = append(result.Issues, FacetIssue{
			Type:     IssueMissing,
			Subject:  "viewport",
			Message:  "Page is missing viewport meta tag (important for mobile)",
			Severity: SeverityCritical,
		})
	}

	if result.Language == "" {
		result.Issues = append(result.Issues, FacetIssue{
			Type:     IssueMissing,
			Subject:  "language",
			Message:  "HTML element is missing lang attribute",
			Severity: SeverityWarning,
		})
	}

	return result
}
