package analyzer

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/seoscan/seoscan/internal/parser"
)

// genericAnchors is the fixed set of anchor texts considered
// non-descriptive (matched case-insensitively).
var genericAnchors = map[string]bool{
	"click here": true,
	"read more":  true,
	"learn more": true,
	"here":       true,
	"link":       true,
	"more":       true,
}

// analyzeLinks classifies anchors as internal or external and flags
// nofollow internals, empty anchors, and generic anchor text.
func analyzeLinks(doc *parser.Document, p *parser.Parser) *LinksResult {
	result := &LinksResult{
		Internal: make([]LinkInfo, 0),
		External: make([]LinkInfo, 0),
		Nofollow: make([]LinkInfo, 0),
		Issues:   make([]FacetIssue, 0),
	}

	baseHost := p.BaseHost()

	for _, a := range doc.Anchors {
		href := a.Href
		if strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") ||
			strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") {
			continue
		}

		resolved := p.ResolveURL(href)
		isInternal := true
		if u, err := url.Parse(resolved); err == nil && u.Hostname() != "" {
			isInternal = strings.EqualFold(u.Hostname(), baseHost)
		}

		link := LinkInfo{
			Href:       resolved,
			Text:       a.Text,
			IsNofollow: strings.Contains(a.Rel, "nofollow"),
			IsNewTab:   a.Target == "_blank",
			IsInternal: isInternal,
		}

		if isInternal {
			result.Internal = append(result.Internal, link)
			if link.IsNofollow {
				result.Nofollow = append(result.Nofollow, link)
				result.Issues = append(result.Issues, FacetIssue{
					Type:     IssueNofollowInt,
					Subject:  resolved,
					Message:  "Internal link has nofollow attribute",
					Severity: SeverityWarning,
				})
			}
		} else {
			result.External = append(result.External, link)
		}

		if link.Text == "" && !a.HasImage {
			result.Issues = append(result.Issues, FacetIssue{
				Type:     IssueEmptyLink,
				Subject:  resolved,
				Message:  "Link has no text or image content",
				Severity: SeverityWarning,
			})
		}

		if genericAnchors[strings.ToLower(link.Text)] {
			result.Issues = append(result.Issues, FacetIssue{
				Type:     IssueGenericText,
				Subject:  resolved,
				Message:  fmt.Sprintf("Generic anchor text %q is not descriptive", link.Text),
				Severity: SeverityInfo,
			})
		}
	}

	result.InternalCount = len(result.Internal)
	result.ExternalCount = len(result.External)

	if total := result.InternalCount + result.ExternalCount; total > Thresholds.MaxLinksPerPage {
		result.Issues = append(result.Issues, FacetIssue{
			Type:     IssueTooManyLinks,
			Message:  fmt.Sprintf("Page has %d links. Consider reducing for better crawl efficiency", total),
			Severity: SeverityInfo,
		})
	}

	return result
}
