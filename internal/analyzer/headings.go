package analyzer

import (
	"fmt"
	"unicode/utf8"

	"github.com/seoscan/seoscan/internal/parser"
)

// analyzeHeadings walks headings in document order, bucketing text per
// level and flagging structural problems. The last-level cursor
// persists across the whole document so level jumps are caught anywhere.
func analyzeHeadings(doc *parser.Document) *HeadingsResult {
	result := &HeadingsResult{
		H1:        make([]string, 0),
		H2:        make([]string, 0),
		H3:        make([]string, 0),
		H4:        make([]string, 0),
		H5:        make([]string, 0),
		H6:        make([]string, 0),
		Structure: make([]HeadingNode, 0),
		Issues:    make([]FacetIssue, 0),
	}

	lastLevel := 0
	for _, h := range doc.Headings {
		result.Structure = append(result.Structure, HeadingNode{
			Level: h.Level,
			Text:  h.Text,
			Order: h.Order,
		})

		if h.Text == "" {
			result.Issues = append(result.Issues, FacetIssue{
				Type:     IssueEmptyHeading,
				Message:  fmt.Sprintf("Empty H%d heading found", h.Level),
				Severity: SeverityWarning,
			})
		}

		if lastLevel > 0 && h.Level > lastLevel+1 {
			result.Issues = append(result.Issues, FacetIssue{
				Type:     IssueSkippedLevel,
				Message:  fmt.Sprintf("Heading level skipped from H%d to H%d", lastLevel, h.Level),
				Severity: SeverityWarning,
			})
		}

		if textLen := utf8.RuneCountInString(h.Text); textLen > Thresholds.HeadingMaxLength {
			result.Issues = append(result.Issues, FacetIssue{
				Type:     IssueTooLong,
				Message:  fmt.Sprintf("H%d heading is too long (%d chars)", h.Level, textLen),
				Severity: SeverityInfo,
			})
		}

		lastLevel = h.Level

		switch h.Level {
		case 1:
			result.H1 = append(result.H1, h.Text)
		case 2:
			result.H2 = append(result.H2, h.Text)
		case 3:
			result.H3 = append(result.H3, h.Text)
		case 4:
			result.H4 = append(result.H4, h.Text)
		case 5:
			result.H5 = append(result.H5, h.Text)
		case 6:
			result.H6 = append(result.H6, h.Text)
		}
	}

	if len(result.H1) == 0 {
		result.Issues = append(result.Issues, FacetIssue{
			Type:     IssueMissingH1,
			Message:  "Page is missing an H1 heading",
			Severity: SeverityCritical,
		})
	} else if len(result.H1) > 1 {
		result.Issues = append(result.Issues, FacetIssue{
			Type:     IssueMultipleH1,
			Message:  fmt.Sprintf("Page has %d H1 headings. Recommended: only one H1 per page", len(result.H1)),
			Severity: SeverityWarning,
		})
	}

	return result
}
