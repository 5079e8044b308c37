// Package report maps analysis results into report-facing issues,
// recommendations, and the full report payload.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/seoscan/seoscan/internal/analyzer"
	"github.com/seoscan/seoscan/internal/pagespeed"
)

// Impact classifies how severe an issue is for the site owner.
type Impact string

const (
	ImpactCritical Impact = "critical"
	ImpactHigh     Impact = "high"
	ImpactMedium   Impact = "medium"
	ImpactLow      Impact = "low"
)

// impactRank orders impacts for sorting, most severe first.
var impactRank = map[Impact]int{
	ImpactCritical: 0,
	ImpactHigh:     1,
	ImpactMedium:   2,
	ImpactLow:      3,
}

// Effort classifies how much work a fix takes.
type Effort string

const (
	EffortQuick   Effort = "quick"
	EffortMedium  Effort = "medium"
	EffortComplex Effort = "complex"
)

// Issue is one report-facing finding, uniform across sources.
type Issue struct {
	ID             string   `json:"id"`
	Category       string   `json:"category"` // technical, performance, content, security
	Type           string   `json:"type"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	AffectedPages  int      `json:"affectedPages"`
	Impact         Impact   `json:"impact"`
	Effort         Effort   `json:"effort"`
	Recommendation string   `json:"recommendation"`
	ExampleURLs    []string `json:"exampleUrls"`
}

// Recommendation is a top issue reshaped for a punch-list view.
type Recommendation struct {
	Priority    Impact `json:"priority"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
	Effort      Effort `json:"effort"`
}

const maxRecommendations = 8

// Per-facet caps on how many issues reach the report.
const (
	maxImageIssues = 10
	maxLinkIssues  = 5
)

// BuildIssues converts provider audits and facet issues into report
// issues, sorted most severe first. The sort is stable: ties keep
// their discovery order.
func BuildIssues(websiteURL string, html *analyzer.HTMLAnalysisResult, run *pagespeed.RunResult) []Issue {
	issues := make([]Issue, 0)

	if run != nil && run.Mobile != nil {
		issues = append(issues, pagespeedIssues(websiteURL, run.Mobile.Audits.Failed)...)
		issues = append(issues, pagespeedIssues(websiteURL, run.Mobile.Audits.Opportunities)...)
	}

	if html != nil {
		issues = append(issues, facetIssues(websiteURL, html)...)
	}

	sortIssues(issues)
	return issues
}

// sortIssues orders issues most severe first, preserving input order
// within the same impact.
func sortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		return impactRank[issues[i].Impact] < impactRank[issues[j].Impact]
	})
}

// BuildRecommendations reshapes the top issues into a punch list.
// Issues must already be sorted.
func BuildRecommendations(issues []Issue) []Recommendation {
	top := issues
	if len(top) > maxRecommendations {
		top = top[:maxRecommendations]
	}

	recs := make([]Recommendation, 0, len(top))
	for _, issue := range top {
		recs = append(recs, Recommendation{
			Priority:    issue.Impact,
			Category:    capitalize(issue.Category),
			Title:       issue.Title,
			Description: issue.Description,
			Impact:      fmt.Sprintf("%s - Affects user experience and SEO", impactDisplay(issue.Impact)),
			Effort:      issue.Effort,
		})
	}
	return recs
}

// pagespeedIssues converts failed and opportunity audit items.
func pagespeedIssues(websiteURL string, items []pagespeed.AuditItem) []Issue {
	issues := make([]Issue, 0, len(items))
	for i, item := range items {
		if item.Title == "" {
			continue
		}
		if item.Score != nil && *item.Score == 1 {
			continue
		}

		impact := ImpactLow
		switch {
		case item.Score != nil && *item.Score == 0:
			impact = ImpactCritical
		case item.Score != nil && *item.Score < 0.5:
			impact = ImpactHigh
		case item.Score != nil && *item.Score < 0.9:
			impact = ImpactMedium
		}

		effort := EffortQuick
		if item.NumericValue > 1000 {
			effort = EffortMedium
		}

		issueType := item.ID
		if issueType == "" {
			issueType = "general"
		}

		recommendation := item.Description
		if recommendation == "" {
			recommendation = "Review and fix this issue to improve your score."
		}

		issues = append(issues, Issue{
			ID:             fmt.Sprintf("iss_performance_%d", i),
			Category:       "performance",
			Type:           issueType,
			Title:          item.Title,
			Description:    item.Description,
			AffectedPages:  1,
			Impact:         impact,
			Effort:         effort,
			Recommendation: recommendation,
			ExampleURLs:    []string{websiteURL},
		})
	}
	return issues
}

// facetIssues converts facet findings, applying per-facet caps.
func facetIssues(websiteURL string, html *analyzer.HTMLAnalysisResult) []Issue {
	issues := make([]Issue, 0)

	if html.MetaTags != nil {
		for i, fi := range html.MetaTags.Issues {
			issues = append(issues, Issue{
				ID:             fmt.Sprintf("iss_meta_%d", i),
				Category:       "content",
				Type:           fi.Subject,
				Title:          fi.Message,
				Description:    fi.Message,
				AffectedPages:  1,
				Impact:         severityImpact(fi.Severity),
				Effort:         EffortQuick,
				Recommendation: fmt.Sprintf("Fix the %s issue to improve SEO.", fi.Subject),
				ExampleURLs:    []string{websiteURL},
			})
		}
	}

	if html.Headings != nil {
		for i, fi := range html.Headings.Issues {
			issues = append(issues, Issue{
				ID:             fmt.Sprintf("iss_heading_%d", i),
				Category:       "content",
				Type:           fi.Type,
				Title:          fi.Message,
				Description:    fi.Message,
				AffectedPages:  1,
				Impact:         severityImpact(fi.Severity),
				Effort:         EffortQuick,
				Recommendation: "Fix heading structure for better SEO and accessibility.",
				ExampleURLs:    []string{websiteURL},
			})
		}
	}

	if html.Images != nil {
		capped := html.Images.Issues
		if len(capped) > maxImageIssues {
			capped = capped[:maxImageIssues]
		}
		for i, fi := range capped {
			description := fi.Message
			examples := []string{websiteURL}
			if fi.Subject != "" {
				description = fmt.Sprintf("Image: %s", truncate(fi.Subject, 50))
				examples = []string{fi.Subject}
			}
			issues = append(issues, Issue{
				ID:             fmt.Sprintf("iss_img_%d", i),
				Category:       "content",
				Type:           fi.Type,
				Title:          fi.Message,
				Description:    description,
				AffectedPages:  1,
				Impact:         severityImpact(fi.Severity),
				Effort:         EffortQuick,
				Recommendation: "Add alt text to images for accessibility and SEO.",
				ExampleURLs:    examples,
			})
		}
	}

	if html.Links != nil {
		capped := html.Links.Issues
		if len(capped) > maxLinkIssues {
			capped = capped[:maxLinkIssues]
		}
		for i, fi := range capped {
			description := fi.Message
			examples := []string{websiteURL}
			if fi.Subject != "" {
				description = fmt.Sprintf("Link: %s", truncate(fi.Subject, 50))
				examples = []string{fi.Subject}
			}
			issues = append(issues, Issue{
				ID:             fmt.Sprintf("iss_link_%d", i),
				Category:       "technical",
				Type:           fi.Type,
				Title:          fi.Message,
				Description:    description,
				AffectedPages:  1,
				Impact:         severityImpact(fi.Severity),
				Effort:         EffortQuick,
				Recommendation: "Fix link issues for better user experience and crawlability.",
				ExampleURLs:    examples,
			})
		}
	}

	if html.Schema != nil {
		for i, fi := range html.Schema.Issues {
			issues = append(issues, Issue{
				ID:             fmt.Sprintf("iss_schema_%d", i),
				Category:       "technical",
				Type:           fi.Type,
				Title:          fi.Message,
				Description:    fi.Message,
				AffectedPages:  1,
				Impact:         severityImpact(fi.Severity),
				Effort:         EffortMedium,
				Recommendation: "Add structured data to improve search result appearance.",
				ExampleURLs:    []string{websiteURL},
			})
		}
	}

	return issues
}

// severityImpact maps facet issue severity to report impact.
func severityImpact(s analyzer.Severity) Impact {
	switch s {
	case analyzer.SeverityCritical:
		return ImpactCritical
	case analyzer.SeverityWarning:
		return ImpactHigh
	default:
		return ImpactMedium
	}
}

// impactDisplay maps impact to the display tier used by the
// recommendations view.
func impactDisplay(impact Impact) string {
	switch impact {
	case ImpactCritical:
		return "High"
	case ImpactHigh:
		return "Medium"
	default:
		return "Low"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// truncate shortens s to max characters, never splitting a multibyte
// character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
