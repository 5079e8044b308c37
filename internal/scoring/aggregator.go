// Package scoring combines facet analysis and performance results into
// the audit's category scores and issue counts.
package scoring

import (
	"math"

	"github.com/seoscan/seoscan/internal/analyzer"
	"github.com/seoscan/seoscan/internal/pagespeed"
	"github.com/seoscan/seoscan/internal/storage"
)

// Device class weights for combining mobile and desktop category
// scores.
const (
	mobileWeight  = 0.6
	desktopWeight = 0.4
)

// Penalties are the point deductions applied to the content score.
// The content score starts at 100 and each finding subtracts its
// penalty; the result is clamped to [0,100].
type Penalties struct {
	TitleMissing       int `mapstructure:"title_missing"`
	TitleOutOfRange    int `mapstructure:"title_out_of_range"`
	DescMissing        int `mapstructure:"description_missing"`
	DescOutOfRange     int `mapstructure:"description_out_of_range"`
	CanonicalMissing   int `mapstructure:"canonical_missing"`
	ViewportMissing    int `mapstructure:"viewport_missing"`
	LangMissing        int `mapstructure:"lang_missing"`
	OpenGraphMissing   int `mapstructure:"open_graph_missing"`
	H1Missing          int `mapstructure:"h1_missing"`
	H1Multiple         int `mapstructure:"h1_multiple"`
	HeadingCritical    int `mapstructure:"heading_critical"`
	HeadingWarning     int `mapstructure:"heading_warning"`
	AltCoverageLow     int `mapstructure:"alt_coverage_low"`
	AltCoveragePartial int `mapstructure:"alt_coverage_partial"`
}

// DefaultPenalties returns the standard deduction table.
func DefaultPenalties() Penalties {
	return Penalties{
		TitleMissing:       15,
		TitleOutOfRange:    5,
		DescMissing:        15,
		DescOutOfRange:     5,
		CanonicalMissing:   5,
		ViewportMissing:    10,
		LangMissing:        3,
		OpenGraphMissing:   5,
		H1Missing:          15,
		H1Multiple:         5,
		HeadingCritical:    5,
		HeadingWarning:     2,
		AltCoverageLow:     10,
		AltCoveragePartial: 5,
	}
}

// Aggregator computes audit scores.
type Aggregator struct {
	penalties Penalties
}

// New creates an Aggregator with the given penalty table.
func New(penalties Penalties) *Aggregator {
	return &Aggregator{penalties: penalties}
}

// Aggregate combines facet analysis and both device-class performance
// results into category scores and issue counts. html may be nil when
// the fetch or parse failed; the performance results are required.
func (a *Aggregator) Aggregate(html *analyzer.HTMLAnalysisResult, run *pagespeed.RunResult) (storage.Scores, storage.IssuesCount) {
	mobile, desktop := run.Mobile, run.Desktop

	performance := weighted(mobile.Scores.Performance, desktop.Scores.Performance)
	seo := weighted(mobile.Scores.SEO, desktop.Scores.SEO)
	accessibility := weighted(mobile.Scores.Accessibility, desktop.Scores.Accessibility)
	bestPractices := weighted(mobile.Scores.BestPractices, desktop.Scores.BestPractices)

	var content int
	if html != nil {
		content = a.contentScore(html)
	} else {
		// Without facet data, fall back to provider-derived signals.
		content = int(math.Round(float64(seo+accessibility) / 2))
	}

	overall := int(math.Round(float64(performance+seo+content+bestPractices) / 4))

	scores := storage.Scores{
		Overall:       overall,
		Performance:   performance,
		SEO:           seo,
		Security:      bestPractices,
		Mobile:        mobile.Scores.Performance,
		Content:       content,
		Technical:     seo,
		Accessibility: accessibility,
		BestPractices: bestPractices,
	}

	return scores, countIssues(html, run)
}

// contentScore applies the penalty table to the facet results.
func (a *Aggregator) contentScore(html *analyzer.HTMLAnalysisResult) int {
	score := 100
	p := a.penalties

	if meta := html.MetaTags; meta != nil {
		if meta.Title == "" {
			score -= p.TitleMissing
		} else if meta.TitleLength < analyzer.Thresholds.TitleMinLength || meta.TitleLength > analyzer.Thresholds.TitleMaxLength {
			score -= p.TitleOutOfRange
		}

		if meta.Description == "" {
			score -= p.DescMissing
		} else if meta.DescriptionLength < analyzer.Thresholds.MetaDescMinLength || meta.DescriptionLength > analyzer.Thresholds.MetaDescMaxLength {
			score -= p.DescOutOfRange
		}

		if meta.Canonical == "" {
			score -= p.CanonicalMissing
		}
		if meta.Viewport == "" {
			score -= p.ViewportMissing
		}
		if meta.Language == "" {
			score -= p.LangMissing
		}
		if meta.OGTitle == "" || meta.OGDescription == "" || meta.OGImage == "" {
			score -= p.OpenGraphMissing
		}
	}

	if headings := html.Headings; headings != nil {
		switch {
		case len(headings.H1) == 0:
			score -= p.H1Missing
		case len(headings.H1) > 1:
			score -= p.H1Multiple
		}

		for _, issue := range headings.Issues {
			switch issue.Type {
			case analyzer.IssueMissingH1, analyzer.IssueMultipleH1:
				// Already handled via the H1 count above.
				continue
			}
			switch issue.Severity {
			case analyzer.SeverityCritical:
				score -= p.HeadingCritical
			case analyzer.SeverityWarning:
				score -= p.HeadingWarning
			}
		}
	}

	if images := html.Images; images != nil && images.Total > 0 {
		coverage := float64(images.Total-images.WithoutAlt) / float64(images.Total) * 100
		if coverage < 50 {
			score -= p.AltCoverageLow
		} else if coverage < 90 {
			score -= p.AltCoveragePartial
		}
	}

	return clamp(score, 0, 100)
}

// countIssues tallies findings from both sources. Provider audits are
// counted per device class.
func countIssues(html *analyzer.HTMLAnalysisResult, run *pagespeed.RunResult) storage.IssuesCount {
	var counts storage.IssuesCount

	for _, result := range []*pagespeed.Result{run.Mobile, run.Desktop} {
		if result == nil {
			continue
		}
		for _, item := range result.Audits.Failed {
			// Unscored audits (manual, notApplicable) carry no weight.
			if item.Score == nil {
				continue
			}
			if *item.Score == 0 {
				counts.Critical++
			} else if *item.Score < 0.5 {
				counts.Warnings++
			}
		}
		counts.Opportunities += len(result.Audits.Opportunities)
	}

	if html != nil {
		critical, warning, info := html.CountBySeverity()
		counts.Critical += critical
		counts.Warnings += warning
		counts.Opportunities += info
	}

	return counts
}

func weighted(mobile, desktop int) int {
	return int(math.Round(float64(mobile)*mobileWeight + float64(desktop)*desktopWeight))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
