package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/seoscan/seoscan/internal/analyzer"
	"github.com/seoscan/seoscan/internal/pagespeed"
	"github.com/seoscan/seoscan/internal/storage"
)

// Report is the full formatted report for a completed audit.
type Report struct {
	ID          string    `json:"id"`
	AuditID     string    `json:"auditId"`
	WebsiteURL  string    `json:"websiteUrl"`
	DisplayName string    `json:"displayName"`
	Tier        string    `json:"tier"`
	GeneratedAt time.Time `json:"generatedAt"`

	Scores          storage.Scores   `json:"scores"`
	Summary         Summary          `json:"summary"`
	Issues          []Issue          `json:"issues"`
	TechnicalData   TechnicalData    `json:"technicalData"`
	PerformanceData PerformanceData  `json:"performanceData"`
	ContentData     ContentData      `json:"contentData"`
	Recommendations []Recommendation `json:"recommendations"`

	HTMLAnalysis *analyzer.HTMLAnalysisResult `json:"htmlAnalysis,omitempty"`
}

// Summary is the report's headline numbers.
type Summary struct {
	PagesScanned    int     `json:"pagesScanned"`
	IssuesFound     int     `json:"issuesFound"`
	CriticalIssues  int     `json:"criticalIssues"`
	WarningIssues   int     `json:"warningIssues"`
	Opportunities   int     `json:"opportunities"`
	AverageLoadTime float64 `json:"averageLoadTime"`
	MobileScore     int     `json:"mobileScore"`
}

// TechnicalData groups crawl and index health signals.
type TechnicalData struct {
	Crawlability   Crawlability   `json:"crawlability"`
	Indexability   Indexability   `json:"indexability"`
	HTTPStatus     HTTPStatus     `json:"httpStatus"`
	StructuredData StructuredData `json:"structuredData"`
}

type Crawlability struct {
	Score            int  `json:"score"`
	RobotsTxt        bool `json:"robotsTxt"`
	Sitemap          bool `json:"sitemap"`
	BlockedResources int  `json:"blockedResources"`
	CrawlErrors      int  `json:"crawlErrors"`
}

type Indexability struct {
	Score            int `json:"score"`
	IndexablePages   int `json:"indexablePages"`
	NoIndexPages     int `json:"noIndexPages"`
	CanonicalIssues  int `json:"canonicalIssues"`
	DuplicateContent int `json:"duplicateContent"`
}

type HTTPStatus struct {
	Status200 int `json:"status200"`
	Status301 int `json:"status301"`
	Status404 int `json:"status404"`
	Status500 int `json:"status500"`
}

type StructuredData struct {
	HasSchema   bool     `json:"hasSchema"`
	SchemaTypes []string `json:"schemaTypes"`
	Errors      int      `json:"errors"`
}

// PerformanceData groups the speed measurements of the audited page.
type PerformanceData struct {
	CoreWebVitals pagespeed.CoreWebVitals `json:"coreWebVitals"`
	PageSpeed     PageSpeedScores         `json:"pageSpeed"`
	Resources     pagespeed.Resources     `json:"resources"`
}

type PageSpeedScores struct {
	Desktop int `json:"desktop"`
	Mobile  int `json:"mobile"`
}

// ContentData rolls up on-page content health per facet.
type ContentData struct {
	MetaTags MetaTagsRollup `json:"metaTags"`
	Headings HeadingsRollup `json:"headings"`
	Images   ImagesRollup   `json:"images"`
	Links    LinksRollup    `json:"links"`
}

type MetaTagsRollup struct {
	MissingTitle        int `json:"missingTitle"`
	MissingDescription  int `json:"missingDescription"`
	DuplicateTitles     int `json:"duplicateTitles"`
	DuplicateDescs      int `json:"duplicateDescriptions"`
	TitleTooLong        int `json:"titleTooLong"`
	TitleTooShort       int `json:"titleTooShort"`
	DescriptionTooLong  int `json:"descriptionTooLong"`
	DescriptionTooShort int `json:"descriptionTooShort"`
}

type HeadingsRollup struct {
	MissingH1     int `json:"missingH1"`
	MultipleH1    int `json:"multipleH1"`
	SkippedLevels int `json:"skippedLevels"`
	EmptyHeadings int `json:"emptyHeadings"`
}

type ImagesRollup struct {
	Total       int `json:"total"`
	MissingAlt  int `json:"missingAlt"`
	LargeImages int `json:"largeImages"`
	Unoptimized int `json:"unoptimized"`
}

type LinksRollup struct {
	Internal int `json:"internal"`
	External int `json:"external"`
	Broken   int `json:"broken"`
	Nofollow int `json:"nofollow"`
}

// ErrNotCompleted is returned by Build when the audit has not finished.
type ErrNotCompleted struct {
	Status storage.AuditStatus
}

func (e *ErrNotCompleted) Error() string {
	return fmt.Sprintf("audit not yet completed (status %s)", e.Status)
}

// Build assembles the full report from a completed audit. The audit
// must be completed with performance results attached.
func Build(audit *storage.Audit) (*Report, error) {
	if audit.Status != storage.StatusCompleted {
		return nil, &ErrNotCompleted{Status: audit.Status}
	}
	if audit.PageSpeedResults == nil || audit.PageSpeedResults.Mobile == nil || audit.PageSpeedResults.Desktop == nil {
		return nil, fmt.Errorf("audit %s has no performance results", audit.ID)
	}

	mobile := audit.PageSpeedResults.Mobile
	desktop := audit.PageSpeedResults.Desktop
	html := audit.HTMLAnalysis

	issues := BuildIssues(audit.WebsiteURL, html, audit.PageSpeedResults)

	var scores storage.Scores
	if audit.Scores != nil {
		scores = *audit.Scores
	}
	var counts storage.IssuesCount
	if audit.IssuesCount != nil {
		counts = *audit.IssuesCount
	}

	generatedAt := time.Now()
	if audit.CompletedAt != nil {
		generatedAt = *audit.CompletedAt
	}

	pagesScanned := audit.PagesScanned
	if pagesScanned == 0 {
		pagesScanned = 1
	}

	rep := &Report{
		ID:          "rep_" + audit.ID,
		AuditID:     audit.ID,
		WebsiteURL:  audit.WebsiteURL,
		DisplayName: audit.DisplayName,
		Tier:        string(audit.Tier),
		GeneratedAt: generatedAt,
		Scores:      scores,
		Summary: Summary{
			PagesScanned:    pagesScanned,
			IssuesFound:     len(issues),
			CriticalIssues:  counts.Critical,
			WarningIssues:   counts.Warnings,
			Opportunities:   counts.Opportunities,
			AverageLoadTime: mobile.Metrics.LargestContentfulPaint,
			MobileScore:     mobile.Scores.Performance,
		},
		Issues: issues,
		PerformanceData: PerformanceData{
			CoreWebVitals: mobile.CoreWebVitals,
			PageSpeed: PageSpeedScores{
				Desktop: desktop.Scores.Performance,
				Mobile:  mobile.Scores.Performance,
			},
			Resources: mobile.Resources,
		},
		Recommendations: BuildRecommendations(issues),
		HTMLAnalysis:    html,
	}

	rep.TechnicalData = buildTechnicalData(scores, html)
	rep.ContentData = buildContentData(html)

	return rep, nil
}

func buildTechnicalData(scores storage.Scores, html *analyzer.HTMLAnalysisResult) TechnicalData {
	data := TechnicalData{
		Crawlability: Crawlability{
			Score:     int(math.Round(float64(scores.Technical+scores.Security) / 2)),
			RobotsTxt: true,
			Sitemap:   true,
		},
		Indexability: Indexability{
			Score:          scores.Technical,
			IndexablePages: 1,
		},
		StructuredData: StructuredData{
			SchemaTypes: make([]string, 0),
		},
	}

	if html == nil {
		return data
	}

	if html.MetaTags != nil {
		if strings.Contains(html.MetaTags.Robots, "noindex") {
			data.Indexability.NoIndexPages = 1
		}
		if html.MetaTags.Canonical == "" {
			data.Indexability.CanonicalIssues = 1
		}
	}

	if html.StatusCode == 200 {
		data.HTTPStatus.Status200 = 1
	}

	if schema := html.Schema; schema != nil {
		data.StructuredData.HasSchema = schema.HasSchema
		for _, s := range schema.Schemas {
			data.StructuredData.SchemaTypes = append(data.StructuredData.SchemaTypes, s.Type)
		}
		for _, issue := range schema.Issues {
			if issue.Type == analyzer.IssueInvalidJSON {
				data.StructuredData.Errors++
			}
		}
	}

	return data
}

func buildContentData(html *analyzer.HTMLAnalysisResult) ContentData {
	var data ContentData
	if html == nil {
		return data
	}

	if meta := html.MetaTags; meta != nil {
		if meta.Title == "" {
			data.MetaTags.MissingTitle = 1
		}
		if meta.Description == "" {
			data.MetaTags.MissingDescription = 1
		}
		if meta.TitleLength > analyzer.Thresholds.TitleMaxLength {
			data.MetaTags.TitleTooLong = 1
		}
		if meta.TitleLength > 0 && meta.TitleLength < analyzer.Thresholds.TitleMinLength {
			data.MetaTags.TitleTooShort = 1
		}
		if meta.DescriptionLength > analyzer.Thresholds.MetaDescMaxLength {
			data.MetaTags.DescriptionTooLong = 1
		}
		if meta.DescriptionLength > 0 && meta.DescriptionLength < analyzer.Thresholds.MetaDescMinLength {
			data.MetaTags.DescriptionTooShort = 1
		}
	}

	if headings := html.Headings; headings != nil {
		if len(headings.H1) == 0 {
			data.Headings.MissingH1 = 1
		}
		if len(headings.H1) > 1 {
			data.Headings.MultipleH1 = 1
		}
		for _, issue := range headings.Issues {
			switch issue.Type {
			case analyzer.IssueSkippedLevel:
				data.Headings.SkippedLevels++
			case analyzer.IssueEmptyHeading:
				data.Headings.EmptyHeadings++
			}
		}
	}

	if images := html.Images; images != nil {
		data.Images.Total = images.Total
		data.Images.MissingAlt = images.WithoutAlt
	}

	if links := html.Links; links != nil {
		data.Links.Internal = links.InternalCount
		data.Links.External = links.ExternalCount
		data.Links.Nofollow = len(links.Nofollow)
	}

	return data
}
