// Package pagespeed calls the page-speed provider and normalizes its
// responses into typed results.
package pagespeed

// Strategy is the device class a measurement runs under.
type Strategy string

const (
	StrategyMobile  Strategy = "mobile"
	StrategyDesktop Strategy = "desktop"
)

// Rating classifies a Core Web Vital measurement.
type Rating string

const (
	RatingGood             Rating = "good"
	RatingNeedsImprovement Rating = "needs-improvement"
	RatingPoor             Rating = "poor"
)

// CategoryScores are the provider category scores scaled to 0-100.
type CategoryScores struct {
	Performance   int `json:"performance"`
	Accessibility int `json:"accessibility"`
	BestPractices int `json:"bestPractices"`
	SEO           int `json:"seo"`
}

// Vital is one Core Web Vital measurement with its derived rating.
type Vital struct {
	Value  float64 `json:"value"`
	Rating Rating  `json:"rating"`
}

// CoreWebVitals holds the five tracked vitals. LCP and FCP are in
// seconds, FID and TTFB in milliseconds, CLS is unitless.
type CoreWebVitals struct {
	LCP  Vital `json:"lcp"`
	FID  Vital `json:"fid"`
	CLS  Vital `json:"cls"`
	FCP  Vital `json:"fcp"`
	TTFB Vital `json:"ttfb"`
}

// Metrics are the timing metrics in display units (seconds except TBT
// and CLS).
type Metrics struct {
	FirstContentfulPaint   float64 `json:"firstContentfulPaint"`
	LargestContentfulPaint float64 `json:"largestContentfulPaint"`
	TotalBlockingTime      float64 `json:"totalBlockingTime"`
	CumulativeLayoutShift  float64 `json:"cumulativeLayoutShift"`
	SpeedIndex             float64 `json:"speedIndex"`
	TimeToInteractive      float64 `json:"timeToInteractive"`
}

// Resources is the page weight breakdown in megabytes.
type Resources struct {
	TotalSize      float64 `json:"totalSize"`
	HTMLSize       float64 `json:"htmlSize"`
	CSSSize        float64 `json:"cssSize"`
	JSSize         float64 `json:"jsSize"`
	ImageSize      float64 `json:"imageSize"`
	FontCount      int     `json:"fontCount"`
	ThirdPartySize float64 `json:"thirdPartySize"`
}

// AuditItem is one provider audit in normalized form. Score is nil
// when the provider reports the audit as non-scorable.
type AuditItem struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Score        *float64 `json:"score"`
	NumericValue float64  `json:"numericValue,omitempty"`
	DisplayValue string   `json:"displayValue,omitempty"`
}

// AuditBuckets groups audits into passed, failed, opportunity, and
// diagnostic sets. Passed audits carry titles only.
type AuditBuckets struct {
	Passed        []string    `json:"passed"`
	Failed        []AuditItem `json:"failed"`
	Opportunities []AuditItem `json:"opportunities"`
	Diagnostics   []AuditItem `json:"diagnostics"`
}

// Result is one normalized provider response for one (URL, strategy)
// pair.
type Result struct {
	URL           string         `json:"url"`
	Strategy      Strategy       `json:"strategy"`
	FetchTime     string         `json:"fetchTime"`
	Scores        CategoryScores `json:"scores"`
	CoreWebVitals CoreWebVitals  `json:"coreWebVitals"`
	Metrics       Metrics        `json:"metrics"`
	Audits        AuditBuckets   `json:"audits"`
	Resources     Resources      `json:"resources"`
}

// RunResult pairs the mobile and desktop measurements of one run. Both
// are always present: a run with either missing is a failed run.
type RunResult struct {
	Mobile  *Result `json:"mobile"`
	Desktop *Result `json:"desktop"`
}
