package pagespeed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Core Web Vital thresholds. A value at or below the good bound rates
// "good"; at or below the poor bound "needs-improvement"; above, "poor".
var vitalThresholds = struct {
	LCPGood, LCPPoor   float64 // ms
	FIDGood, FIDPoor   float64 // ms
	CLSGood, CLSPoor   float64
	FCPGood, FCPPoor   float64 // ms
	TTFBGood, TTFBPoor float64 // ms
}{
	LCPGood: 2500, LCPPoor: 4000,
	FIDGood: 100, FIDPoor: 300,
	CLSGood: 0.1, CLSPoor: 0.25,
	FCPGood: 1800, FCPPoor: 3000,
	TTFBGood: 800, TTFBPoor: 1800,
}

const maxBucketItems = 10

// Raw provider response shapes.

type apiResponse struct {
	ID               string            `json:"id"`
	LighthouseResult *lighthouseResult `json:"lighthouseResult"`
}

type lighthouseResult struct {
	FetchTime  string              `json:"fetchTime"`
	Categories map[string]category `json:"categories"`
	Audits     orderedAudits       `json:"audits"`
}

type category struct {
	Score float64 `json:"score"`
}

type rawAudit struct {
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Score            *float64      `json:"score"`
	ScoreDisplayMode string        `json:"scoreDisplayMode"`
	DisplayValue     string        `json:"displayValue"`
	NumericValue     float64       `json:"numericValue"`
	Details          *auditDetails `json:"details"`
}

type auditDetails struct {
	Type             string         `json:"type"`
	OverallSavingsMs float64        `json:"overallSavingsMs"`
	Items            []resourceItem `json:"items"`
	Summary          *wastedSummary `json:"summary"`
}

type resourceItem struct {
	ResourceType string  `json:"resourceType"`
	TransferSize float64 `json:"transferSize"`
	RequestCount float64 `json:"requestCount"`
}

type wastedSummary struct {
	WastedBytes float64 `json:"wastedBytes"`
}

// keyedAudit pairs an audit id with its raw data, preserving the order
// the provider emitted. Bucketing and caps depend on that ordering, so
// a plain map will not do.
type keyedAudit struct {
	ID    string
	Audit rawAudit
}

type orderedAudits []keyedAudit

func (o *orderedAudits) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected audits object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected audit key, got %v", keyTok)
		}

		var audit rawAudit
		if err := dec.Decode(&audit); err != nil {
			return fmt.Errorf("audit %q: %w", key, err)
		}
		*o = append(*o, keyedAudit{ID: key, Audit: audit})
	}

	_, err = dec.Token() // closing brace
	return err
}

func (o orderedAudits) get(id string) (rawAudit, bool) {
	for _, ka := range o {
		if ka.ID == id {
			return ka.Audit, true
		}
	}
	return rawAudit{}, false
}

func (o orderedAudits) numericValue(id string) float64 {
	if audit, ok := o.get(id); ok {
		return audit.NumericValue
	}
	return 0
}

// normalize converts a raw provider response into a Result.
func normalize(resp *apiResponse, strategy Strategy) (*Result, error) {
	if resp.LighthouseResult == nil {
		return nil, fmt.Errorf("provider response missing lighthouse result")
	}

	lr := resp.LighthouseResult
	audits := lr.Audits

	result := &Result{
		URL:       resp.ID,
		Strategy:  strategy,
		FetchTime: lr.FetchTime,
		Scores: CategoryScores{
			Performance:   scaleScore(lr.Categories["performance"].Score),
			Accessibility: scaleScore(lr.Categories["accessibility"].Score),
			BestPractices: scaleScore(lr.Categories["best-practices"].Score),
			SEO:           scaleScore(lr.Categories["seo"].Score),
		},
	}

	lcpMs := audits.numericValue("largest-contentful-paint")
	fidMs := audits.numericValue("max-potential-fid")
	cls := audits.numericValue("cumulative-layout-shift")
	fcpMs := audits.numericValue("first-contentful-paint")
	ttfbMs := audits.numericValue("server-response-time")

	result.CoreWebVitals = CoreWebVitals{
		LCP:  Vital{Value: msToSeconds(lcpMs), Rating: ratingFor(lcpMs, vitalThresholds.LCPGood, vitalThresholds.LCPPoor)},
		FID:  Vital{Value: math.Round(fidMs), Rating: ratingFor(fidMs, vitalThresholds.FIDGood, vitalThresholds.FIDPoor)},
		CLS:  Vital{Value: round3(cls), Rating: ratingFor(cls, vitalThresholds.CLSGood, vitalThresholds.CLSPoor)},
		FCP:  Vital{Value: msToSeconds(fcpMs), Rating: ratingFor(fcpMs, vitalThresholds.FCPGood, vitalThresholds.FCPPoor)},
		TTFB: Vital{Value: math.Round(ttfbMs), Rating: ratingFor(ttfbMs, vitalThresholds.TTFBGood, vitalThresholds.TTFBPoor)},
	}

	result.Metrics = Metrics{
		FirstContentfulPaint:   msToSeconds(fcpMs),
		LargestContentfulPaint: msToSeconds(lcpMs),
		TotalBlockingTime:      math.Round(audits.numericValue("total-blocking-time")),
		CumulativeLayoutShift:  cls,
		SpeedIndex:             msToSeconds(audits.numericValue("speed-index")),
		TimeToInteractive:      msToSeconds(audits.numericValue("interactive")),
	}

	result.Resources = extractResources(audits)
	result.Audits = bucketAudits(audits)

	return result, nil
}

// extractResources builds the page weight breakdown from the
// resource-summary audit.
func extractResources(audits orderedAudits) Resources {
	res := Resources{
		TotalSize: bytesToMB(audits.numericValue("total-byte-weight")),
	}

	var items []resourceItem
	if summary, ok := audits.get("resource-summary"); ok && summary.Details != nil {
		items = summary.Details.Items
	}

	sizeOf := func(resourceType string) float64 {
		for _, item := range items {
			if item.ResourceType == resourceType {
				return item.TransferSize
			}
		}
		return 0
	}

	res.HTMLSize = bytesToMB(sizeOf("document"))
	res.CSSSize = bytesToMB(sizeOf("stylesheet"))
	res.JSSize = bytesToMB(sizeOf("script"))
	res.ImageSize = bytesToMB(sizeOf("image"))

	for _, item := range items {
		if item.ResourceType == "font" {
			res.FontCount = int(item.RequestCount)
		}
	}

	if tp, ok := audits.get("third-party-summary"); ok && tp.Details != nil && tp.Details.Summary != nil {
		res.ThirdPartySize = bytesToMB(tp.Details.Summary.WastedBytes)
	}

	return res
}

// bucketAudits categorizes audits in provider order. Opportunities and
// diagnostics keep only their first ten entries.
func bucketAudits(audits orderedAudits) AuditBuckets {
	buckets := AuditBuckets{
		Passed:        make([]string, 0),
		Failed:        make([]AuditItem, 0),
		Opportunities: make([]AuditItem, 0),
		Diagnostics:   make([]AuditItem, 0),
	}

	for _, ka := range audits {
		audit := ka.Audit
		if audit.Title == "" {
			continue
		}

		item := AuditItem{
			ID:           ka.ID,
			Title:        audit.Title,
			Description:  audit.Description,
			Score:        audit.Score,
			NumericValue: audit.NumericValue,
			DisplayValue: audit.DisplayValue,
		}

		isOpportunity := audit.ScoreDisplayMode == "opportunity" ||
			(audit.Details != nil && audit.Details.Type == "opportunity")

		switch {
		case audit.Score != nil && *audit.Score == 1:
			buckets.Passed = append(buckets.Passed, audit.Title)

		case audit.Score == nil || *audit.Score == 0:
			switch {
			case isOpportunity:
				buckets.Opportunities = append(buckets.Opportunities, item)
			case audit.ScoreDisplayMode == "informative":
				buckets.Diagnostics = append(buckets.Diagnostics, item)
			default:
				buckets.Failed = append(buckets.Failed, item)
			}

		case *audit.Score < 0.9:
			if audit.Details != nil && audit.Details.OverallSavingsMs > 0 {
				buckets.Opportunities = append(buckets.Opportunities, item)
			} else {
				buckets.Diagnostics = append(buckets.Diagnostics, item)
			}
		}
	}

	if len(buckets.Opportunities) > maxBucketItems {
		buckets.Opportunities = buckets.Opportunities[:maxBucketItems]
	}
	if len(buckets.Diagnostics) > maxBucketItems {
		buckets.Diagnostics = buckets.Diagnostics[:maxBucketItems]
	}

	return buckets
}

// ratingFor derives a rating from fixed thresholds.
func ratingFor(value, good, poor float64) Rating {
	if value <= good {
		return RatingGood
	}
	if value <= poor {
		return RatingNeedsImprovement
	}
	return RatingPoor
}

func scaleScore(score float64) int {
	return int(math.Round(score * 100))
}

func msToSeconds(ms float64) float64 {
	return math.Round(ms/1000*100) / 100
}

func bytesToMB(bytes float64) float64 {
	return math.Round(bytes/1024/1024*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
