package pagespeed

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestOrderedAuditsPreservesProviderOrder(t *testing.T) {
	raw := `{
		"zeta": {"title": "Z", "score": 0.5},
		"alpha": {"title": "A", "score": 0.5},
		"mid": {"title": "M", "score": 0.5}
	}`

	var audits orderedAudits
	require.NoError(t, json.Unmarshal([]byte(raw), &audits))

	require.Len(t, audits, 3)
	assert.Equal(t, "zeta", audits[0].ID)
	assert.Equal(t, "alpha", audits[1].ID)
	assert.Equal(t, "mid", audits[2].ID)
}

func TestScaleScore(t *testing.T) {
	assert.Equal(t, 90, scaleScore(0.9))
	assert.Equal(t, 100, scaleScore(1))
	assert.Equal(t, 0, scaleScore(0))
	assert.Equal(t, 85, scaleScore(0.847))
}

func TestRatingThresholds(t *testing.T) {
	// LCP: good at the boundary, needs-improvement inside, poor above.
	assert.Equal(t, RatingGood, ratingFor(2500, vitalThresholds.LCPGood, vitalThresholds.LCPPoor))
	assert.Equal(t, RatingNeedsImprovement, ratingFor(2501, vitalThresholds.LCPGood, vitalThresholds.LCPPoor))
	assert.Equal(t, RatingNeedsImprovement, ratingFor(4000, vitalThresholds.LCPGood, vitalThresholds.LCPPoor))
	assert.Equal(t, RatingPoor, ratingFor(4001, vitalThresholds.LCPGood, vitalThresholds.LCPPoor))

	assert.Equal(t, RatingGood, ratingFor(0.1, vitalThresholds.CLSGood, vitalThresholds.CLSPoor))
	assert.Equal(t, RatingPoor, ratingFor(0.3, vitalThresholds.CLSGood, vitalThresholds.CLSPoor))
}

func TestUnitConversions(t *testing.T) {
	assert.Equal(t, 2.5, msToSeconds(2500))
	assert.Equal(t, 1.23, msToSeconds(1234))
	assert.Equal(t, 1.5, bytesToMB(1.5*1024*1024))
	assert.Equal(t, 0.123, round3(0.12345))
}

func TestNormalizeFullResponse(t *testing.T) {
	raw := `{
		"id": "https://example.com/",
		"lighthouseResult": {
			"fetchTime": "2026-08-29T10:00:00.000Z",
			"categories": {
				"performance": {"score": 0.92},
				"accessibility": {"score": 0.88},
				"best-practices": {"score": 1},
				"seo": {"score": 0.79}
			},
			"audits": {
				"largest-contentful-paint": {"title": "LCP", "score": 0.8, "numericValue": 2800},
				"max-potential-fid": {"title": "FID", "score": 0.9, "numericValue": 80},
				"cumulative-layout-shift": {"title": "CLS", "score": 1, "numericValue": 0.05},
				"first-contentful-paint": {"title": "FCP", "score": 0.95, "numericValue": 1500},
				"server-response-time": {"title": "TTFB", "score": 0.9, "numericValue": 450},
				"total-blocking-time": {"title": "TBT", "score": 0.7, "numericValue": 320},
				"speed-index": {"title": "SI", "score": 0.85, "numericValue": 3400},
				"interactive": {"title": "TTI", "score": 0.8, "numericValue": 4200},
				"total-byte-weight": {"title": "Weight", "score": 0.9, "numericValue": 2097152},
				"resource-summary": {
					"title": "Resources", "score": null, "scoreDisplayMode": "informative",
					"details": {"type": "table", "items": [
						{"resourceType": "document", "transferSize": 52428},
						{"resourceType": "script", "transferSize": 1048576},
						{"resourceType": "font", "transferSize": 10000, "requestCount": 3}
					]}
				}
			}
		}
	}`

	var resp apiResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))

	result, err := normalize(&resp, StrategyMobile)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/", result.URL)
	assert.Equal(t, StrategyMobile, result.Strategy)
	assert.Equal(t, 92, result.Scores.Performance)
	assert.Equal(t, 88, result.Scores.Accessibility)
	assert.Equal(t, 100, result.Scores.BestPractices)
	assert.Equal(t, 79, result.Scores.SEO)

	assert.Equal(t, 2.8, result.CoreWebVitals.LCP.Value)
	assert.Equal(t, RatingNeedsImprovement, result.CoreWebVitals.LCP.Rating)
	assert.Equal(t, float64(80), result.CoreWebVitals.FID.Value)
	assert.Equal(t, RatingGood, result.CoreWebVitals.FID.Rating)
	assert.Equal(t, 0.05, result.CoreWebVitals.CLS.Value)
	assert.Equal(t, 1.5, result.CoreWebVitals.FCP.Value)
	assert.Equal(t, float64(450), result.CoreWebVitals.TTFB.Value)

	assert.Equal(t, 2.0, result.Resources.TotalSize)
	assert.Equal(t, 0.05, result.Resources.HTMLSize)
	assert.Equal(t, 1.0, result.Resources.JSSize)
	assert.Equal(t, 3, result.Resources.FontCount)
}

func TestNormalizeMissingLighthouseResult(t *testing.T) {
	_, err := normalize(&apiResponse{ID: "https://example.com/"}, StrategyDesktop)
	assert.Error(t, err)
}

func TestBucketAudits(t *testing.T) {
	audits := orderedAudits{
		{ID: "pass", Audit: rawAudit{Title: "Passed", Score: floatPtr(1)}},
		{ID: "fail", Audit: rawAudit{Title: "Failed", Score: floatPtr(0)}},
		{ID: "opp-zero", Audit: rawAudit{Title: "Opp", Score: floatPtr(0), ScoreDisplayMode: "opportunity"}},
		{ID: "diag-null", Audit: rawAudit{Title: "Diag", Score: nil, ScoreDisplayMode: "informative"}},
		{ID: "opp-savings", Audit: rawAudit{Title: "Savings", Score: floatPtr(0.4),
			Details: &auditDetails{OverallSavingsMs: 1500}}},
		{ID: "diag-mid", Audit: rawAudit{Title: "Mid", Score: floatPtr(0.6)}},
		{ID: "good", Audit: rawAudit{Title: "Good enough", Score: floatPtr(0.95)}},
		{ID: "untitled", Audit: rawAudit{Score: floatPtr(0)}},
	}

	buckets := bucketAudits(audits)

	assert.Equal(t, []string{"Passed"}, buckets.Passed)

	require.Len(t, buckets.Failed, 1)
	assert.Equal(t, "fail", buckets.Failed[0].ID)

	require.Len(t, buckets.Opportunities, 2)
	assert.Equal(t, "opp-zero", buckets.Opportunities[0].ID)
	assert.Equal(t, "opp-savings", buckets.Opportunities[1].ID)

	require.Len(t, buckets.Diagnostics, 2)
	assert.Equal(t, "diag-null", buckets.Diagnostics[0].ID)
	assert.Equal(t, "diag-mid", buckets.Diagnostics[1].ID)
}

func TestBucketAuditsNullScoreWithoutMarkersFails(t *testing.T) {
	audits := orderedAudits{
		{ID: "null-plain", Audit: rawAudit{Title: "Null plain", Score: nil}},
	}
	buckets := bucketAudits(audits)
	require.Len(t, buckets.Failed, 1)
	assert.Equal(t, "null-plain", buckets.Failed[0].ID)
}

func TestBucketAuditsCapsAtTen(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("{")
	for i := 0; i < 15; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `"opp-%02d": {"title": "Opportunity %d", "score": 0, "scoreDisplayMode": "opportunity"}`, i, i)
	}
	sb.WriteString("}")

	var audits orderedAudits
	require.NoError(t, json.Unmarshal([]byte(sb.String()), &audits))

	buckets := bucketAudits(audits)
	require.Len(t, buckets.Opportunities, 10)
	// The cap keeps the first ten in provider order.
	assert.Equal(t, "opp-00", buckets.Opportunities[0].ID)
	assert.Equal(t, "opp-09", buckets.Opportunities[9].ID)
}
