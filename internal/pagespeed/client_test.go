package pagespeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalResponse = `{
	"id": "https://example.com/",
	"lighthouseResult": {
		"fetchTime": "2026-08-29T10:00:00.000Z",
		"categories": {
			"performance": {"score": 0.9},
			"accessibility": {"score": 0.9},
			"best-practices": {"score": 0.9},
			"seo": {"score": 0.9}
		},
		"audits": {}
	}
}`

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithRateLimit(1000),
	)
}

func TestAnalyzeRequestParameters(t *testing.T) {
	var gotQuery atomic.Value
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		w.Write([]byte(minimalResponse))
	})

	result, err := client.Analyze(context.Background(), "https://example.com/", StrategyMobile)
	require.NoError(t, err)
	assert.Equal(t, 90, result.Scores.Performance)

	query := gotQuery.Load().(url.Values)
	assert.Equal(t, []string{"https://example.com/"}, query["url"])
	assert.Equal(t, []string{"mobile"}, query["strategy"])
	assert.ElementsMatch(t,
		[]string{"performance", "accessibility", "best-practices", "seo"},
		query["category"])
}

func TestAnalyzeProviderErrorMessage(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "Quota exceeded"}}`))
	})

	_, err := client.Analyze(context.Background(), "https://example.com/", StrategyDesktop)
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusTooManyRequests, provErr.StatusCode)
	assert.Equal(t, "Quota exceeded", provErr.Message)
}

func TestAnalyzeMalformedBody(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := client.Analyze(context.Background(), "https://example.com/", StrategyMobile)
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
}

func TestRunBothStrategies(t *testing.T) {
	var mobile, desktop atomic.Int32
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch Strategy(r.URL.Query().Get("strategy")) {
		case StrategyMobile:
			mobile.Add(1)
		case StrategyDesktop:
			desktop.Add(1)
		}
		w.Write([]byte(minimalResponse))
	})

	run, err := client.Run(context.Background(), "https://example.com/")
	require.NoError(t, err)

	require.NotNil(t, run.Mobile)
	require.NotNil(t, run.Desktop)
	assert.Equal(t, StrategyMobile, run.Mobile.Strategy)
	assert.Equal(t, StrategyDesktop, run.Desktop.Strategy)
	assert.Equal(t, int32(1), mobile.Load())
	assert.Equal(t, int32(1), desktop.Load())
}

func TestRunFailsWhenOneStrategyFails(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("strategy") == string(StrategyDesktop) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": {"message": "Lighthouse crashed"}}`))
			return
		}
		w.Write([]byte(minimalResponse))
	})

	run, err := client.Run(context.Background(), "https://example.com/")
	require.Error(t, err)
	assert.Nil(t, run)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "Lighthouse crashed", provErr.Message)
}
