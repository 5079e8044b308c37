package pagespeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/seoscan/seoscan/internal/metrics"
)

const defaultBaseURL = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

// ProviderError indicates the provider rejected or failed a request.
// It is fatal to the run that issued it.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("pagespeed provider error: %s", e.Message)
	}
	return fmt.Sprintf("pagespeed provider returned status %d", e.StatusCode)
}

// errorEnvelope is the provider's error response body.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client calls the page-speed provider. Requests are rate limited
// client-side to stay under the provider quota.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the provider endpoint (used by tests).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithAPIKey sets the provider API key.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithRateLimit sets the client-side requests-per-second limit.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 2)
		}
	}
}

// NewClient creates a provider client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(1), 2),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Analyze measures one (URL, strategy) pair and normalizes the result.
func (c *Client) Analyze(ctx context.Context, targetURL string, strategy Strategy) (result *Result, err error) {
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.ProviderRequestsTotal.WithLabelValues(string(strategy), outcome).Inc()
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("url", targetURL)
	params.Set("strategy", string(strategy))
	for _, cat := range []string{"performance", "accessibility", "best-practices", "seo"} {
		params.Add("category", cat)
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		provErr := &ProviderError{StatusCode: resp.StatusCode}
		var envelope errorEnvelope
		if json.Unmarshal(body, &envelope) == nil && envelope.Error.Message != "" {
			provErr.Message = envelope.Error.Message
		}
		return nil, provErr
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("malformed provider response: %s", err)}
	}

	result, err = normalize(&apiResp, strategy)
	if err != nil {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: err.Error()}
	}

	return result, nil
}

// Run measures both device classes concurrently. Both must succeed;
// there is no partial result.
func (c *Client) Run(ctx context.Context, targetURL string) (*RunResult, error) {
	run := &RunResult{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		mobile, err := c.Analyze(gctx, targetURL, StrategyMobile)
		if err != nil {
			return err
		}
		run.Mobile = mobile
		return nil
	})
	g.Go(func() error {
		desktop, err := c.Analyze(gctx, targetURL, StrategyDesktop)
		if err != nil {
			return err
		}
		run.Desktop = desktop
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return run, nil
}
