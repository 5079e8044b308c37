package fetcher

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const defaultUserAgent = "SEOScan-Pro/1.0 (SEO Analysis Bot)"

// FetchError indicates the target responded with a non-success status.
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %s", e.URL, e.Status)
}

// Fetcher issues single HTTP GET requests for target pages.
type Fetcher struct {
	client      *http.Client
	transport   *http.Transport
	userAgent   string
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithUserAgent overrides the identifying user agent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithTimeout sets the transport-level request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// WithMaxBodySize caps how many bytes of the response body are read.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// New creates a fetcher with pooled connections. Redirects are followed.
func New(opts ...Option) *Fetcher {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	f := &Fetcher{
		transport:   transport,
		userAgent:   defaultUserAgent,
		maxBodySize: 10 * 1024 * 1024, // 10MB
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch retrieves the HTML document at rawURL. A single failed fetch is
// final; the fetcher does not retry. Non-2xx responses return *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	return &Response{
		RequestURL:    rawURL,
		FinalURL:      resp.Request.URL.String(),
		StatusCode:    resp.StatusCode,
		Status:        resp.Status,
		Headers:       resp.Header,
		ContentType:   extractContentType(resp.Header.Get("Content-Type")),
		ContentLength: int64(len(body)),
		Body:          body,
		LoadTime:      time.Since(start),
		FetchedAt:     time.Now(),
	}, nil
}

// Close releases idle connections.
func (f *Fetcher) Close() {
	f.transport.CloseIdleConnections()
}

// extractContentType strips charset and other parameters.
func extractContentType(contentType string) string {
	if idx := strings.Index(contentType, ";"); idx != -1 {
		return strings.TrimSpace(contentType[:idx])
	}
	return strings.TrimSpace(contentType)
}
