// Package fetcher retrieves raw HTML documents for analysis.
package fetcher

import (
	"net/http"
	"time"
)

// Response represents the result of fetching a URL.
type Response struct {
	// Original requested URL
	RequestURL string

	// Final URL after redirects
	FinalURL string

	// HTTP status code
	StatusCode int

	// Status text (e.g., "200 OK")
	Status string

	// Response headers
	Headers http.Header

	// Content-Type header value (parameters stripped)
	ContentType string

	// Actual body size in bytes
	ContentLength int64

	// Response body (HTML content)
	Body []byte

	// Total time from request to fully read body
	LoadTime time.Duration

	// When the fetch completed
	FetchedAt time.Time
}

// IsHTML returns true if the content type is HTML.
func (r *Response) IsHTML() bool {
	return r.ContentType == "text/html" || r.ContentType == "application/xhtml+xml"
}
