package analyzer

import (
	"fmt"
	"math"

	"github.com/seoscan/seoscan/internal/fetcher"
	"github.com/seoscan/seoscan/internal/parser"
)

// Analyzer runs the five facet analyzers over a fetched document.
// Analyzers are stateless; the same Analyzer may be shared across
// concurrent audits.
type Analyzer struct{}

// New creates a document analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze parses the fetched HTML and runs all facets. Facet analyzers
// are independent: a problem in one document region surfaces as issues
// on that facet, never as an error aborting the others.
func (a *Analyzer) Analyze(res *fetcher.Response) (*HTMLAnalysisResult, error) {
	result, err := a.AnalyzeDocument(res.FinalURL, res.Body)
	if err != nil {
		return nil, err
	}

	result.URL = res.RequestURL
	result.FetchedAt = res.FetchedAt
	result.StatusCode = res.StatusCode
	result.ContentType = res.ContentType
	result.ContentLength = res.ContentLength
	result.LoadTime = res.LoadTime.Milliseconds()

	return result, nil
}

// AnalyzeDocument runs facet analysis over raw HTML without fetch
// metadata. Used directly by tests and one-shot analysis.
func (a *Analyzer) AnalyzeDocument(pageURL string, body []byte) (*HTMLAnalysisResult, error) {
	p, err := parser.New(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}

	doc, err := p.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	result := &HTMLAnalysisResult{
		URL:       pageURL,
		WordCount: doc.WordCount,
		MetaTags:  analyzeMetaTags(doc),
		Headings:  analyzeHeadings(doc),
		Images:    analyzeImages(doc),
		Links:     analyzeLinks(doc, p),
		Schema:    analyzeSchema(doc),
	}

	if len(body) > 0 {
		ratio := float64(len(doc.TextContent)) / float64(len(body)) * 100
		result.TextToHTMLRatio = int(math.Round(ratio))
	}

	return result, nil
}
