package analyzer

import (
	"github.com/seoscan/seoscan/internal/parser"
)

// analyzeImages captures every image element, distinguishing an absent
// alt attribute from an empty one (empty alt marks a decorative image).
func analyzeImages(doc *parser.Document) *ImagesResult {
	result := &ImagesResult{
		Images: make([]ImageInfo, 0),
		Issues: make([]FacetIssue, 0),
	}

	for _, img := range doc.Images {
		isDecorative := img.HasAlt && img.Alt == ""

		info := ImageInfo{
			Src:          img.Src,
			Alt:          img.Alt,
			Width:        img.Width,
			Height:       img.Height,
			Loading:      img.Loading,
			HasAlt:       img.HasAlt,
			IsDecorative: isDecorative,
		}
		result.Images = append(result.Images, info)

		if !img.HasAlt {
			result.Issues = append(result.Issues, FacetIssue{
				Type:     IssueMissingAlt,
				Subject:  img.Src,
				Message:  "Image is missing alt attribute",
				Severity: SeverityCritical,
			})
		}

		// Missing dimensions risk layout shift.
		if img.Width == "" || img.Height == "" {
			result.Issues = append(result.Issues, FacetIssue{
				Type:     IssueMissingDims,
				Subject:  img.Src,
				Message:  "Image is missing width/height attributes (may cause layout shift)",
				Severity: SeverityWarning,
			})
		}
	}

	result.Total = len(result.Images)
	for _, info := range result.Images {
		switch {
		case !info.HasAlt:
			result.WithoutAlt++
		case info.IsDecorative:
			result.Decorative++
		default:
			result.WithAlt++
		}
	}

	return result
}
