// Package extract turns OCR text into structured personal-data fields.
// Extraction dispatches on document type through a strategy map; adding a
// type means adding a variant and a strategy, never branching deeper.
package extract

import (
	"strings"

	"github.com/prasadk/docintake/internal/core/domain"
)

// strategy fills a subset of the extraction fields from OCR text and
// pattern-analysis output. Strategies are pure and must not fail: a field
// whose heuristic does not match simply stays unset.
type strategy func(text string, pattern domain.PatternAnalysis, fields *domain.ExtractedData)

type Extractor struct {
	strategies map[domain.DocumentType]strategy
}

func NewExtractor() *Extractor {
	return &Extractor{
		strategies: map[domain.DocumentType]strategy{
			domain.TypeAadhaar:        extractAadhaar,
			domain.TypeAadhaarFront:   extractAadhaar,
			domain.TypeAadhaarBack:    extractAadhaar,
			domain.TypePAN:            extractPAN,
			domain.TypePassport:       extractPassport,
			domain.TypeDrivingLicense: extractDrivingLicense,
			domain.TypeVoterID:        extractCommon,
			domain.TypeOther:          extractCommon,
		},
	}
}

// Extract produces the structured result for one document. The overall
// confidence is 0.7*ocr + 0.3*pattern; a blank OCR text is the one hard
// failure and yields success=false with zero confidence.
func (e *Extractor) Extract(ocr domain.OcrResult, docType domain.DocumentType, pattern domain.PatternAnalysis) domain.ExtractionResult {
	text := ocr.Text
	if strings.TrimSpace(text) == "" {
		return domain.ExtractionResult{
			Success: false,
			Errors:  []string{"ocr text is empty"},
		}
	}

	result := domain.ExtractionResult{
		Success: true,
		RawText: text,
	}

	apply, ok := e.strategies[docType]
	if !ok {
		apply = extractCommon
	}
	apply(text, pattern, &result.Fields)

	result.Confidence = clamp(0.7*ocr.Confidence + 0.3*pattern.Confidence)
	return result
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
