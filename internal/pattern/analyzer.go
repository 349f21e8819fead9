// Package pattern detects document-identifying codes in OCR text via
// independent regex scans. It is pure: no I/O, no external state.
package pattern

import (
	"regexp"
	"strings"

	"github.com/prasadk/docintake/internal/core/domain"
)

var (
	// 12-digit Aadhaar number, optionally grouped in fours.
	aadhaarPattern = regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`)
	// PAN: 5 letters, 4 digits, 1 letter.
	panPattern = regexp.MustCompile(`\b[A-Z]{5}\d{4}[A-Z]\b`)
	// Indian passport: one letter (no Q/X/Z) followed by 7 digits.
	passportPattern = regexp.MustCompile(`\b[A-PR-WY]\d{7}\b`)

	groupSeparators = strings.NewReplacer(" ", "", "-", "")
)

type Analyzer struct{}

func NewAnalyzer() *Analyzer { return &Analyzer{} }

// Analyze scans text for known ID codes. Absent matches leave the
// corresponding field empty; the confidence contribution grows with the
// number of patterns found.
func (a *Analyzer) Analyze(text, sourceName string) domain.PatternAnalysis {
	_ = sourceName // reserved for source-specific heuristics

	result := domain.PatternAnalysis{Text: text}
	upper := strings.ToUpper(text)

	if match := aadhaarPattern.FindString(text); match != "" {
		digits := groupSeparators.Replace(match)
		if len(digits) == 12 {
			result.AadhaarNumber = digits
		}
	}
	if match := panPattern.FindString(upper); match != "" {
		result.PANNumber = match
	}
	if match := passportPattern.FindString(upper); match != "" {
		result.PassportNumber = match
	}

	result.Confidence = confidence(result)
	return result
}

// confidence blends how many identifying patterns were found with a small
// weight for having substantial text at all. Document-type-specific
// weighting belongs to the field extractor, not here.
func confidence(result domain.PatternAnalysis) float64 {
	score := 0.0
	if len(strings.TrimSpace(result.Text)) > 100 {
		score += 0.2
	}
	if result.AadhaarNumber != "" {
		score += 0.3
	}
	if result.PANNumber != "" {
		score += 0.3
	}
	if result.PassportNumber != "" {
		score += 0.2
	}
	if score > 1 {
		score = 1
	}
	return score
}
