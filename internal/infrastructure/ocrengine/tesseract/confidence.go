package tesseract

import (
	"strings"
	"unicode"
)

// textConfidence estimates recognition quality from the text itself, used
// when per-word confidences are unavailable. Scores favour longer output
// with a high share of alphanumeric characters.
func textConfidence(text string) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}

	alnum := 0
	total := 0
	for _, r := range trimmed {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			alnum++
		}
	}
	if total == 0 {
		return 0
	}

	score := 0.4
	if ratio := float64(alnum) / float64(total); ratio > 0.7 {
		score += 0.25
	}
	if len(strings.Fields(trimmed)) >= 5 {
		score += 0.15
	}
	if len(trimmed) > 100 {
		score += 0.1
	}
	if score > 0.9 {
		score = 0.9
	}
	return score
}
