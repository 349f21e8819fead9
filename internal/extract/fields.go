package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/prasadk/docintake/internal/core/domain"
)

var (
	namePattern    = regexp.MustCompile(`^[A-Za-z ]+$`)
	pinCodePattern = regexp.MustCompile(`\b\d{6}\b`)

	dobDatePattern    = labeledDatePattern("dob", "date of birth", "birth")
	issueDatePattern  = labeledDatePattern("date of issue", "issued", "issue")
	expiryDatePattern = labeledDatePattern("date of expiry", "expires", "expiry", "valid till", "valid until")

	// Supported date layouts, day-first preferred. First layout that parses
	// wins; anything else leaves the field unset.
	dateLayouts = []string{"02/01/2006", "02-01-2006", "01/02/2006", "01-02-2006"}
)

func labeledDatePattern(labels ...string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?i)(?:%s)\s*[:.\-]?\s*(\d{2}[/-]\d{2}[/-]\d{4})`,
		strings.Join(labels, "|")))
}

// extractName scans line by line for the first plausible person name:
// 4-49 characters, alphabetic with spaces, no digits, and not a header line
// mentioning government or india. Heuristic only; noisy scans can mismatch.
func extractName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		candidate := strings.TrimSpace(line)
		if len(candidate) <= 3 || len(candidate) >= 50 {
			continue
		}
		if strings.ContainsFunc(candidate, unicode.IsDigit) {
			continue
		}
		lower := strings.ToLower(candidate)
		if strings.Contains(lower, "government") || strings.Contains(lower, "india") {
			continue
		}
		if !namePattern.MatchString(candidate) {
			continue
		}
		return candidate
	}
	return ""
}

// extractLabeledDate finds a date token following one of the label prefixes
// and parses it against the supported layouts. Unparseable or absent dates
// return nil, never an error.
func extractLabeledDate(text string, pattern *regexp.Regexp) *time.Time {
	match := pattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, match[1]); err == nil {
			return &parsed
		}
	}
	return nil
}

func extractDateOfBirth(text string) *time.Time {
	return extractLabeledDate(text, dobDatePattern)
}

func extractIssueDate(text string) *time.Time {
	return extractLabeledDate(text, issueDatePattern)
}

func extractExpiryDate(text string) *time.Time {
	return extractLabeledDate(text, expiryDatePattern)
}

// extractGender looks for male/female case-insensitively. "male" counts only
// when "female" is absent, since it is a substring of "female".
func extractGender(text string) string {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "female") {
		return "Female"
	}
	if strings.Contains(lower, "male") {
		return "Male"
	}
	return ""
}

// extractAddress collects up to two lines that look like address text:
// longer than 10 characters and either naming a street/road or combining a
// digit with a comma.
func extractAddress(text string) string {
	var parts []string
	for _, line := range strings.Split(text, "\n") {
		candidate := strings.TrimSpace(line)
		if len(candidate) <= 10 {
			continue
		}
		lower := strings.ToLower(candidate)
		streetLike := strings.Contains(lower, "street") || strings.Contains(lower, "road")
		numbered := strings.ContainsFunc(candidate, unicode.IsDigit) && strings.Contains(candidate, ",")
		if !streetLike && !numbered {
			continue
		}
		parts = append(parts, candidate)
		if len(parts) == 2 {
			break
		}
	}
	return strings.Join(parts, ", ")
}

// extractPinCode returns the first standalone 6-digit token.
func extractPinCode(text string) string {
	return pinCodePattern.FindString(text)
}

// indianStates backs the state heuristic; matching is case-insensitive
// substring search over the whole text.
var indianStates = []string{
	"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh",
	"Goa", "Gujarat", "Haryana", "Himachal Pradesh", "Jharkhand", "Karnataka",
	"Kerala", "Madhya Pradesh", "Maharashtra", "Manipur", "Meghalaya",
	"Mizoram", "Nagaland", "Odisha", "Punjab", "Rajasthan", "Sikkim",
	"Tamil Nadu", "Telangana", "Tripura", "Uttar Pradesh", "Uttarakhand",
	"West Bengal", "Delhi", "Puducherry", "Chandigarh", "Jammu and Kashmir",
	"Ladakh",
}

func extractState(text string) string {
	lower := strings.ToLower(text)
	for _, state := range indianStates {
		if strings.Contains(lower, strings.ToLower(state)) {
			return state
		}
	}
	return ""
}

// extractCity takes the comma-separated token immediately preceding the PIN
// code on its line, e.g. "..., Pune, 411001".
func extractCity(text string) string {
	for _, line := range strings.Split(text, "\n") {
		pin := pinCodePattern.FindStringIndex(line)
		if pin == nil {
			continue
		}
		before := strings.TrimRight(strings.TrimSpace(line[:pin[0]]), ",- ")
		segments := strings.Split(before, ",")
		candidate := strings.TrimSpace(segments[len(segments)-1])
		if candidate == "" || strings.ContainsFunc(candidate, unicode.IsDigit) {
			continue
		}
		return candidate
	}
	return ""
}

// fillIdentifiers copies every code the pattern scan already found.
func fillIdentifiers(pattern domain.PatternAnalysis, fields *domain.ExtractedData) {
	if pattern.AadhaarNumber != "" {
		fields.AadhaarNumber = pattern.AadhaarNumber
	}
	if pattern.PANNumber != "" {
		fields.PANNumber = pattern.PANNumber
	}
	if pattern.PassportNumber != "" {
		fields.PassportNumber = pattern.PassportNumber
	}
}
