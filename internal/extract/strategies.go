package extract

import (
	"regexp"
	"strings"

	"github.com/prasadk/docintake/internal/core/domain"
)

// Driving licence numbers like "MH12 20110012345" or "KA-01-2011-0012345".
var licensePattern = regexp.MustCompile(`\b[A-Z]{2}[-\s]?\d{2}[-\s]?\d{4}[-\s]?\d{7}\b`)

func extractAadhaar(text string, pattern domain.PatternAnalysis, fields *domain.ExtractedData) {
	fields.AadhaarNumber = pattern.AadhaarNumber
	fields.Name = extractName(text)
	fields.DateOfBirth = extractDateOfBirth(text)
	fields.Gender = extractGender(text)
	fields.Address = extractAddress(text)
	fields.City = extractCity(text)
	fields.State = extractState(text)
	fields.PinCode = extractPinCode(text)
}

func extractPAN(text string, pattern domain.PatternAnalysis, fields *domain.ExtractedData) {
	fields.PANNumber = pattern.PANNumber
	fields.Name = extractName(text)
	fields.DateOfBirth = extractDateOfBirth(text)
}

func extractPassport(text string, pattern domain.PatternAnalysis, fields *domain.ExtractedData) {
	fields.PassportNumber = pattern.PassportNumber
	fields.Name = extractName(text)
	fields.DateOfBirth = extractDateOfBirth(text)
	fields.Gender = extractGender(text)
	fields.IssueDate = extractIssueDate(text)
	fields.ExpiryDate = extractExpiryDate(text)
}

func extractDrivingLicense(text string, pattern domain.PatternAnalysis, fields *domain.ExtractedData) {
	if match := licensePattern.FindString(strings.ToUpper(text)); match != "" {
		fields.LicenseNumber = match
	}
	fields.Name = extractName(text)
	fields.DateOfBirth = extractDateOfBirth(text)
	fields.IssueDate = extractIssueDate(text)
	fields.ExpiryDate = extractExpiryDate(text)
	fields.Address = extractAddress(text)
	fields.PinCode = extractPinCode(text)
}

// extractCommon is the generic strategy for voter IDs and unknown documents:
// every shared heuristic plus whatever codes the pattern scan found.
func extractCommon(text string, pattern domain.PatternAnalysis, fields *domain.ExtractedData) {
	fillIdentifiers(pattern, fields)
	fields.Name = extractName(text)
	fields.DateOfBirth = extractDateOfBirth(text)
	fields.Gender = extractGender(text)
	fields.Address = extractAddress(text)
	fields.State = extractState(text)
	fields.PinCode = extractPinCode(text)
}
