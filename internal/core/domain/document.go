package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusCompleted  DocumentStatus = "completed"
	StatusRejected   DocumentStatus = "rejected"
)

type DocumentType string

const (
	TypeAadhaar        DocumentType = "aadhaar"
	TypeAadhaarFront   DocumentType = "aadhaar_front"
	TypeAadhaarBack    DocumentType = "aadhaar_back"
	TypePAN            DocumentType = "pan"
	TypePassport       DocumentType = "passport"
	TypeVoterID        DocumentType = "voter_id"
	TypeDrivingLicense DocumentType = "driving_license"
	TypeOther          DocumentType = "other"
)

// ParseDocumentType maps a caller-supplied hint onto a known type,
// falling back to TypeOther for anything unrecognized.
func ParseDocumentType(raw string) DocumentType {
	switch DocumentType(raw) {
	case TypeAadhaar, TypeAadhaarFront, TypeAadhaarBack, TypePAN,
		TypePassport, TypeVoterID, TypeDrivingLicense:
		return DocumentType(raw)
	default:
		return TypeOther
	}
}

type Document struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	MimeType    string         `json:"mime_type"`
	StoragePath string         `json:"storage_path"`
	Type        DocumentType   `json:"type"`
	Status      DocumentStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	Extracted   *ExtractedData `json:"extracted,omitempty"`
	Confidence  float64        `json:"confidence,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ExtractedData holds the structured personal-data fields recovered from a
// document. Unset fields stay empty; a failed single-field extraction never
// fails the document.
type ExtractedData struct {
	Name           string     `json:"name,omitempty"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	Gender         string     `json:"gender,omitempty"`
	AadhaarNumber  string     `json:"aadhaar_number,omitempty"`
	PANNumber      string     `json:"pan_number,omitempty"`
	PassportNumber string     `json:"passport_number,omitempty"`
	LicenseNumber  string     `json:"license_number,omitempty"`
	IssueDate      *time.Time `json:"issue_date,omitempty"`
	ExpiryDate     *time.Time `json:"expiry_date,omitempty"`
	Address        string     `json:"address,omitempty"`
	City           string     `json:"city,omitempty"`
	State          string     `json:"state,omitempty"`
	PinCode        string     `json:"pin_code,omitempty"`
}

// confidentThreshold is the floor above which a classification may override
// the caller-supplied document type.
const confidentThreshold = 0.8

type Classification struct {
	PredictedType DocumentType             `json:"predicted_type"`
	Confidence    float64                  `json:"confidence"`
	Scores        map[DocumentType]float64 `json:"scores,omitempty"`
	Notes         string                   `json:"notes,omitempty"`
}

// Confident reports whether the prediction is strong enough to override a
// caller-supplied type hint.
func (c Classification) Confident() bool {
	return c.Confidence > confidentThreshold
}
