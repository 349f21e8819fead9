package domain

import "time"

// BoundingBox is a word's pixel rectangle in the source image.
type BoundingBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// WordDetail is a single recognized word with its confidence and position.
type WordDetail struct {
	Text       string      `json:"text"`
	Confidence float64     `json:"confidence"`
	Box        BoundingBox `json:"box"`
}

// EngineRequest is the per-invocation input handed to one engine. Engines
// without a preprocessing stage ignore Preprocess.
type EngineRequest struct {
	FilePath   string
	Languages  []string
	Preprocess bool
}

// EngineOutcome is one OCR engine invocation. It is created once per
// invocation and never mutated afterwards; failed invocations carry
// Success=false and a populated Error instead of aborting orchestration.
type EngineOutcome struct {
	Engine     string        `json:"engine"`
	Success    bool          `json:"success"`
	Text       string        `json:"text,omitempty"`
	Confidence float64       `json:"confidence"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"`
	Words      []WordDetail  `json:"words,omitempty"`
}

// OcrResult is the merged output of one orchestration run. Confidence equals
// the chosen outcome's confidence, not an average across engines.
type OcrResult struct {
	Success        bool            `json:"success"`
	Text           string          `json:"text,omitempty"`
	Confidence     float64         `json:"confidence"`
	PrimaryEngine  string          `json:"primary_engine"`
	FallbackEngine string          `json:"fallback_engine,omitempty"`
	Outcomes       []EngineOutcome `json:"outcomes,omitempty"`
	Errors         []string        `json:"errors,omitempty"`
}

// OcrOptions is the per-request processing configuration handed to the
// orchestrator. Zero values are replaced with defaults before use.
type OcrOptions struct {
	Languages           []string      `json:"languages,omitempty"`
	PreferredEngine     string        `json:"preferred_engine,omitempty"`
	EnableFallback      bool          `json:"enable_fallback"`
	PreprocessImage     bool          `json:"preprocess_image"`
	MinimumConfidence   float64       `json:"minimum_confidence"`
	Timeout             time.Duration `json:"timeout"`
	MaxRetries          int           `json:"max_retries"`
	CompareResults      bool          `json:"compare_results"`
	SimilarityThreshold float64       `json:"similarity_threshold"`
}

// PatternAnalysis is the pure regex scan over OCR text for
// document-identifying codes. Absent matches leave fields empty.
type PatternAnalysis struct {
	Text           string  `json:"text"`
	AadhaarNumber  string  `json:"aadhaar_number,omitempty"`
	PANNumber      string  `json:"pan_number,omitempty"`
	PassportNumber string  `json:"passport_number,omitempty"`
	Confidence     float64 `json:"confidence"`
}

// ExtractionResult is the structured output handed to the persistence
// collaborator. Confidence is 0.7*ocr + 0.3*pattern.
type ExtractionResult struct {
	Success    bool          `json:"success"`
	Fields     ExtractedData `json:"fields"`
	Confidence float64       `json:"confidence"`
	RawText    string        `json:"raw_text,omitempty"`
	Errors     []string      `json:"errors,omitempty"`
}
