package ports

import (
	"context"
	"io"
	"time"

	"github.com/prasadk/docintake/internal/core/domain"
)

// DocumentRepository persists and reads document state. It is the
// persistence collaborator: the pipeline never talks to a database directly.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveExtraction(ctx context.Context, id string, docType domain.DocumentType, result domain.ExtractionResult) error
}

// ObjectStorage stores source document files and resolves them to readable
// paths for the OCR engines.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Resolve(key string) (string, error)
}

// MessageQueue publishes/consumes document processing requests.
type MessageQueue interface {
	PublishProcessRequest(ctx context.Context, documentID string) error
	SubscribeProcessRequests(ctx context.Context, handler func(context.Context, string) error) error
}

// OcrEngine is a pluggable black-box text-recognition capability.
// Run returns a failed outcome or an error for unreadable input; either way
// the orchestrator records it and may try another engine.
type OcrEngine interface {
	Name() string
	Run(ctx context.Context, req domain.EngineRequest) (domain.EngineOutcome, error)
	Healthy(ctx context.Context) error
}

// TextRecognizer is the orchestration contract the pipeline depends on.
type TextRecognizer interface {
	ExtractText(ctx context.Context, filePath string, opts domain.OcrOptions) domain.OcrResult
}

// DocumentClassifier predicts a document type from the stored file.
// Implementations must be deterministic for identical input.
type DocumentClassifier interface {
	Classify(ctx context.Context, filePath, fileName string) (domain.Classification, error)
}

// PatternAnalyzer scans OCR text for document-identifying codes.
type PatternAnalyzer interface {
	Analyze(text, sourceName string) domain.PatternAnalysis
}

// FieldExtractor converts OCR text into structured personal-data fields.
type FieldExtractor interface {
	Extract(ocr domain.OcrResult, docType domain.DocumentType, pattern domain.PatternAnalysis) domain.ExtractionResult
}

// ResultCache is a short-lived key/value store keyed by a prefix taxonomy
// (user:, document:, analytics:, ...). A ttl <= 0 selects the prefix default.
// All operations except GetOrSet's producer swallow their own errors and
// degrade to a miss/no-op.
type ResultCache interface {
	Get(key string, out any) bool
	Set(key string, value any, ttl time.Duration)
	Remove(key string)
	RemoveByPattern(substring string)
	GetOrSet(ctx context.Context, key string, ttl time.Duration, out any, produce func(context.Context) (any, error)) error
}
