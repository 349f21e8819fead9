package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prasadk/docintake/internal/core/domain"
	"github.com/prasadk/docintake/internal/core/ports"
)

// ProcessDocumentUseCase sequences classification, OCR, pattern analysis and
// field extraction for one document and owns the status transitions
// uploaded -> processing -> {completed, rejected}.
type ProcessDocumentUseCase struct {
	repo       ports.DocumentRepository
	storage    ports.ObjectStorage
	classifier ports.DocumentClassifier
	recognizer ports.TextRecognizer
	analyzer   ports.PatternAnalyzer
	extractor  ports.FieldExtractor
	cache      ports.ResultCache
	ocrOpts    domain.OcrOptions
	log        *slog.Logger
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	classifier ports.DocumentClassifier,
	recognizer ports.TextRecognizer,
	analyzer ports.PatternAnalyzer,
	extractor ports.FieldExtractor,
	cache ports.ResultCache,
	ocrOpts domain.OcrOptions,
	log *slog.Logger,
) *ProcessDocumentUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &ProcessDocumentUseCase{
		repo:       repo,
		storage:    storage,
		classifier: classifier,
		recognizer: recognizer,
		analyzer:   analyzer,
		extractor:  extractor,
		cache:      cache,
		ocrOpts:    ocrOpts,
		log:        log,
	}
}

// pipelineOutcome is the memoizable result of one full pipeline run.
type pipelineOutcome struct {
	DocumentType   domain.DocumentType     `json:"document_type"`
	Classification domain.Classification   `json:"classification"`
	Ocr            domain.OcrResult        `json:"ocr"`
	Extraction     domain.ExtractionResult `json:"extraction"`
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.markStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	outcome, err := uc.runPipeline(ctx, documentID)
	if err != nil {
		uc.log.Error("pipeline rejected",
			"document_id", documentID,
			"error", err,
		)
		if rejErr := uc.markRejected(ctx, documentID, err); rejErr != nil {
			return fmt.Errorf("%w; mark rejected status: %v", err, rejErr)
		}
		return err
	}

	if err := uc.persistOutcome(ctx, documentID, outcome); err != nil {
		if rejErr := uc.markRejected(ctx, documentID, err); rejErr != nil {
			return fmt.Errorf("%w; mark rejected status: %v", err, rejErr)
		}
		return err
	}

	if err := uc.markStatus(ctx, documentID, domain.StatusCompleted, ""); err != nil {
		return fmt.Errorf("set status=completed: %w", err)
	}
	return nil
}

// runPipeline executes the staged pipeline, memoized through the result cache
// so a reprocessing request within the document TTL replays persistence
// without re-running the engines.
func (uc *ProcessDocumentUseCase) runPipeline(ctx context.Context, documentID string) (*pipelineOutcome, error) {
	if uc.cache == nil {
		return uc.runStages(ctx, documentID)
	}

	key := "document:" + documentID + ":result"
	var cached pipelineOutcome
	var fresh *pipelineOutcome
	err := uc.cache.GetOrSet(ctx, key, 0, &cached, func(ctx context.Context) (any, error) {
		outcome, err := uc.runStages(ctx, documentID)
		if err != nil {
			return nil, err
		}
		fresh = outcome
		return outcome, nil
	})
	if err != nil {
		return nil, err
	}
	if fresh != nil {
		return fresh, nil
	}
	return &cached, nil
}

func (uc *ProcessDocumentUseCase) runStages(ctx context.Context, documentID string) (*pipelineOutcome, error) {
	doc, err := uc.loadDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	filePath, err := uc.storage.Resolve(doc.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("stage resolve: %w", err)
	}

	classification := uc.classify(ctx, doc, filePath)
	docType := doc.Type
	if classification.Confident() && classification.PredictedType != docType {
		uc.log.Info("classification overrides type hint",
			"document_id", doc.ID,
			"hint", docType,
			"predicted", classification.PredictedType,
			"confidence", classification.Confidence,
		)
		docType = classification.PredictedType
	}

	ocrResult := uc.recognizer.ExtractText(ctx, filePath, uc.ocrOpts)
	if !ocrResult.Success {
		return nil, fmt.Errorf("stage ocr: %w", errors.New(joinErrors(ocrResult.Errors)))
	}

	patternResult := uc.analyzer.Analyze(ocrResult.Text, doc.Filename)
	extraction := uc.extractor.Extract(ocrResult, docType, patternResult)

	return &pipelineOutcome{
		DocumentType:   docType,
		Classification: classification,
		Ocr:            ocrResult,
		Extraction:     extraction,
	}, nil
}

func (uc *ProcessDocumentUseCase) loadDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("stage load: %w", err)
	}
	return doc, nil
}

// classify is best-effort: a classifier failure degrades to the stored type
// hint with zero confidence and never aborts the pipeline.
func (uc *ProcessDocumentUseCase) classify(ctx context.Context, doc *domain.Document, filePath string) domain.Classification {
	if uc.classifier == nil {
		return domain.Classification{PredictedType: doc.Type}
	}
	classification, err := uc.classifier.Classify(ctx, filePath, doc.Filename)
	if err != nil {
		uc.log.Warn("classification failed, keeping type hint",
			"document_id", doc.ID,
			"hint", doc.Type,
			"error", err,
		)
		return domain.Classification{PredictedType: doc.Type}
	}
	return classification
}

func (uc *ProcessDocumentUseCase) persistOutcome(ctx context.Context, documentID string, outcome *pipelineOutcome) error {
	if err := uc.repo.SaveExtraction(ctx, documentID, outcome.DocumentType, outcome.Extraction); err != nil {
		return fmt.Errorf("save extraction: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *ProcessDocumentUseCase) markRejected(ctx context.Context, documentID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, documentID, domain.StatusRejected, processErr.Error())
}

func joinErrors(messages []string) string {
	if len(messages) == 0 {
		return "ocr produced no result"
	}
	return strings.Join(messages, "; ")
}
