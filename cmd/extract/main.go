// Command extract runs the intake pipeline on a single local file and prints
// the result as JSON. It needs no database or queue, which makes it the
// quickest way to inspect what the extractor recovers from a scan.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/prasadk/docintake/internal/classify"
	"github.com/prasadk/docintake/internal/config"
	"github.com/prasadk/docintake/internal/core/domain"
	"github.com/prasadk/docintake/internal/extract"
	"github.com/prasadk/docintake/internal/infrastructure/ocrengine/pdftext"
	"github.com/prasadk/docintake/internal/infrastructure/ocrengine/tesseract"
	"github.com/prasadk/docintake/internal/infrastructure/ocrengine/vision"
	"github.com/prasadk/docintake/internal/observability/logging"
	"github.com/prasadk/docintake/internal/ocr"
	"github.com/prasadk/docintake/internal/pattern"
)

type output struct {
	Classification domain.Classification   `json:"classification"`
	DocumentType   domain.DocumentType     `json:"document_type"`
	Ocr            domain.OcrResult        `json:"ocr"`
	Extraction     domain.ExtractionResult `json:"extraction"`
	EngineHealth   []ocr.HealthSnapshot    `json:"engine_health"`
}

func main() {
	filePath := flag.String("file", "", "path to the document image or pdf")
	typeHint := flag.String("type", string(domain.TypeOther), "document type hint")
	flag.Parse()

	if *filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := logging.NewJSONLogger("docintake-extract", cfg.LogLevel)

	ctx := context.Background()
	health := ocr.NewHealthRegistry()
	orchestrator := ocr.NewOrchestrator(health, logger,
		pdftext.New(),
		tesseract.New(),
		vision.New(cfg.VisionURL, nil, cfg.VisionRPS),
	)

	docType := domain.ParseDocumentType(*typeHint)
	fileName := filepath.Base(*filePath)

	classification, err := classify.NewHeuristic().Classify(ctx, *filePath, fileName)
	if err != nil {
		logger.Warn("classification failed, keeping type hint", "error", err)
		classification = domain.Classification{PredictedType: docType}
	}
	if classification.Confident() && classification.PredictedType != docType {
		docType = classification.PredictedType
	}

	ocrResult := orchestrator.ExtractText(ctx, *filePath, cfg.OcrOptions())
	patternResult := pattern.NewAnalyzer().Analyze(ocrResult.Text, fileName)
	extraction := extract.NewExtractor().Extract(ocrResult, docType, patternResult)

	encoded, err := json.MarshalIndent(output{
		Classification: classification,
		DocumentType:   docType,
		Ocr:            ocrResult,
		Extraction:     extraction,
		EngineHealth:   health.Snapshot(),
	}, "", "  ")
	if err != nil {
		log.Fatalf("encode output: %v", err)
	}
	fmt.Println(string(encoded))
}
