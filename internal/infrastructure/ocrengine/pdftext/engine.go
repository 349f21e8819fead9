// Package pdftext is the embedded-text probe engine for born-digital PDFs:
// when a scanned document arrives as a PDF with a text layer, reading that
// layer beats re-recognizing pixels, so this engine reports high confidence
// and the orchestrator rarely needs a fallback.
package pdftext

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/prasadk/docintake/internal/core/domain"
)

const engineName = "pdftext"

// Embedded text is exact where present; the small discount covers layout
// loss in the plain-text flattening.
const textLayerConfidence = 0.95

var errNoTextLayer = errors.New("pdf has no embedded text layer")

type Engine struct{}

func New() *Engine { return &Engine{} }

func (e *Engine) Name() string { return engineName }

func (e *Engine) Run(ctx context.Context, req domain.EngineRequest) (domain.EngineOutcome, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return domain.EngineOutcome{Engine: engineName}, err
	}
	if !strings.EqualFold(filepath.Ext(req.FilePath), ".pdf") {
		return domain.EngineOutcome{Engine: engineName, Duration: time.Since(start)},
			fmt.Errorf("not a pdf: %s", filepath.Base(req.FilePath))
	}

	f, reader, err := pdf.Open(req.FilePath)
	if err != nil {
		return domain.EngineOutcome{Engine: engineName, Duration: time.Since(start)},
			fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return domain.EngineOutcome{Engine: engineName, Duration: time.Since(start)},
			fmt.Errorf("read pdf text: %w", err)
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return domain.EngineOutcome{Engine: engineName, Duration: time.Since(start)},
			fmt.Errorf("read pdf text: %w", err)
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return domain.EngineOutcome{Engine: engineName, Duration: time.Since(start)}, errNoTextLayer
	}

	return domain.EngineOutcome{
		Engine:     engineName,
		Success:    true,
		Text:       text,
		Confidence: textLayerConfidence,
		Duration:   time.Since(start),
	}, nil
}

func (e *Engine) Healthy(ctx context.Context) error {
	return ctx.Err()
}
