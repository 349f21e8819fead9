//go:build !ocr

// Package tesseract wraps the Tesseract OCR engine via gosseract.
//
// This is the stub compiled when the "ocr" build tag is not set: every
// invocation fails with ErrNotEnabled, which the orchestrator records as a
// failed outcome and routes to the fallback engine. Rebuild with
//
//	go build -tags ocr
//
// and a system Tesseract install to enable it.
package tesseract

import (
	"context"
	"errors"

	"github.com/prasadk/docintake/internal/core/domain"
)

const engineName = "tesseract"

// ErrNotEnabled is returned when Tesseract support was not compiled in.
var ErrNotEnabled = errors.New("tesseract support not enabled; rebuild with -tags ocr")

type Engine struct{}

func New() *Engine { return &Engine{} }

func (e *Engine) Name() string { return engineName }

func (e *Engine) Run(ctx context.Context, req domain.EngineRequest) (domain.EngineOutcome, error) {
	return domain.EngineOutcome{Engine: engineName}, ErrNotEnabled
}

func (e *Engine) Healthy(ctx context.Context) error {
	return ErrNotEnabled
}
