//go:build ocr

// Package tesseract wraps the Tesseract OCR engine via gosseract. It
// requires Tesseract to be installed on the system; without the "ocr" build
// tag a stub that always reports unavailable is compiled instead.
package tesseract

import (
	"context"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"

	"github.com/prasadk/docintake/internal/core/domain"
)

const engineName = "tesseract"

type Engine struct{}

func New() *Engine { return &Engine{} }

func (e *Engine) Name() string { return engineName }

// Run recognizes the requested image. The cgo call is synchronous, so it
// runs on its own goroutine and the context deadline is enforced here.
// req.Preprocess is ignored; tesseract reads the image as stored.
func (e *Engine) Run(ctx context.Context, req domain.EngineRequest) (domain.EngineOutcome, error) {
	type recognition struct {
		outcome domain.EngineOutcome
		err     error
	}

	start := time.Now()
	done := make(chan recognition, 1)
	go func() {
		outcome, err := recognize(req.FilePath, req.Languages)
		outcome.Duration = time.Since(start)
		done <- recognition{outcome: outcome, err: err}
	}()

	select {
	case <-ctx.Done():
		return domain.EngineOutcome{Engine: engineName, Duration: time.Since(start)}, ctx.Err()
	case r := <-done:
		return r.outcome, r.err
	}
}

func recognize(filePath string, languages []string) (domain.EngineOutcome, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if len(languages) > 0 {
		if err := client.SetLanguage(languages...); err != nil {
			return domain.EngineOutcome{Engine: engineName}, err
		}
	}
	if err := client.SetImage(filePath); err != nil {
		return domain.EngineOutcome{Engine: engineName}, err
	}

	text, err := client.Text()
	if err != nil {
		return domain.EngineOutcome{Engine: engineName}, err
	}
	text = strings.TrimSpace(text)

	outcome := domain.EngineOutcome{
		Engine:  engineName,
		Success: text != "",
		Text:    text,
	}
	if !outcome.Success {
		outcome.Error = "no text recognized"
		return outcome, nil
	}

	// Word boxes are best-effort; a boxes failure does not fail the read.
	if boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD); err == nil {
		outcome.Words = make([]domain.WordDetail, 0, len(boxes))
		sum := 0.0
		for _, box := range boxes {
			word := domain.WordDetail{
				Text:       box.Word,
				Confidence: box.Confidence / 100,
				Box: domain.BoundingBox{
					X1: box.Box.Min.X,
					Y1: box.Box.Min.Y,
					X2: box.Box.Max.X,
					Y2: box.Box.Max.Y,
				},
			}
			outcome.Words = append(outcome.Words, word)
			sum += word.Confidence
		}
		if len(outcome.Words) > 0 {
			outcome.Confidence = sum / float64(len(outcome.Words))
		}
	}
	if outcome.Confidence == 0 {
		outcome.Confidence = textConfidence(text)
	}
	return outcome, nil
}

func (e *Engine) Healthy(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	client := gosseract.NewClient()
	defer client.Close()
	_, err := client.GetAvailableLanguages()
	return err
}
