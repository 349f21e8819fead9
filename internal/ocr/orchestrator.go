// Package ocr orchestrates pluggable text-recognition engines: it runs a
// preferred engine with retries and a per-attempt timeout, falls back to a
// secondary engine when the primary fails or reads below the configured
// confidence floor, and merges the outcomes into one result.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prasadk/docintake/internal/core/domain"
	"github.com/prasadk/docintake/internal/core/ports"
)

const (
	defaultLanguage            = "eng"
	defaultTimeout             = 30 * time.Second
	defaultSimilarityThreshold = 0.5
)

// Observer receives per-invocation engine stats. Implemented by the metrics
// layer; a nil observer disables instrumentation.
type Observer interface {
	ObserveEngine(engine string, success bool, confidence float64, duration time.Duration)
}

type Orchestrator struct {
	engines  map[string]ports.OcrEngine
	order    []string
	health   *HealthRegistry
	observer Observer
	log      *slog.Logger
}

// NewOrchestrator registers engines in fallback order: when the preferred
// engine underperforms, the next registered engine is tried.
func NewOrchestrator(health *HealthRegistry, log *slog.Logger, engines ...ports.OcrEngine) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	o := &Orchestrator{
		engines: make(map[string]ports.OcrEngine, len(engines)),
		health:  health,
		log:     log,
	}
	for _, engine := range engines {
		if _, exists := o.engines[engine.Name()]; exists {
			continue
		}
		o.engines[engine.Name()] = engine
		o.order = append(o.order, engine.Name())
	}
	return o
}

// SetObserver attaches invocation instrumentation. Not safe to call after
// ExtractText is in use; wire it during bootstrap.
func (o *Orchestrator) SetObserver(obs Observer) { o.observer = obs }

// Engines returns the registered engines in fallback order.
func (o *Orchestrator) Engines() []ports.OcrEngine {
	out := make([]ports.OcrEngine, 0, len(o.order))
	for _, name := range o.order {
		out = append(out, o.engines[name])
	}
	return out
}

// ExtractText runs the orchestration for one file. It never returns an
// error: engine failures become failed outcomes, and the result is
// unsuccessful only when every attempted engine failed.
func (o *Orchestrator) ExtractText(ctx context.Context, filePath string, opts domain.OcrOptions) domain.OcrResult {
	opts = normalizeOptions(opts)

	primary := o.pick(opts.PreferredEngine)
	if primary == nil {
		return domain.OcrResult{
			Success: false,
			Errors:  []string{"no ocr engines registered"},
		}
	}

	result := domain.OcrResult{PrimaryEngine: primary.Name()}
	best := o.invoke(ctx, primary, filePath, opts)
	result.Outcomes = append(result.Outcomes, best)

	if o.shouldFallback(best, opts) {
		if fallback := o.fallbackFor(primary.Name()); fallback != nil {
			o.log.Warn("primary engine below threshold, invoking fallback",
				"primary", primary.Name(),
				"fallback", fallback.Name(),
				"confidence", best.Confidence,
				"minimum_confidence", opts.MinimumConfidence,
			)
			second := o.invoke(ctx, fallback, filePath, opts)
			result.FallbackEngine = fallback.Name()
			result.Outcomes = append(result.Outcomes, second)

			if opts.CompareResults && best.Success && second.Success {
				if advisory := o.compare(best, second, opts.SimilarityThreshold); advisory != "" {
					result.Errors = append(result.Errors, advisory)
				}
			}
			// Higher-confidence read wins the merge; both outcomes stay in
			// the result for audit.
			if second.Success && (!best.Success || second.Confidence > best.Confidence) {
				best = second
			}
		}
	}

	if !best.Success {
		result.Success = false
		for _, outcome := range result.Outcomes {
			if outcome.Error != "" {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", outcome.Engine, outcome.Error))
			} else if !outcome.Success {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: produced no text", outcome.Engine))
			}
		}
		return result
	}

	result.Success = true
	result.Text = best.Text
	result.Confidence = best.Confidence
	return result
}

// invoke runs one engine with bounded retries and a per-attempt timeout,
// updating the health registry for each attempt's final outcome.
func (o *Orchestrator) invoke(ctx context.Context, engine ports.OcrEngine, filePath string, opts domain.OcrOptions) domain.EngineOutcome {
	attempts := opts.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var outcome domain.EngineOutcome
	for attempt := 1; attempt <= attempts; attempt++ {
		outcome = o.runOnce(ctx, engine, filePath, opts)
		o.health.Record(engine.Name(), outcome.Success)
		if o.observer != nil {
			o.observer.ObserveEngine(engine.Name(), outcome.Success, outcome.Confidence, outcome.Duration)
		}
		if outcome.Success || ctx.Err() != nil {
			break
		}
		if attempt < attempts {
			o.log.Warn("engine attempt failed, retrying",
				"engine", engine.Name(),
				"attempt", attempt,
				"max_attempts", attempts,
				"error", outcome.Error,
			)
		}
	}
	return outcome
}

func (o *Orchestrator) runOnce(ctx context.Context, engine ports.OcrEngine, filePath string, opts domain.OcrOptions) domain.EngineOutcome {
	runCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	start := time.Now()
	outcome, err := engine.Run(runCtx, domain.EngineRequest{
		FilePath:   filePath,
		Languages:  opts.Languages,
		Preprocess: opts.PreprocessImage,
	})
	if err != nil {
		// A raising engine is captured as a failed outcome, never a fatal
		// orchestration error; a timeout lands here too.
		return domain.EngineOutcome{
			Engine:   engine.Name(),
			Success:  false,
			Error:    err.Error(),
			Duration: time.Since(start),
		}
	}
	outcome.Engine = engine.Name()
	if outcome.Duration == 0 {
		outcome.Duration = time.Since(start)
	}
	return outcome
}

func (o *Orchestrator) shouldFallback(outcome domain.EngineOutcome, opts domain.OcrOptions) bool {
	if !opts.EnableFallback {
		return false
	}
	return !outcome.Success || outcome.Confidence < opts.MinimumConfidence
}

func (o *Orchestrator) pick(preferred string) ports.OcrEngine {
	if preferred != "" {
		if engine, ok := o.engines[preferred]; ok {
			return engine
		}
		o.log.Warn("preferred engine not registered, using default order", "preferred", preferred)
	}
	if len(o.order) == 0 {
		return nil
	}
	return o.engines[o.order[0]]
}

// fallbackFor returns the first registered engine other than the primary.
func (o *Orchestrator) fallbackFor(primary string) ports.OcrEngine {
	for _, name := range o.order {
		if name != primary {
			return o.engines[name]
		}
	}
	return nil
}

// compare returns a non-fatal quality advisory when two successful reads
// disagree beyond the similarity threshold.
func (o *Orchestrator) compare(a, b domain.EngineOutcome, threshold float64) string {
	similarity := Similarity(a.Text, b.Text)
	if similarity >= threshold {
		return ""
	}
	advisory := fmt.Sprintf("quality: %s and %s disagree, similarity %.2f below %.2f",
		a.Engine, b.Engine, similarity, threshold)
	o.log.Warn("engine outputs disagree",
		"engine_a", a.Engine,
		"engine_b", b.Engine,
		"similarity", similarity,
		"threshold", threshold,
	)
	return advisory
}

func normalizeOptions(opts domain.OcrOptions) domain.OcrOptions {
	out := opts
	if len(out.Languages) == 0 {
		out.Languages = []string{defaultLanguage}
	}
	if out.Timeout <= 0 {
		out.Timeout = defaultTimeout
	}
	if out.MinimumConfidence < 0 {
		out.MinimumConfidence = 0
	}
	if out.MinimumConfidence > 1 {
		out.MinimumConfidence = 1
	}
	if out.SimilarityThreshold <= 0 {
		out.SimilarityThreshold = defaultSimilarityThreshold
	}
	return out
}
