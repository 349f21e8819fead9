// Package vision is the remote OCR engine adapter: it ships the image to an
// HTTP recognition service and maps the response onto an engine outcome.
// Calls run through the resilience executor (retry + circuit breaker) and a
// client-side rate limiter.
package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/prasadk/docintake/internal/core/domain"
	"github.com/prasadk/docintake/internal/infrastructure/resilience"
)

const engineName = "vision"

type Engine struct {
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor
	limiter    *rate.Limiter
}

// New builds the engine. requestsPerSecond <= 0 disables rate limiting;
// executor may be nil to call the service directly.
func New(baseURL string, executor *resilience.Executor, requestsPerSecond float64) *Engine {
	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return &Engine{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		executor:   executor,
		limiter:    limiter,
	}
}

func (e *Engine) Name() string { return engineName }

type recognizeRequest struct {
	Image      string   `json:"image"`
	Languages  []string `json:"languages,omitempty"`
	Preprocess bool     `json:"preprocess,omitempty"`
}

type recognizeResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Words      []struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
		Box        [4]int  `json:"box"`
	} `json:"words,omitempty"`
}

func (e *Engine) Run(ctx context.Context, req domain.EngineRequest) (domain.EngineOutcome, error) {
	start := time.Now()

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return domain.EngineOutcome{Engine: engineName, Duration: time.Since(start)}, err
		}
	}

	raw, err := os.ReadFile(req.FilePath)
	if err != nil {
		return domain.EngineOutcome{Engine: engineName, Duration: time.Since(start)},
			fmt.Errorf("read source image: %w", err)
	}

	request := recognizeRequest{
		Image:      base64.StdEncoding.EncodeToString(raw),
		Languages:  req.Languages,
		Preprocess: req.Preprocess,
	}

	var response recognizeResponse
	call := func(ctx context.Context) error {
		return e.postJSON(ctx, "/v1/recognize", request, &response, "recognize")
	}
	if e.executor != nil {
		err = e.executor.Execute(ctx, "vision.recognize", call, classifyVisionError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return domain.EngineOutcome{Engine: engineName, Duration: time.Since(start)}, err
	}

	outcome := domain.EngineOutcome{
		Engine:     engineName,
		Success:    strings.TrimSpace(response.Text) != "",
		Text:       strings.TrimSpace(response.Text),
		Confidence: response.Confidence,
		Duration:   time.Since(start),
	}
	if !outcome.Success {
		outcome.Error = "service returned no text"
		return outcome, nil
	}
	for _, word := range response.Words {
		outcome.Words = append(outcome.Words, domain.WordDetail{
			Text:       word.Text,
			Confidence: word.Confidence,
			Box: domain.BoundingBox{
				X1: word.Box[0], Y1: word.Box[1],
				X2: word.Box[2], Y2: word.Box[3],
			},
		})
	}
	return outcome, nil
}

func (e *Engine) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("create health request: %w", err)
	}
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return domain.WrapError(domain.ErrEngineUnavailable, "vision health", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return domain.WrapError(domain.ErrEngineUnavailable, "vision health",
			fmt.Errorf("status %s", resp.Status))
	}
	return nil
}
