package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearPipelineEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LOG_LEVEL", "POSTGRES_DSN", "NATS_URL", "NATS_SUBJECT", "STORAGE_PATH",
		"VISION_URL", "VISION_RPS", "PROCESS_TIMEOUT_SECONDS", "WORKER_METRICS_PORT",
		"OCR_LANGUAGES", "OCR_PREFERRED_ENGINE", "OCR_ENABLE_FALLBACK",
		"OCR_PREPROCESS_IMAGE", "OCR_MINIMUM_CONFIDENCE", "OCR_TIMEOUT_SECONDS",
		"OCR_MAX_RETRIES", "OCR_COMPARE_RESULTS", "OCR_SIMILARITY_THRESHOLD",
		"CONFIG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadIncludesPipelineDefaults(t *testing.T) {
	clearPipelineEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.NATSSubject != "documents.process" {
		t.Fatalf("expected default subject documents.process, got %q", cfg.NATSSubject)
	}
	if cfg.OCR.PreferredEngine != "tesseract" {
		t.Fatalf("expected default preferred engine tesseract, got %q", cfg.OCR.PreferredEngine)
	}
	if cfg.OCR.MinimumConfidence != 0.6 {
		t.Fatalf("expected default minimum confidence 0.6, got %v", cfg.OCR.MinimumConfidence)
	}
	if cfg.OCR.EnableFallback == nil || !*cfg.OCR.EnableFallback {
		t.Fatalf("expected fallback enabled by default")
	}
	if got := cfg.ProcessTimeout(); got != 300*time.Second {
		t.Fatalf("expected default process timeout 300s, got %v", got)
	}
}

func TestLoadParsesEnvironmentOverrides(t *testing.T) {
	clearPipelineEnv(t)
	t.Setenv("OCR_LANGUAGES", "eng, hin")
	t.Setenv("OCR_PREFERRED_ENGINE", "vision")
	t.Setenv("OCR_ENABLE_FALLBACK", "false")
	t.Setenv("OCR_MAX_RETRIES", "4")
	t.Setenv("OCR_TIMEOUT_SECONDS", "12")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	opts := cfg.OcrOptions()
	if len(opts.Languages) != 2 || opts.Languages[0] != "eng" || opts.Languages[1] != "hin" {
		t.Fatalf("expected languages [eng hin], got %v", opts.Languages)
	}
	if opts.PreferredEngine != "vision" {
		t.Fatalf("expected preferred engine vision, got %q", opts.PreferredEngine)
	}
	if opts.EnableFallback {
		t.Fatalf("expected fallback disabled")
	}
	if opts.MaxRetries != 4 {
		t.Fatalf("expected 4 retries, got %d", opts.MaxRetries)
	}
	if opts.Timeout != 12*time.Second {
		t.Fatalf("expected 12s timeout, got %v", opts.Timeout)
	}
}

func TestLoadInvalidNumbersFallBackToDefaults(t *testing.T) {
	clearPipelineEnv(t)
	t.Setenv("OCR_MINIMUM_CONFIDENCE", "not-a-number")
	t.Setenv("OCR_MAX_RETRIES", "many")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OCR.MinimumConfidence != 0.6 {
		t.Fatalf("expected fallback minimum confidence, got %v", cfg.OCR.MinimumConfidence)
	}
	if cfg.OCR.MaxRetries != 2 {
		t.Fatalf("expected fallback retries, got %d", cfg.OCR.MaxRetries)
	}
}

func TestLoadAppliesYAMLOverlay(t *testing.T) {
	clearPipelineEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
nats_subject: documents.intake
ocr:
  preferred_engine: pdftext
  minimum_confidence: 0.75
  enable_fallback: false
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.NATSSubject != "documents.intake" {
		t.Fatalf("expected overlay subject, got %q", cfg.NATSSubject)
	}
	if cfg.OCR.PreferredEngine != "pdftext" {
		t.Fatalf("expected overlay engine, got %q", cfg.OCR.PreferredEngine)
	}
	if cfg.OCR.MinimumConfidence != 0.75 {
		t.Fatalf("expected overlay confidence, got %v", cfg.OCR.MinimumConfidence)
	}
	if cfg.OCR.EnableFallback == nil || *cfg.OCR.EnableFallback {
		t.Fatalf("expected overlay to disable fallback")
	}
	if cfg.NATSURL != "nats://localhost:4222" {
		t.Fatalf("values absent from the overlay must keep env defaults, got %q", cfg.NATSURL)
	}
}

func TestLoadFailsOnUnreadableConfigFile(t *testing.T) {
	clearPipelineEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
