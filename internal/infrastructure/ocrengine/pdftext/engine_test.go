package pdftext

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prasadk/docintake/internal/core/domain"
)

func TestRunRejectsNonPDFInput(t *testing.T) {
	engine := New()
	path := filepath.Join(t.TempDir(), "scan.png")
	if err := os.WriteFile(path, []byte("png-bytes"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	_, err := engine.Run(context.Background(), domain.EngineRequest{FilePath: path})
	if err == nil {
		t.Fatalf("expected error for non-pdf input")
	}
}

func TestRunFailsOnCorruptPDF(t *testing.T) {
	engine := New()
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("not really a pdf"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	_, err := engine.Run(context.Background(), domain.EngineRequest{FilePath: path})
	if err == nil {
		t.Fatalf("expected error for corrupt pdf")
	}
}

func TestRunHonorsCanceledContext(t *testing.T) {
	engine := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Run(ctx, domain.EngineRequest{FilePath: "whatever.pdf"})
	if err == nil {
		t.Fatalf("expected context error")
	}
}

func TestHealthyReflectsContextState(t *testing.T) {
	engine := New()
	if err := engine.Healthy(context.Background()); err != nil {
		t.Fatalf("Healthy() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := engine.Healthy(ctx); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}
