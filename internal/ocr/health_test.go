package ocr

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prasadk/docintake/internal/core/ports"
)

func TestHealthRegistryComputesSuccessRate(t *testing.T) {
	r := NewHealthRegistry()
	r.Record("tesseract", true)
	r.Record("tesseract", true)
	r.Record("tesseract", false)
	r.Record("vision", false)

	snapshots := r.Snapshot()
	if len(snapshots) != 2 {
		t.Fatalf("expected 2 engines, got %d", len(snapshots))
	}
	tess := snapshots[0]
	if tess.Engine != "tesseract" {
		t.Fatalf("expected sorted order, got %q first", tess.Engine)
	}
	if tess.Successes != 2 || tess.Failures != 1 {
		t.Fatalf("unexpected counters: %+v", tess)
	}
	want := 2.0 / 3.0
	if diff := tess.SuccessRate - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected success rate %v, got %v", want, tess.SuccessRate)
	}
	if snapshots[1].SuccessRate != 0 {
		t.Fatalf("expected 0 success rate for all-failing engine, got %v", snapshots[1].SuccessRate)
	}
}

func TestHealthRegistryRecordStampsCheckTime(t *testing.T) {
	r := NewHealthRegistry()
	r.Record("tesseract", true)

	s := r.Snapshot()[0]
	if s.LastCheck.IsZero() {
		t.Fatalf("Record must stamp the check time, got %+v", s)
	}
	if !s.Available {
		t.Fatalf("a successful invocation must mark the engine available")
	}

	r.Record("tesseract", false)
	s = r.Snapshot()[0]
	if s.Available {
		t.Fatalf("a failed invocation must mark the engine unavailable")
	}
}

func TestHealthRegistryUninvokedEngineAssumedHealthy(t *testing.T) {
	r := NewHealthRegistry()
	r.MarkChecked("pdftext", true)

	snapshots := r.Snapshot()
	if len(snapshots) != 1 {
		t.Fatalf("expected 1 engine, got %d", len(snapshots))
	}
	s := snapshots[0]
	if s.SuccessRate != 1 {
		t.Fatalf("expected success rate 1 before any invocation, got %v", s.SuccessRate)
	}
	if !s.Available || s.LastCheck.IsZero() {
		t.Fatalf("expected availability stamp, got %+v", s)
	}
}

func TestHealthRegistryCheckAllMarksUnavailableEngines(t *testing.T) {
	r := NewHealthRegistry()
	healthy := &engineFake{name: "pdftext"}
	broken := &brokenEngineFake{engineFake{name: "vision"}}

	r.CheckAll(context.Background(), []ports.OcrEngine{healthy, broken})

	for _, s := range r.Snapshot() {
		switch s.Engine {
		case "pdftext":
			if !s.Available {
				t.Fatalf("expected pdftext available")
			}
		case "vision":
			if s.Available {
				t.Fatalf("expected vision unavailable")
			}
		}
	}
}

type brokenEngineFake struct{ engineFake }

func (f *brokenEngineFake) Healthy(context.Context) error {
	return errors.New("endpoint down")
}

func TestHealthRegistryConcurrentRecords(t *testing.T) {
	r := NewHealthRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(success bool) {
			defer wg.Done()
			r.Record("tesseract", success)
		}(i%2 == 0)
	}
	wg.Wait()

	s := r.Snapshot()[0]
	if s.Successes+s.Failures != 50 {
		t.Fatalf("expected 50 recorded invocations, got %d", s.Successes+s.Failures)
	}
}
