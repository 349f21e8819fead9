package ocr

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prasadk/docintake/internal/core/ports"
)

// engineHealth tracks rolling counters for one engine. Counters use atomics
// because concurrent pipeline runs invoke the same engine.
type engineHealth struct {
	successes atomic.Int64
	failures  atomic.Int64

	mu        sync.Mutex
	lastCheck time.Time
	available bool
}

// HealthRegistry is a process-wide view of engine availability and success
// rate, shared by reference with the orchestrator.
type HealthRegistry struct {
	mu      sync.RWMutex
	engines map[string]*engineHealth
}

func NewHealthRegistry() *HealthRegistry {
	return &HealthRegistry{engines: make(map[string]*engineHealth)}
}

func (r *HealthRegistry) engine(name string) *engineHealth {
	r.mu.RLock()
	h, ok := r.engines[name]
	r.mu.RUnlock()
	if ok {
		return h
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.engines[name]; ok {
		return h
	}
	h = &engineHealth{available: true}
	r.engines[name] = h
	return h
}

// Record updates the rolling success/failure counters after an invocation.
// An invocation doubles as a health observation, so it also stamps the check
// time and availability.
func (r *HealthRegistry) Record(name string, success bool) {
	h := r.engine(name)
	if success {
		h.successes.Add(1)
	} else {
		h.failures.Add(1)
	}
	h.mu.Lock()
	h.lastCheck = time.Now().UTC()
	h.available = success
	h.mu.Unlock()
}

// MarkChecked stamps the result of an explicit health check.
func (r *HealthRegistry) MarkChecked(name string, available bool) {
	h := r.engine(name)
	h.mu.Lock()
	h.lastCheck = time.Now().UTC()
	h.available = available
	h.mu.Unlock()
}

// HealthSnapshot is a point-in-time view of one engine's counters.
type HealthSnapshot struct {
	Engine      string    `json:"engine"`
	Successes   int64     `json:"successes"`
	Failures    int64     `json:"failures"`
	SuccessRate float64   `json:"success_rate"`
	Available   bool      `json:"available"`
	LastCheck   time.Time `json:"last_check,omitzero"`
}

// Snapshot returns per-engine stats sorted by engine name.
func (r *HealthRegistry) Snapshot() []HealthSnapshot {
	r.mu.RLock()
	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)

	out := make([]HealthSnapshot, 0, len(names))
	for _, name := range names {
		h := r.engine(name)
		s := HealthSnapshot{
			Engine:    name,
			Successes: h.successes.Load(),
			Failures:  h.failures.Load(),
		}
		h.mu.Lock()
		s.Available = h.available
		s.LastCheck = h.lastCheck
		h.mu.Unlock()

		total := s.Successes + s.Failures
		if total == 0 {
			// No invocations yet; assume healthy until proven otherwise.
			s.SuccessRate = 1
		} else {
			s.SuccessRate = float64(s.Successes) / float64(total)
		}
		out = append(out, s)
	}
	return out
}

// CheckAll probes every engine's health capability and stamps the registry.
func (r *HealthRegistry) CheckAll(ctx context.Context, engines []ports.OcrEngine) {
	for _, engine := range engines {
		err := engine.Healthy(ctx)
		r.MarkChecked(engine.Name(), err == nil)
	}
}
