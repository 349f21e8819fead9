package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prasadk/docintake/internal/cache"
	"github.com/prasadk/docintake/internal/classify"
	"github.com/prasadk/docintake/internal/config"
	"github.com/prasadk/docintake/internal/core/ports"
	"github.com/prasadk/docintake/internal/core/usecase"
	"github.com/prasadk/docintake/internal/extract"
	"github.com/prasadk/docintake/internal/infrastructure/ocrengine/pdftext"
	"github.com/prasadk/docintake/internal/infrastructure/ocrengine/tesseract"
	"github.com/prasadk/docintake/internal/infrastructure/ocrengine/vision"
	"github.com/prasadk/docintake/internal/infrastructure/queue/nats"
	"github.com/prasadk/docintake/internal/infrastructure/repository/postgres"
	"github.com/prasadk/docintake/internal/infrastructure/resilience"
	"github.com/prasadk/docintake/internal/infrastructure/storage/localfs"
	"github.com/prasadk/docintake/internal/observability/metrics"
	"github.com/prasadk/docintake/internal/ocr"
	"github.com/prasadk/docintake/internal/pattern"
)

type App struct {
	Config config.Config
	Log    *slog.Logger

	Queue     ports.MessageQueue
	Repo      ports.DocumentRepository
	Health    *ocr.HealthRegistry
	Metrics   *metrics.WorkerMetrics
	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	workerMetrics := metrics.NewWorkerMetrics("docintake-worker")
	health := ocr.NewHealthRegistry()

	// Fallback order: born-digital PDFs first, then local tesseract, then
	// the remote vision service. The preferred engine from config jumps the
	// queue; the rest keep this order for fallback.
	orchestrator := ocr.NewOrchestrator(health, log,
		pdftext.New(),
		tesseract.New(),
		vision.New(cfg.VisionURL, executor, cfg.VisionRPS),
	)
	orchestrator.SetObserver(workerMetrics)
	health.CheckAll(ctx, orchestrator.Engines())

	resultCache := cache.New(log)

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(
		repo,
		storage,
		classify.NewHeuristic(),
		orchestrator,
		pattern.NewAnalyzer(),
		extract.NewExtractor(),
		resultCache,
		cfg.OcrOptions(),
		log,
	)

	return &App{
		Config: cfg,
		Log:    log,

		Queue:   queue,
		Repo:    repo,
		Health:  health,
		Metrics: workerMetrics,

		IngestUC:  ingestUC,
		ProcessUC: processUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
