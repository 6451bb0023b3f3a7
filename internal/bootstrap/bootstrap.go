// Package bootstrap wires configuration, infrastructure and usecases
// into a runnable application for both the api and worker binaries.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/wenlipeng/invoice-scanner/internal/config"
	"github.com/wenlipeng/invoice-scanner/internal/core/classify"
	"github.com/wenlipeng/invoice-scanner/internal/core/detect"
	"github.com/wenlipeng/invoice-scanner/internal/core/extract"
	"github.com/wenlipeng/invoice-scanner/internal/core/layout"
	"github.com/wenlipeng/invoice-scanner/internal/core/ports"
	"github.com/wenlipeng/invoice-scanner/internal/core/roi"
	"github.com/wenlipeng/invoice-scanner/internal/core/usecase"
	"github.com/wenlipeng/invoice-scanner/internal/core/validate"
	"github.com/wenlipeng/invoice-scanner/internal/infrastructure/dictionary/yamlfile"
	"github.com/wenlipeng/invoice-scanner/internal/infrastructure/export/excel"
	"github.com/wenlipeng/invoice-scanner/internal/infrastructure/extractor/pdftext"
	"github.com/wenlipeng/invoice-scanner/internal/infrastructure/ocr"
	"github.com/wenlipeng/invoice-scanner/internal/infrastructure/ocr/sidecar"
	"github.com/wenlipeng/invoice-scanner/internal/infrastructure/queue/nats"
	"github.com/wenlipeng/invoice-scanner/internal/infrastructure/repository/postgres"
	"github.com/wenlipeng/invoice-scanner/internal/infrastructure/resilience"
	"github.com/wenlipeng/invoice-scanner/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue ports.MessageQueue
	Repo  ports.DocumentRepository

	IngestUC     ports.DocumentIngestor
	ScanUC       ports.DocumentScanner
	BatchUC      ports.BatchScanner
	DictionaryUC ports.DictionaryService
	ExportUC     ports.ReportService
	Accounts     *usecase.AccountUseCase

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	accountRepo := postgres.NewAccountRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultPolicy())
	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{Executor: executor})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	dictionaryStore, err := newDictionaryStore(cfg, db)
	if err != nil {
		return nil, fmt.Errorf("init dictionary store: %w", err)
	}
	dictionaryUC := usecase.NewDictionaryUseCase(dictionaryStore)

	// Dictionaries are loaded once per process. Edits through the api
	// are picked up by workers on restart.
	keywords, err := dictionaryUC.ClassificationKeywords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load classification keywords: %w", err)
	}
	templates, err := dictionaryUC.ROITemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roi templates: %w", err)
	}

	sidecarClient := sidecar.New(cfg.SidecarURL, sidecar.Options{
		Timeout:  time.Duration(cfg.SidecarTimeoutSeconds) * time.Second,
		Executor: executor,
	})
	ocrProvider := ocr.NewDispatcher(sidecarClient, pdftext.NewExtractor())

	accounts := usecase.NewAccountUseCase(accountRepo, cfg.CurrentAccountUsername)

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	scanUC := usecase.NewScanDocumentUseCase(
		repo,
		storage,
		ocrProvider,
		layout.NewChunker(),
		classify.NewClassifier(keywords),
		detect.NewDetector(),
		roi.NewExtractor(templates, sidecarClient),
		extract.NewKeywordExtractor(nil),
		validate.NewValidator(),
		accounts,
	)
	batchUC := usecase.NewBatchScanUseCase(scanUC)
	exportUC := usecase.NewExportUseCase(repo, excel.NewExporter())

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		IngestUC:     ingestUC,
		ScanUC:       scanUC,
		BatchUC:      batchUC,
		DictionaryUC: dictionaryUC,
		ExportUC:     exportUC,
		Accounts:     accounts,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func newDictionaryStore(cfg config.Config, db *sql.DB) (ports.DictionaryStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.DictionaryBackend)) {
	case "", "postgres":
		return postgres.NewDictionaryRepository(db), nil
	case "yaml":
		return yamlfile.New(cfg.DictionaryPath)
	default:
		return nil, fmt.Errorf("unknown dictionary backend %q", cfg.DictionaryBackend)
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
