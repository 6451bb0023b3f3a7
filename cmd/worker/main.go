package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wenlipeng/invoice-scanner/internal/bootstrap"
	"github.com/wenlipeng/invoice-scanner/internal/config"
	"github.com/wenlipeng/invoice-scanner/internal/observability/logging"
	"github.com/wenlipeng/invoice-scanner/internal/observability/metrics"
)

const serviceName = "invoice-scanner-worker"

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		slog.Info("worker_metrics_listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics_server_failed", "error", err)
		}
	}()

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeDocumentUploaded(ctx, func(handlerCtx context.Context, documentID string) error {
		scanCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()

		if doc, lookupErr := app.Repo.GetByID(scanCtx, documentID); lookupErr == nil {
			workerMetrics.ObserveQueueLag(serviceName, time.Since(doc.CreatedAt))
		}

		workerMetrics.StartScan()
		start := time.Now()
		scanErr := app.ScanUC.ScanByID(scanCtx, documentID)
		workerMetrics.FinishScan(serviceName, time.Since(start), scanErr)

		if scanErr == nil {
			if scan, scanLookupErr := app.Repo.GetScan(scanCtx, documentID); scanLookupErr == nil {
				workerMetrics.RecordClassification(serviceName, string(scan.Classification.DocType))
				if !scan.Validation.IsValid {
					workerMetrics.RecordValidationFailure(serviceName)
				}
			}
		}
		return scanErr
	})
	if err != nil {
		slog.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
}
