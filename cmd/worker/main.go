package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bhumiseba/namjari-intent/internal/bootstrap"
	"github.com/bhumiseba/namjari-intent/internal/config"
	"github.com/bhumiseba/namjari-intent/internal/core/domain"
	"github.com/bhumiseba/namjari-intent/internal/observability/logging"
	"github.com/bhumiseba/namjari-intent/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logger := logging.Setup("worker", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{
		WithQueue: true,
		BuildObserver: func(progress domain.BuildProgress) {
			workerMetrics.ObserveBuildProgress("worker", progress.Stage, progress.Done, progress.Total)
		},
	})
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		logger.Info("worker_metrics_listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("worker_metrics_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logger.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeClassifyRequests(ctx, func(handlerCtx context.Context, requestID, query string) error {
		classifyCtx, cancel := context.WithTimeout(handlerCtx, 30*time.Second)
		defer cancel()

		start := time.Now()
		workerMetrics.StartClassification()
		result, err := app.Classifier.Classify(classifyCtx, query)
		workerMetrics.FinishClassification("worker", time.Since(start), err)
		if err != nil {
			return err
		}
		return app.Queue.PublishResult(classifyCtx, requestID, result)
	})
	if err != nil {
		logger.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}
