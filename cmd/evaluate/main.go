// Command evaluate runs the classifier against a labelled evaluation set
// and prints an accuracy report.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bhumiseba/namjari-intent/internal/bootstrap"
	"github.com/bhumiseba/namjari-intent/internal/config"
	"github.com/bhumiseba/namjari-intent/internal/core/usecase"
	"github.com/bhumiseba/namjari-intent/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.Setup("evaluate", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{})
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	evaluator := usecase.NewEvaluateUseCase(app.Classifier, bootstrap.NewEvaluationSource(cfg))
	report, err := evaluator.Run(ctx)
	if err != nil {
		logger.Error("evaluation_failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("cases:           %d\n", report.Total)
	fmt.Printf("correct:         %d\n", report.Correct)
	fmt.Printf("accuracy:        %.4f\n", report.Accuracy)
	fmt.Printf("avg confidence:  %.4f\n", report.AvgConfidence)
	fmt.Printf("unclassified:    %d\n", report.Unclassified)
	fmt.Printf("errors:          %d\n", report.Errors)
	for method, count := range report.MethodCounts {
		fmt.Printf("method %-16s %d\n", string(method)+":", count)
	}
	if len(report.Failures) > 0 {
		fmt.Printf("\nfailures:\n")
		for _, failure := range report.Failures {
			fmt.Printf("  #%d %q expected=%s got=%s confidence=%.3f method=%s\n",
				failure.Index, failure.Question, failure.Expected, failure.Predicted,
				failure.Confidence, failure.Method)
		}
	}
}
