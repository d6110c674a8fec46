package usecase

import (
	"context"
	"fmt"

	"github.com/bhumiseba/namjari-intent/internal/core/domain"
	"github.com/bhumiseba/namjari-intent/internal/core/ports"
)

// EvaluationFailure records one mismatch between expected and predicted tag.
type EvaluationFailure struct {
	Index      int
	Question   string
	Expected   domain.Tag
	Predicted  domain.Tag
	Confidence float64
	Method     domain.Method
}

// EvaluationReport aggregates one offline accuracy run.
type EvaluationReport struct {
	Total         int
	Correct       int
	Accuracy      float64
	AvgConfidence float64
	MethodCounts  map[domain.Method]int
	Unclassified  int
	Errors        int
	Failures      []EvaluationFailure
}

// EvaluateUseCase measures classifier accuracy against a labelled set.
// It only reads the shared indices; a failure here never touches the
// serving path.
type EvaluateUseCase struct {
	classifier ports.IntentClassifier
	source     ports.EvaluationSource
}

func NewEvaluateUseCase(classifier ports.IntentClassifier, source ports.EvaluationSource) *EvaluateUseCase {
	return &EvaluateUseCase{classifier: classifier, source: source}
}

func (uc *EvaluateUseCase) Run(ctx context.Context) (*EvaluationReport, error) {
	cases, err := uc.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load evaluation set: %w", err)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("evaluation set is empty")
	}

	report := &EvaluationReport{
		Total:        len(cases),
		MethodCounts: make(map[domain.Method]int),
	}
	var confidenceSum float64
	var classified int

	for i, evalCase := range cases {
		result, err := uc.classifier.Classify(ctx, evalCase.Question)
		if err != nil {
			report.Errors++
			report.Failures = append(report.Failures, EvaluationFailure{
				Index:    i + 1,
				Question: evalCase.Question,
				Expected: evalCase.Expected,
			})
			continue
		}
		if result == nil {
			report.Unclassified++
			report.Failures = append(report.Failures, EvaluationFailure{
				Index:    i + 1,
				Question: evalCase.Question,
				Expected: evalCase.Expected,
			})
			continue
		}

		classified++
		confidenceSum += result.Confidence
		report.MethodCounts[result.Method]++

		if result.Tag == evalCase.Expected {
			report.Correct++
			continue
		}
		report.Failures = append(report.Failures, EvaluationFailure{
			Index:      i + 1,
			Question:   evalCase.Question,
			Expected:   evalCase.Expected,
			Predicted:  result.Tag,
			Confidence: result.Confidence,
			Method:     result.Method,
		})
	}

	report.Accuracy = float64(report.Correct) / float64(report.Total)
	if classified > 0 {
		report.AvgConfidence = confidenceSum / float64(classified)
	}
	return report, nil
}
