package ports

import (
	"context"

	"github.com/bhumiseba/namjari-intent/internal/core/domain"
)

// IntentClassifier is the inbound contract for query classification.
// A nil result with a nil error is the explicit unclassified outcome.
type IntentClassifier interface {
	Classify(ctx context.Context, query string) (*domain.ClassificationResult, error)
}
