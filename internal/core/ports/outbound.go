package ports

import (
	"context"

	"github.com/bhumiseba/namjari-intent/internal/core/domain"
)

// Embedder builds dense vectors for corpus batches and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// RuleTable exposes the versioned pattern artifact: priority-ordered rule
// matching, per-tag veto checks, and the lexical boost table.
type RuleTable interface {
	Match(query string) *domain.PatternRule
	Vetoes(tag domain.Tag, query string) bool
	Boosts() []domain.BoostRule
}

// SemanticIndex answers approximate nearest-neighbor queries over the
// corpus embeddings. Read-only after construction.
type SemanticIndex interface {
	Query(vector []float32, k int) []domain.Neighbor
}

// SemanticIndexBuilder constructs a SemanticIndex from corpus vectors.
type SemanticIndexBuilder interface {
	Build(vectors [][]float32) (SemanticIndex, error)
}

// LexicalIndex answers sparse term-weight similarity queries over the
// corpus texts. Read-only after construction.
type LexicalIndex interface {
	Query(text string, k int) []domain.Neighbor
}

// LexicalIndexBuilder fits a LexicalIndex over the corpus texts.
type LexicalIndexBuilder interface {
	Build(texts []string) (LexicalIndex, error)
}

// CorpusSource loads the full training corpus once at construction.
type CorpusSource interface {
	Load(ctx context.Context) ([]domain.TrainingExample, error)
}

// EvaluationSource loads the labelled evaluation set.
type EvaluationSource interface {
	Load(ctx context.Context) ([]domain.EvaluationCase, error)
}

// BuildObserver receives index build progress events. Implementations must
// not block; the build calls it synchronously between batches.
type BuildObserver func(progress domain.BuildProgress)

// MessageQueue carries classification requests for the worker process.
type MessageQueue interface {
	SubscribeClassifyRequests(ctx context.Context, handler func(ctx context.Context, requestID, query string) error) error
	PublishResult(ctx context.Context, requestID string, result *domain.ClassificationResult) error
}
