package usecase

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bhumiseba/namjari-intent/internal/core/domain"
	"github.com/bhumiseba/namjari-intent/internal/core/ports"
)

const defaultRetrievalK = 10

var errIndexesMissing = errors.New("retrieval indexes not built")

// ClassifyUseCase orchestrates one query through the engine: rule
// short-circuit, dual retrieval, fusion, boosting, veto, confidence.
// The retrieval state lives behind an atomic pointer so a retrained corpus
// can be swapped in without any caller observing a half-built index.
type ClassifyUseCase struct {
	rules        ports.RuleTable
	embedder     ports.Embedder
	indexes      atomic.Pointer[Indexes]
	retrievalK   int
	embedTimeout time.Duration
}

func NewClassifyUseCase(
	rules ports.RuleTable,
	embedder ports.Embedder,
	indexes *Indexes,
	retrievalK int,
	embedTimeout time.Duration,
) *ClassifyUseCase {
	if retrievalK <= 0 {
		retrievalK = defaultRetrievalK
	}
	uc := &ClassifyUseCase{
		rules:        rules,
		embedder:     embedder,
		retrievalK:   retrievalK,
		embedTimeout: embedTimeout,
	}
	uc.indexes.Store(indexes)
	return uc
}

// Swap atomically replaces the retrieval state with a fully built
// replacement. In-flight classifications keep the state they loaded.
func (uc *ClassifyUseCase) Swap(indexes *Indexes) {
	uc.indexes.Store(indexes)
}

// Classify assigns an intent tag to the query. It returns (nil, nil) for
// the normal unclassified outcome — empty fusion or all candidates vetoed —
// and a non-nil error only for infrastructure failures such as an
// embedding-provider timeout.
func (uc *ClassifyUseCase) Classify(ctx context.Context, query string) (*domain.ClassificationResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	if rule := uc.rules.Match(query); rule != nil {
		return &domain.ClassificationResult{
			Tag:        rule.Tag,
			Score:      ruleMatchScore,
			Confidence: ruleMatchConfidence,
			Method:     domain.MethodPatternMatch,
			Reasoning:  "Pattern: " + rule.Description,
		}, nil
	}

	indexes := uc.indexes.Load()
	if indexes == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "classify", errIndexesMissing)
	}

	semantic, keyword, err := uc.retrieve(ctx, indexes, query)
	if err != nil {
		return nil, err
	}

	scores := fuseScores(semantic, keyword, indexes.Tags)
	scores = applyBoosts(query, scores, uc.rules.Boosts())
	if len(scores) == 0 {
		return nil, nil
	}

	for {
		tag, score, ok := argMaxTag(scores)
		if !ok {
			return nil, nil
		}
		if uc.rules.Vetoes(tag, query) {
			delete(scores, tag)
			continue
		}
		confidence := estimateConfidence(scoreValues(scores), score)
		return &domain.ClassificationResult{
			Tag:        tag,
			Score:      score,
			Confidence: confidence,
			Method:     domain.MethodSemanticHybrid,
			Reasoning:  "semantic + keyword fusion with lexical boosting",
		}, nil
	}
}

// retrieve runs both retrieval legs. They share no mutable state, so the
// embedding leg runs concurrently with the local lexical scan.
func (uc *ClassifyUseCase) retrieve(ctx context.Context, indexes *Indexes, query string) ([]domain.Neighbor, []domain.Neighbor, error) {
	type semanticResult struct {
		neighbors []domain.Neighbor
		err       error
	}
	results := make(chan semanticResult, 1)

	go func() {
		embedCtx := ctx
		if uc.embedTimeout > 0 {
			var cancel context.CancelFunc
			embedCtx, cancel = context.WithTimeout(ctx, uc.embedTimeout)
			defer cancel()
		}
		vector, err := uc.embedder.EmbedQuery(embedCtx, query)
		if err != nil {
			results <- semanticResult{err: domain.WrapError(domain.ErrEmbedding, "embed query", err)}
			return
		}
		results <- semanticResult{neighbors: indexes.Semantic.Query(vector, uc.retrievalK)}
	}()

	keyword := indexes.Lexical.Query(query, uc.retrievalK)

	semantic := <-results
	if semantic.err != nil {
		return nil, nil, semantic.err
	}
	return semantic.neighbors, keyword, nil
}

func scoreValues(scores domain.ScoreMap) []float64 {
	values := make([]float64, 0, len(scores))
	for _, score := range scores {
		values = append(values, score)
	}
	return values
}
