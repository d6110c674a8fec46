package usecase

import (
	"context"
	"fmt"

	"github.com/bhumiseba/namjari-intent/internal/core/domain"
	"github.com/bhumiseba/namjari-intent/internal/core/ports"
)

// Indexes is the immutable retrieval state produced by one build: both
// indices plus the tag column of the corpus, which fusion uses to map
// example hits back to tags. Shared read-only across classification calls.
type Indexes struct {
	Semantic ports.SemanticIndex
	Lexical  ports.LexicalIndex
	Examples []domain.TrainingExample
	Tags     []domain.Tag
}

// IndexBuilder embeds the corpus in fixed-size batches and constructs both
// retrieval indices. Batching only bounds provider payload size; it has no
// semantic effect.
type IndexBuilder struct {
	embedder        ports.Embedder
	semanticBuilder ports.SemanticIndexBuilder
	lexicalBuilder  ports.LexicalIndexBuilder
	batchSize       int
	observer        ports.BuildObserver
}

func NewIndexBuilder(
	embedder ports.Embedder,
	semanticBuilder ports.SemanticIndexBuilder,
	lexicalBuilder ports.LexicalIndexBuilder,
	batchSize int,
	observer ports.BuildObserver,
) *IndexBuilder {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &IndexBuilder{
		embedder:        embedder,
		semanticBuilder: semanticBuilder,
		lexicalBuilder:  lexicalBuilder,
		batchSize:       batchSize,
		observer:        observer,
	}
}

// Build constructs fresh indices for the corpus. An empty corpus, an unknown
// tag, or an embedding-provider failure is a construction error; callers
// must not serve classification from a failed build.
func (b *IndexBuilder) Build(ctx context.Context, examples []domain.TrainingExample) (*Indexes, error) {
	if len(examples) == 0 {
		return nil, domain.ErrCorpusEmpty
	}

	texts := make([]string, len(examples))
	tags := make([]domain.Tag, len(examples))
	for i, example := range examples {
		if !domain.IsValidTag(example.Tag) {
			return nil, fmt.Errorf("example %d: %w: %q", i, domain.ErrUnknownTag, example.Tag)
		}
		texts[i] = example.Text
		tags[i] = example.Tag
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += b.batchSize {
		end := start + b.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := b.embedder.Embed(ctx, texts[start:end])
		if err != nil {
			return nil, domain.WrapError(domain.ErrEmbedding, "embed corpus batch", err)
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("embed corpus batch: got %d vectors for %d texts", len(batch), end-start)
		}
		vectors = append(vectors, batch...)
		b.notify(domain.BuildProgress{Stage: "embedding", Done: end, Total: len(texts)})
	}

	semanticIndex, err := b.semanticBuilder.Build(vectors)
	if err != nil {
		return nil, fmt.Errorf("build semantic index: %w", err)
	}
	b.notify(domain.BuildProgress{Stage: "semantic_index", Done: len(vectors), Total: len(vectors)})

	lexicalIndex, err := b.lexicalBuilder.Build(texts)
	if err != nil {
		return nil, fmt.Errorf("build lexical index: %w", err)
	}
	b.notify(domain.BuildProgress{Stage: "lexical_index", Done: len(texts), Total: len(texts)})

	return &Indexes{
		Semantic: semanticIndex,
		Lexical:  lexicalIndex,
		Examples: examples,
		Tags:     tags,
	}, nil
}

func (b *IndexBuilder) notify(progress domain.BuildProgress) {
	if b.observer != nil {
		b.observer(progress)
	}
}
