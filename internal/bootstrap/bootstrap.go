// Package bootstrap wires configuration, infrastructure adapters and use
// cases into a runnable application. Index construction happens here, at
// startup: a process that cannot build its retrieval state must not serve.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/bhumiseba/namjari-intent/internal/config"
	"github.com/bhumiseba/namjari-intent/internal/core/domain"
	"github.com/bhumiseba/namjari-intent/internal/core/ports"
	"github.com/bhumiseba/namjari-intent/internal/core/usecase"
	"github.com/bhumiseba/namjari-intent/internal/infrastructure/corpus"
	corpuspg "github.com/bhumiseba/namjari-intent/internal/infrastructure/corpus/postgres"
	"github.com/bhumiseba/namjari-intent/internal/infrastructure/embedding/ollama"
	"github.com/bhumiseba/namjari-intent/internal/infrastructure/index/keyword"
	"github.com/bhumiseba/namjari-intent/internal/infrastructure/index/semantic"
	"github.com/bhumiseba/namjari-intent/internal/infrastructure/queue/nats"
	"github.com/bhumiseba/namjari-intent/internal/infrastructure/resilience"
	"github.com/bhumiseba/namjari-intent/internal/infrastructure/rules"
)

type Options struct {
	// WithQueue connects NATS. The API publishes nothing today, so only the
	// worker asks for it.
	WithQueue bool
	// BuildObserver receives index build progress, usually into metrics.
	BuildObserver ports.BuildObserver
}

type App struct {
	Config config.Config

	Rules      *rules.Table
	Classifier *usecase.ClassifyUseCase
	Builder    *usecase.IndexBuilder
	Corpus     ports.CorpusSource
	Queue      *nats.Queue

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, options Options) (*App, error) {
	ruleTable, err := rules.LoadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("load rule table: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	embedder := ollama.New(cfg.OllamaURL, cfg.OllamaEmbedModel, executor)

	source, closeSource, err := newCorpusSource(cfg)
	if err != nil {
		return nil, err
	}

	builder := usecase.NewIndexBuilder(
		embedder,
		semantic.NewBuilder(semantic.Config{
			M:              cfg.HNSWM,
			EfConstruction: cfg.HNSWEfConstruction,
			EfSearch:       cfg.HNSWEfSearch,
		}),
		keyword.NewBuilder(cfg.VocabSize),
		cfg.EmbedBatchSize,
		options.BuildObserver,
	)

	examples, err := source.Load(ctx)
	if err != nil {
		closeSource()
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	indexes, err := builder.Build(ctx, examples)
	if err != nil {
		closeSource()
		return nil, fmt.Errorf("build indexes: %w", err)
	}

	classifier := usecase.NewClassifyUseCase(
		ruleTable,
		embedder,
		indexes,
		cfg.RetrievalTopK,
		time.Duration(cfg.EmbedQueryTimeoutSecs)*time.Second,
	)

	app := &App{
		Config:     cfg,
		Rules:      ruleTable,
		Classifier: classifier,
		Builder:    builder,
		Corpus:     source,
		closeFn:    closeSource,
	}

	if options.WithQueue {
		queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
			ResilienceExecutor: executor,
		})
		if err != nil {
			closeSource()
			return nil, fmt.Errorf("init message queue: %w", err)
		}
		app.Queue = queue
		app.closeFn = func() {
			queue.Close()
			closeSource()
		}
	}

	return app, nil
}

// Rebuild reloads the corpus, rebuilds both indices and swaps them into the
// serving classifier. The old state keeps serving until the swap.
func (a *App) Rebuild(ctx context.Context) error {
	examples, err := a.Corpus.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload corpus: %w", err)
	}
	indexes, err := a.Builder.Build(ctx, examples)
	if err != nil {
		return fmt.Errorf("rebuild indexes: %w", err)
	}
	a.Classifier.Swap(indexes)
	return nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// NewEvaluationSource builds the evaluation set loader for cmd/evaluate.
func NewEvaluationSource(cfg config.Config) ports.EvaluationSource {
	return corpus.NewFileEvaluationSource(cfg.EvalPath)
}

func newCorpusSource(cfg config.Config) (ports.CorpusSource, func(), error) {
	switch cfg.CorpusSource {
	case "postgres":
		db, err := corpuspg.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		repo := corpuspg.NewExampleRepository(db)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		return repo, func() { _ = db.Close() }, nil
	case "file", "":
		return corpus.NewFileCorpusSource(cfg.CorpusPath), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("%w: corpus source %q", domain.ErrInvalidInput, cfg.CorpusSource)
	}
}
