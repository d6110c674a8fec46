// Package postgres backs the corpus with a training_examples table so
// operators can curate examples without shipping spreadsheet files.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/bhumiseba/namjari-intent/internal/core/domain"
)

type ExampleRepository struct {
	db *sql.DB
}

func NewExampleRepository(db *sql.DB) *ExampleRepository {
	return &ExampleRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *ExampleRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS training_examples (
	id BIGSERIAL PRIMARY KEY,
	question TEXT NOT NULL,
	tag TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_training_examples_tag ON training_examples(tag);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

// Load returns the full corpus in insertion order. Index construction
// depends on a stable example ordering, so the ORDER BY is load-bearing.
func (r *ExampleRepository) Load(ctx context.Context) ([]domain.TrainingExample, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT question, tag FROM training_examples ORDER BY id
`)
	if err != nil {
		return nil, fmt.Errorf("query training examples: %w", err)
	}
	defer rows.Close()

	var examples []domain.TrainingExample
	for rows.Next() {
		var question, tag string
		if err := rows.Scan(&question, &tag); err != nil {
			return nil, fmt.Errorf("scan training example: %w", err)
		}
		if !domain.IsValidTag(domain.Tag(tag)) {
			return nil, domain.WrapError(domain.ErrUnknownTag, "load corpus",
				fmt.Errorf("training_examples row: tag %q", tag))
		}
		examples = append(examples, domain.TrainingExample{
			Text: question,
			Tag:  domain.Tag(tag),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate training examples: %w", err)
	}

	if len(examples) == 0 {
		return nil, domain.WrapError(domain.ErrCorpusEmpty, "load corpus",
			fmt.Errorf("training_examples table has no rows"))
	}
	return examples, nil
}
