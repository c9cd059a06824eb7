package vectorindex

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/goldensql/goldensql/internal/domain/golden"
)

// PostgresIndex implements golden.VectorIndex on a pgvector table keyed by
// record id. Distance metric is L2 (<->); changing it requires reindexing
// every stored vector.
type PostgresIndex struct {
	pool *pgxpool.Pool
}

// NewPostgresIndex constructs the index.
func NewPostgresIndex(pool *pgxpool.Pool) *PostgresIndex {
	return &PostgresIndex{pool: pool}
}

// EnsureSchema creates the pgvector extension and index table if missing.
// Idempotent; called once at startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, dimension int) error {
	if _, err := pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return err
	}
	_, err := pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS golden_vectors (
			record_id BIGINT PRIMARY KEY,
			embedding VECTOR(%d) NOT NULL,
			question TEXT NOT NULL,
			sql_query TEXT NOT NULL,
			model TEXT NOT NULL DEFAULT ''
		)
	`, dimension))
	return err
}

// Upsert inserts or replaces the entry for a record id.
func (i *PostgresIndex) Upsert(ctx context.Context, id int64, embedding []float32, meta golden.EntryMetadata) error {
	_, err := i.pool.Exec(ctx, `
		INSERT INTO golden_vectors (record_id, embedding, question, sql_query, model)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (record_id)
		DO UPDATE SET embedding = EXCLUDED.embedding, question = EXCLUDED.question,
		              sql_query = EXCLUDED.sql_query, model = EXCLUDED.model
	`, id, pgvector.NewVector(embedding), meta.Question, meta.SQLQuery, meta.Model)
	return err
}

// Query returns the k nearest entries ascending by L2 distance.
func (i *PostgresIndex) Query(ctx context.Context, embedding []float32, k int) ([]golden.Hit, error) {
	if k <= 0 {
		return nil, nil
	}
	rows, err := i.pool.Query(ctx, `
		SELECT record_id, question, sql_query, model, embedding <-> $1 AS distance
		FROM golden_vectors
		ORDER BY embedding <-> $1
		LIMIT $2
	`, pgvector.NewVector(embedding), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hits := make([]golden.Hit, 0, k)
	for rows.Next() {
		var hit golden.Hit
		if err := rows.Scan(&hit.ID, &hit.Metadata.Question, &hit.Metadata.SQLQuery, &hit.Metadata.Model, &hit.Distance); err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

var _ golden.VectorIndex = (*PostgresIndex)(nil)
