package recordrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goldensql/goldensql/internal/domain/golden"
)

const uniqueViolation = "23505"

// PostgresRepository implements golden.RecordRepository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the golden_records table if missing. Idempotent;
// called once at startup before serving traffic.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS golden_records (
			id BIGSERIAL PRIMARY KEY,
			question TEXT NOT NULL UNIQUE,
			sql_query TEXT NOT NULL,
			label TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

// Create inserts a new record. The question uniqueness check rides on the
// table's unique constraint, so concurrent identical creates cannot both
// succeed; the loser gets golden.ErrDuplicateQuestion.
func (r *PostgresRepository) Create(ctx context.Context, question, sqlQuery, label string) (golden.Record, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO golden_records (question, sql_query, label)
		VALUES ($1, $2, $3)
		RETURNING id, question, sql_query, label, created_at
	`, question, sqlQuery, label)

	rec, err := scanRecord(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return golden.Record{}, golden.ErrDuplicateQuestion
		}
		return golden.Record{}, err
	}
	return rec, nil
}

// GetByID fetches a record by its identifier.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (golden.Record, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, question, sql_query, label, created_at
		FROM golden_records
		WHERE id = $1
		LIMIT 1
	`, id)
	if err != nil {
		return golden.Record{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return golden.Record{}, false, rows.Err()
	}
	rec, err := scanRecord(rows)
	if err != nil {
		return golden.Record{}, false, err
	}
	return rec, true, rows.Err()
}

// FindByQuestion fetches by literal question text.
func (r *PostgresRepository) FindByQuestion(ctx context.Context, question string) (golden.Record, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, question, sql_query, label, created_at
		FROM golden_records
		WHERE question = $1
		LIMIT 1
	`, question)
	if err != nil {
		return golden.Record{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return golden.Record{}, false, rows.Err()
	}
	rec, err := scanRecord(rows)
	if err != nil {
		return golden.Record{}, false, err
	}
	return rec, true, rows.Err()
}

// List returns all records ordered by id; feeds reindex and export.
func (r *PostgresRepository) List(ctx context.Context) ([]golden.Record, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, question, sql_query, label, created_at
		FROM golden_records
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]golden.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (golden.Record, error) {
	var rec golden.Record
	if err := row.Scan(&rec.ID, &rec.Question, &rec.SQLQuery, &rec.Label, &rec.CreatedAt); err != nil {
		return golden.Record{}, err
	}
	return rec, nil
}

var _ golden.RecordRepository = (*PostgresRepository)(nil)
