package sqlrunner

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goldensql/goldensql/internal/domain/golden"
)

// PgxRunner executes ad-hoc SQL against Postgres and captures the tabular
// result. The SQL is run verbatim; engine failures are returned, not hidden.
type PgxRunner struct {
	pool *pgxpool.Pool
}

// NewPgxRunner constructs the runner.
func NewPgxRunner(pool *pgxpool.Pool) *PgxRunner {
	return &PgxRunner{pool: pool}
}

// Execute implements golden.SQLRunner.
func (r *PgxRunner) Execute(ctx context.Context, sqlText string) (golden.TableResult, error) {
	rows, err := r.pool.Query(ctx, sqlText)
	if err != nil {
		return golden.TableResult{}, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, field := range fields {
		columns[i] = string(field.Name)
	}

	result := golden.TableResult{Columns: columns, Rows: make([]map[string]any, 0)}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return golden.TableResult{}, err
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(values[i])
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return golden.TableResult{}, err
	}
	return result, nil
}

func normalizeValue(value any) any {
	if b, ok := value.([]byte); ok {
		return string(b)
	}
	return value
}

var _ golden.SQLRunner = (*PgxRunner)(nil)
