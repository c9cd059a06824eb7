package sqlrunner

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb/v2"

	"github.com/goldensql/goldensql/internal/domain/golden"
)

// DatabaseRunner executes ad-hoc SQL through database/sql, so any registered
// driver can back the execution gateway. Used with embedded DuckDB in local
// mode.
type DatabaseRunner struct {
	db *sql.DB
}

// NewDatabaseRunner constructs the runner.
func NewDatabaseRunner(db *sql.DB) *DatabaseRunner {
	return &DatabaseRunner{db: db}
}

// OpenDuckDB opens (or creates) an embedded DuckDB database file and wraps
// it in a runner.
func OpenDuckDB(path string) (*DatabaseRunner, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create duckdb dir: %w", err)
		}
	}
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return NewDatabaseRunner(db), nil
}

// Execute implements golden.SQLRunner.
func (r *DatabaseRunner) Execute(ctx context.Context, sqlText string) (golden.TableResult, error) {
	rows, err := r.db.QueryContext(ctx, sqlText)
	if err != nil {
		return golden.TableResult{}, err
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return golden.TableResult{}, err
	}

	result := golden.TableResult{Columns: columns, Rows: make([]map[string]any, 0)}
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
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

var _ golden.SQLRunner = (*DatabaseRunner)(nil)
