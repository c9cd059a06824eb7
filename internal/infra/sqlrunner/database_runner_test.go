package sqlrunner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestDatabaseRunnerExecute(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT 1 AS x").WillReturnRows(
		sqlmock.NewRows([]string{"x"}).AddRow(int64(1)).AddRow(int64(2)),
	)

	runner := NewDatabaseRunner(db)
	result, err := runner.Execute(context.Background(), "SELECT 1 AS x")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.Columns) != 1 || result.Columns[0] != "x" {
		t.Fatalf("unexpected columns %v", result.Columns)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}
	if result.Rows[0]["x"] != int64(1) || result.Rows[1]["x"] != int64(2) {
		t.Fatalf("unexpected rows %v", result.Rows)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDatabaseRunnerNormalizesByteColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT name FROM users").WillReturnRows(
		sqlmock.NewRows([]string{"name"}).AddRow([]byte("ada")),
	)

	runner := NewDatabaseRunner(db)
	result, err := runner.Execute(context.Background(), "SELECT name FROM users")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := result.Rows[0]["name"]; got != "ada" {
		t.Fatalf("byte column not normalized to string, got %T %v", got, got)
	}
}

func TestDatabaseRunnerSurfacesQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELEC 1").WillReturnError(errors.New(`syntax error at or near "SELEC"`))

	runner := NewDatabaseRunner(db)
	_, err = runner.Execute(context.Background(), "SELEC 1")
	if err == nil || !strings.Contains(err.Error(), "syntax error") {
		t.Fatalf("expected syntax error, got %v", err)
	}
}

func TestUnavailableRunnerAlwaysFails(t *testing.T) {
	_, err := Unavailable{}.Execute(context.Background(), "SELECT 1")
	if err == nil {
		t.Fatal("expected error from unavailable runner")
	}
}
