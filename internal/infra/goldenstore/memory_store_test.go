package goldenstore

import (
	"context"
	"testing"
	"time"

	"github.com/goldensql/goldensql/internal/domain/golden"
)

func TestMemoryStoreResultCacheExpiry(t *testing.T) {
	store := NewMemoryStore()
	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }
	ctx := context.Background()

	result := golden.TableResult{Columns: []string{"x"}, Rows: []map[string]any{{"x": int64(1)}}}
	if err := store.SaveResult(ctx, 7, result, 5*time.Minute); err != nil {
		t.Fatalf("SaveResult() error = %v", err)
	}

	got, found, err := store.GetResult(ctx, 7)
	if err != nil || !found {
		t.Fatalf("GetResult() = %v, %v, %v", got, found, err)
	}
	if len(got.Columns) != 1 || got.Columns[0] != "x" {
		t.Fatalf("unexpected columns %v", got.Columns)
	}

	current = current.Add(6 * time.Minute)
	if _, found, _ := store.GetResult(ctx, 7); found {
		t.Fatal("expected cached result to expire")
	}
}

func TestMemoryStoreZeroTTLNeverExpires(t *testing.T) {
	store := NewMemoryStore()
	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }
	ctx := context.Background()

	if err := store.SaveResult(ctx, 1, golden.TableResult{Columns: []string{"a"}}, 0); err != nil {
		t.Fatalf("SaveResult() error = %v", err)
	}
	current = current.Add(24 * time.Hour)
	if _, found, _ := store.GetResult(ctx, 1); !found {
		t.Fatal("expected zero-ttl result to stay cached")
	}
}

func TestMemoryStoreTrendingOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	bump := func(canonical, display string, times int) {
		for i := 0; i < times; i++ {
			if err := store.IncrementQuery(ctx, canonical, display); err != nil {
				t.Fatalf("IncrementQuery(%q) error = %v", canonical, err)
			}
		}
	}
	bump("top revenue", "Top revenue?", 3)
	bump("user count", "User count?", 5)
	bump("churn rate", "Churn rate?", 1)

	top, err := store.TopQueries(ctx, 2)
	if err != nil {
		t.Fatalf("TopQueries() error = %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(top))
	}
	if top[0].Query != "User count?" || top[0].Count != 5 {
		t.Fatalf("unexpected leader %+v", top[0])
	}
	if top[1].Query != "Top revenue?" || top[1].Count != 3 {
		t.Fatalf("unexpected runner-up %+v", top[1])
	}
}

func TestMemoryStoreTrendingSkipsEmptyCanonical(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.IncrementQuery(ctx, "", "ignored"); err != nil {
		t.Fatalf("IncrementQuery() error = %v", err)
	}
	top, err := store.TopQueries(ctx, 10)
	if err != nil {
		t.Fatalf("TopQueries() error = %v", err)
	}
	if len(top) != 0 {
		t.Fatalf("expected no trending entries, got %v", top)
	}
}
