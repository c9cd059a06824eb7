package recordrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goldensql/goldensql/internal/domain/golden"
)

// MemoryRepository is an in-memory RecordRepository used for tests/dev.
// It enforces the same question uniqueness as the Postgres table.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64

	records    map[int64]golden.Record
	byQuestion map[string]int64
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:     1,
		records:    make(map[int64]golden.Record),
		byQuestion: make(map[string]int64),
	}
}

// Create implements golden.RecordRepository. Check and insert happen under
// one lock, so concurrent identical creates see exactly one success.
func (r *MemoryRepository) Create(_ context.Context, question, sqlQuery, label string) (golden.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byQuestion[question]; exists {
		return golden.Record{}, golden.ErrDuplicateQuestion
	}

	rec := golden.Record{
		ID:        r.nextID,
		Question:  question,
		SQLQuery:  sqlQuery,
		Label:     label,
		CreatedAt: time.Now().UTC(),
	}
	r.nextID++
	r.records[rec.ID] = rec
	r.byQuestion[question] = rec.ID
	return rec, nil
}

// GetByID implements golden.RecordRepository.
func (r *MemoryRepository) GetByID(_ context.Context, id int64) (golden.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	return rec, ok, nil
}

// FindByQuestion implements golden.RecordRepository.
func (r *MemoryRepository) FindByQuestion(_ context.Context, question string) (golden.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byQuestion[question]
	if !ok {
		return golden.Record{}, false, nil
	}
	return r.records[id], true, nil
}

// List implements golden.RecordRepository.
func (r *MemoryRepository) List(_ context.Context) ([]golden.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := make([]golden.Record, 0, len(r.records))
	for _, rec := range r.records {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

var _ golden.RecordRepository = (*MemoryRepository)(nil)
