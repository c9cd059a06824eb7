package goldenstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goldensql/goldensql/internal/domain/golden"
)

type cachedResult struct {
	result    golden.TableResult
	expiresAt time.Time
}

type trendingEntry struct {
	display string
	count   int64
}

// MemoryStore keeps result cache and trending counters in-memory.
type MemoryStore struct {
	mu       sync.Mutex
	results  map[int64]cachedResult
	trending map[string]*trendingEntry
	now      func() time.Time
}

// NewMemoryStore constructs the in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		results:  make(map[int64]cachedResult),
		trending: make(map[string]*trendingEntry),
		now:      time.Now,
	}
}

func (s *MemoryStore) GetResult(_ context.Context, recordID int64) (golden.TableResult, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.results[recordID]
	if !ok {
		return golden.TableResult{}, false, nil
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		delete(s.results, recordID)
		return golden.TableResult{}, false, nil
	}
	return entry.result, true, nil
}

func (s *MemoryStore) SaveResult(_ context.Context, recordID int64, result golden.TableResult, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := cachedResult{result: result}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.results[recordID] = entry
	return nil
}

func (s *MemoryStore) IncrementQuery(_ context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.trending[canonical]
	if !ok {
		entry = &trendingEntry{display: display}
		if display == "" {
			entry.display = canonical
		}
		s.trending[canonical] = entry
	}
	entry.count++
	return nil
}

func (s *MemoryStore) TopQueries(_ context.Context, limit int) ([]golden.TrendingQuery, error) {
	if limit <= 0 {
		limit = 10
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]golden.TrendingQuery, 0, len(s.trending))
	for _, entry := range s.trending {
		out = append(out, golden.TrendingQuery{Query: entry.display, Count: entry.count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Query < out[j].Query
		}
		return out[i].Count > out[j].Count
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ golden.Store = (*MemoryStore)(nil)
