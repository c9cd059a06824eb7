package vectorindex

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/goldensql/goldensql/internal/domain/golden"
)

type memoryEntry struct {
	embedding []float32
	meta      golden.EntryMetadata
}

// MemoryIndex is an in-memory VectorIndex used for tests/dev. It ranks by
// the same L2 metric as the pgvector index.
type MemoryIndex struct {
	mu      sync.RWMutex
	entries map[int64]memoryEntry
}

// NewMemoryIndex constructs an index backed by memory.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{entries: make(map[int64]memoryEntry)}
}

// Upsert implements golden.VectorIndex.
func (i *MemoryIndex) Upsert(_ context.Context, id int64, embedding []float32, meta golden.EntryMetadata) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.entries[id] = memoryEntry{
		embedding: append([]float32(nil), embedding...),
		meta:      meta,
	}
	return nil
}

// Query implements golden.VectorIndex.
func (i *MemoryIndex) Query(_ context.Context, embedding []float32, k int) ([]golden.Hit, error) {
	if k <= 0 {
		return nil, nil
	}
	i.mu.RLock()
	defer i.mu.RUnlock()

	hits := make([]golden.Hit, 0, len(i.entries))
	for id, entry := range i.entries {
		hits = append(hits, golden.Hit{
			ID:       id,
			Metadata: entry.meta,
			Distance: euclideanDistance(embedding, entry.embedding),
		})
	}
	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Distance == hits[b].Distance {
			return hits[a].ID < hits[b].ID
		}
		return hits[a].Distance < hits[b].Distance
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func euclideanDistance(a, b []float32) float64 {
	length := len(a)
	if len(b) < length {
		length = len(b)
	}
	var sum float64
	for i := 0; i < length; i++ {
		diff := float64(a[i] - b[i])
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

var _ golden.VectorIndex = (*MemoryIndex)(nil)
