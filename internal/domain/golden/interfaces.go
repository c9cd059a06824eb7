package golden

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateQuestion is returned by RecordRepository.Create when the
// question already exists. The check and insert are atomic inside the store;
// a race between two identical creates yields exactly one of these.
var ErrDuplicateQuestion = errors.New("question already exists")

// RecordRepository is the source of truth for golden records. It owns id
// assignment and the question uniqueness constraint.
type RecordRepository interface {
	Create(ctx context.Context, question, sqlQuery, label string) (Record, error)
	GetByID(ctx context.Context, id int64) (Record, bool, error)
	FindByQuestion(ctx context.Context, question string) (Record, bool, error)
	List(ctx context.Context) ([]Record, error)
}

// VectorIndex holds one embedding per record id plus denormalized metadata.
// Query returns hits ascending by L2 distance, at most k, none for an empty
// index. The index is a rebuildable projection, never authoritative.
type VectorIndex interface {
	Upsert(ctx context.Context, id int64, embedding []float32, meta EntryMetadata) error
	Query(ctx context.Context, embedding []float32, k int) ([]Hit, error)
}

// Embedder maps text to a fixed-dimension vector. Deterministic for a fixed
// model version.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// SQLRunner executes arbitrary SQL against the relational engine and returns
// a tabular result.
type SQLRunner interface {
	Execute(ctx context.Context, sqlText string) (TableResult, error)
}

// Store caches execution results and tracks trending questions.
type Store interface {
	GetResult(ctx context.Context, recordID int64) (TableResult, bool, error)
	SaveResult(ctx context.Context, recordID int64, result TableResult, ttl time.Duration) error
	IncrementQuery(ctx context.Context, canonical, display string) error
	TopQueries(ctx context.Context, limit int) ([]TrendingQuery, error)
}

// ObjectStorage persists snapshot exports.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (int64, error)
}
