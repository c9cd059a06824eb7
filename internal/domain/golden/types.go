package golden

import "time"

// Record is the canonical golden record: a human-verified question/SQL pair.
// Records are immutable after creation; there is no update or delete path.
type Record struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	SQLQuery  string    `json:"sqlQuery"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateRequest carries a new golden record from the curation workflow.
type CreateRequest struct {
	Question string `json:"question"`
	SQLQuery string `json:"sqlQuery"`
	Label    string `json:"label"`
}

// AskRequest is a free-text retrieval query.
type AskRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"topK"`
}

// Match is one ranked retrieval hit. Question and SQLQuery come from the
// vector index's denormalized metadata, not from the record store.
type Match struct {
	ID       int64   `json:"id"`
	Question string  `json:"question"`
	SQLQuery string  `json:"sqlQuery"`
	Distance float64 `json:"distance"`
}

// AskResponse is returned to the HTTP transport. Message is set instead of
// Results when nothing matched.
type AskResponse struct {
	Results []Match `json:"results"`
	Message string  `json:"message,omitempty"`
}

// TableResult is the tabular outcome of executing a stored SQL query.
type TableResult struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// TrendingQuery represents a frequently asked question.
type TrendingQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// EntryMetadata is the denormalized copy stored alongside each vector.
// The record store stays authoritative for question and SQL text.
type EntryMetadata struct {
	Question string `json:"question"`
	SQLQuery string `json:"sqlQuery"`
	Model    string `json:"model"`
}

// Hit is one nearest-neighbour result from the vector index.
type Hit struct {
	ID       int64
	Metadata EntryMetadata
	Distance float64
}

// ReindexReport summarizes a full vector index rebuild.
type ReindexReport struct {
	Records int `json:"records"`
	Indexed int `json:"indexed"`
	Failed  int `json:"failed"`
}

// SnapshotInfo describes an exported golden record snapshot.
type SnapshotInfo struct {
	Key       string    `json:"key"`
	Records   int       `json:"records"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}
