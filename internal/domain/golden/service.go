package golden

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/goldensql/goldensql/pkg/errors"
	"github.com/goldensql/goldensql/pkg/metrics"
	"github.com/goldensql/goldensql/pkg/util"
)

// Service exposes the golden record operations.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (Record, error)
	Ask(ctx context.Context, req AskRequest) (AskResponse, error)
	Execute(ctx context.Context, recordID int64) (TableResult, error)
	Trending(ctx context.Context) ([]TrendingQuery, error)
	Reindex(ctx context.Context) (ReindexReport, error)
	Export(ctx context.Context) (SnapshotInfo, error)
}

type service struct {
	cfg      Config
	repo     RecordRepository
	index    VectorIndex
	embedder Embedder
	runner   SQLRunner
	store    Store
	storage  ObjectStorage
	logger   *slog.Logger
}

// NewService wires up the golden record domain.
func NewService(cfg Config, repo RecordRepository, index VectorIndex, embedder Embedder, runner SQLRunner, store Store, storage ObjectStorage, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		repo:     repo,
		index:    index,
		embedder: embedder,
		runner:   runner,
		store:    store,
		storage:  storage,
		logger:   logger.With("component", "golden.service"),
	}
}

// Create runs the two-write creation protocol: record store first (it owns
// id assignment and uniqueness), vector index second. A failure between the
// two writes is logged as an index inconsistency and repaired by Reindex,
// never rolled back.
func (s *service) Create(ctx context.Context, req CreateRequest) (Record, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return Record{}, apperrors.Wrap("invalid_input", "question cannot be empty", nil)
	}
	if strings.TrimSpace(req.SQLQuery) == "" {
		return Record{}, apperrors.Wrap("invalid_input", "sqlQuery cannot be empty", nil)
	}

	if _, found, err := s.repo.FindByQuestion(ctx, question); err != nil {
		return Record{}, apperrors.Wrap("store_error", "question lookup failed", err)
	} else if found {
		metrics.DuplicateQuestions.Inc()
		return Record{}, apperrors.Wrap("duplicate_question", "a record with the same question already exists", nil)
	}

	rec, err := s.repo.Create(ctx, question, req.SQLQuery, req.Label)
	if err != nil {
		if errors.Is(err, ErrDuplicateQuestion) {
			// Lost the race since the lookup above; same terminal outcome.
			metrics.DuplicateQuestions.Inc()
			return Record{}, apperrors.Wrap("duplicate_question", "a record with the same question already exists", err)
		}
		return Record{}, apperrors.Wrap("store_error", "record insert failed", err)
	}

	embedding, err := s.embedder.Embed(ctx, question)
	if err != nil {
		s.reportInconsistency(rec.ID, "embedding failed after record insert", err)
		return Record{}, apperrors.Wrap("embedding_error", "failed to embed question", err)
	}

	meta := EntryMetadata{
		Question: rec.Question,
		SQLQuery: rec.SQLQuery,
		Model:    s.cfg.EmbeddingModel,
	}
	if err := s.index.Upsert(ctx, rec.ID, embedding, meta); err != nil {
		s.reportInconsistency(rec.ID, "vector index upsert failed after record insert", err)
		return Record{}, apperrors.Wrap("index_error", "failed to index question", err)
	}

	metrics.RecordsCreated.Inc()
	s.logger.Info("golden record created", "id", rec.ID, "label", rec.Label)
	return rec, nil
}

// Ask embeds the question and returns the k nearest verified questions.
// Results carry the index's denormalized metadata; no record store re-fetch.
// No relevance threshold is applied.
func (s *service) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return AskResponse{}, apperrors.Wrap("invalid_input", "question cannot be empty", nil)
	}
	k := s.clampTopK(req.TopK)

	metrics.AskRequests.Inc()
	start := time.Now()
	defer func() {
		metrics.AskLatency.Observe(float64(time.Since(start).Milliseconds()))
	}()

	embedding, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return AskResponse{}, apperrors.Wrap("embedding_error", "failed to embed question", err)
	}

	hits, err := s.index.Query(ctx, embedding, k)
	if err != nil {
		return AskResponse{}, apperrors.Wrap("index_error", "similarity lookup failed", err)
	}

	if err := s.store.IncrementQuery(ctx, normalizeQuestion(question), question); err != nil {
		s.logger.Warn("trending increment failed", "error", err)
	}

	if len(hits) == 0 {
		return AskResponse{Results: []Match{}, Message: "no similar questions found"}, nil
	}

	results := make([]Match, 0, len(hits))
	for _, hit := range hits {
		results = append(results, Match{
			ID:       hit.ID,
			Question: hit.Metadata.Question,
			SQLQuery: hit.Metadata.SQLQuery,
			Distance: hit.Distance,
		})
	}
	return AskResponse{Results: results}, nil
}

// Execute runs the stored SQL of a record verbatim. The SQL is trusted: it
// was vetted by the curation workflow that created the record.
func (s *service) Execute(ctx context.Context, recordID int64) (TableResult, error) {
	rec, found, err := s.repo.GetByID(ctx, recordID)
	if err != nil {
		return TableResult{}, apperrors.Wrap("store_error", "record lookup failed", err)
	}
	if !found {
		return TableResult{}, apperrors.Wrap("not_found", fmt.Sprintf("golden record %d not found", recordID), nil)
	}

	if s.cfg.ResultCacheTTL > 0 {
		cached, ok, err := s.store.GetResult(ctx, recordID)
		if err != nil {
			s.logger.Warn("result cache lookup failed", "id", recordID, "error", err)
		} else if ok {
			return cached, nil
		}
	}

	result, err := s.runner.Execute(ctx, rec.SQLQuery)
	if err != nil {
		metrics.SQLExecFailures.Inc()
		return TableResult{}, apperrors.Wrap("sql_error", "sql execution failed", err)
	}

	if s.cfg.ResultCacheTTL > 0 {
		if err := s.store.SaveResult(ctx, recordID, result, s.cfg.ResultCacheTTL); err != nil {
			s.logger.Warn("result cache save failed", "id", recordID, "error", err)
		}
	}
	return result, nil
}

func (s *service) Trending(ctx context.Context) ([]TrendingQuery, error) {
	recs, err := s.store.TopQueries(ctx, s.cfg.TopRecommendations)
	if err != nil {
		return nil, apperrors.Wrap("store_error", "failed to load trending questions", err)
	}
	return recs, nil
}

// Reindex recomputes the vector index from the record store using the
// configured embedding model. This is the recovery path for both index
// inconsistencies and embedding model changes.
func (s *service) Reindex(ctx context.Context) (ReindexReport, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return ReindexReport{}, apperrors.Wrap("store_error", "failed to list records", err)
	}

	report := ReindexReport{Records: len(records)}
	for _, rec := range records {
		embedding, err := s.embedder.Embed(ctx, rec.Question)
		if err != nil {
			report.Failed++
			s.logger.Warn("reindex embedding failed", "id", rec.ID, "error", err)
			continue
		}
		meta := EntryMetadata{
			Question: rec.Question,
			SQLQuery: rec.SQLQuery,
			Model:    s.cfg.EmbeddingModel,
		}
		if err := s.index.Upsert(ctx, rec.ID, embedding, meta); err != nil {
			report.Failed++
			s.logger.Warn("reindex upsert failed", "id", rec.ID, "error", err)
			continue
		}
		report.Indexed++
	}

	s.logger.Info("reindex finished", "records", report.Records, "indexed", report.Indexed, "failed", report.Failed)
	return report, nil
}

type snapshotPayload struct {
	ExportedAt time.Time `json:"exportedAt"`
	Model      string    `json:"model"`
	Records    []Record  `json:"records"`
}

// Export writes a JSON snapshot of every golden record to object storage.
func (s *service) Export(ctx context.Context) (SnapshotInfo, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return SnapshotInfo{}, apperrors.Wrap("store_error", "failed to list records", err)
	}

	now := util.NowUTC()
	payload, err := json.Marshal(snapshotPayload{
		ExportedAt: now,
		Model:      s.cfg.EmbeddingModel,
		Records:    records,
	})
	if err != nil {
		return SnapshotInfo{}, apperrors.Wrap("export_error", "failed to serialize snapshot", err)
	}

	key := fmt.Sprintf("snapshots/golden-records-%s.json", uuid.NewString())
	size, err := s.storage.Put(ctx, key, payload, "application/json")
	if err != nil {
		return SnapshotInfo{}, apperrors.Wrap("export_error", "failed to store snapshot", err)
	}

	s.logger.Info("snapshot exported", "key", key, "records", len(records), "size", size)
	return SnapshotInfo{Key: key, Records: len(records), Size: size, CreatedAt: now}, nil
}

func (s *service) clampTopK(k int) int {
	if k <= 0 {
		return s.cfg.DefaultTopK
	}
	if s.cfg.MaxTopK > 0 && k > s.cfg.MaxTopK {
		return s.cfg.MaxTopK
	}
	return k
}

// reportInconsistency flags a record that exists relationally but not in the
// vector index, so an operator can reconcile with a reindex.
func (s *service) reportInconsistency(recordID int64, message string, err error) {
	metrics.IndexInconsistencies.Inc()
	s.logger.Error("index inconsistency: "+message, "id", recordID, "error", err)
}
