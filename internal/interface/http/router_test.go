package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/goldensql/goldensql/internal/domain/golden"
	"github.com/goldensql/goldensql/internal/infra/config"
	apperrors "github.com/goldensql/goldensql/pkg/errors"
)

func TestRouter_CreateRecordSuccess(t *testing.T) {
	rec := golden.Record{ID: 1, Question: "how many users?", SQLQuery: "SELECT count(*) FROM users", Label: "user count"}
	svc := &stubService{
		createFn: func(ctx context.Context, req golden.CreateRequest) (golden.Record, error) {
			require.Equal(t, "how many users?", req.Question)
			require.Equal(t, "SELECT count(*) FROM users", req.SQLQuery)
			return rec, nil
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/records",
		`{"question":"how many users?","sqlQuery":"SELECT count(*) FROM users","label":"user count"}`,
		newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusCreated, recorder.Code)

	var got golden.Record
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, rec, got)
}

func TestRouter_CreateRecordDuplicate(t *testing.T) {
	svc := &stubService{
		createFn: func(ctx context.Context, req golden.CreateRequest) (golden.Record, error) {
			return golden.Record{}, apperrors.Wrap("duplicate_question", "a record with the same question already exists", nil)
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/records",
		`{"question":"dup?","sqlQuery":"SELECT 1"}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusConflict, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "duplicate_question", errBody["error"]["code"])
	require.Contains(t, errBody["error"]["message"], "already exists")
}

func TestRouter_CreateRecordInvalidJSON(t *testing.T) {
	svc := &stubService{}

	recorder := performRequest(http.MethodPost, "/api/v1/records", `{"question":123}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.NotEmpty(t, errBody["error"]["message"])
}

func TestRouter_AskSuccess(t *testing.T) {
	resp := golden.AskResponse{Results: []golden.Match{{ID: 4, Question: "how many users?", SQLQuery: "SELECT count(*) FROM users", Distance: 0}}}
	svc := &stubService{
		askFn: func(ctx context.Context, req golden.AskRequest) (golden.AskResponse, error) {
			require.Equal(t, "user totals", req.Question)
			require.Equal(t, 5, req.TopK)
			return resp, nil
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/ask",
		`{"question":"user totals","topK":5}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got golden.AskResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, resp, got)
}

func TestRouter_AskEmbeddingFailure(t *testing.T) {
	svc := &stubService{
		askFn: func(ctx context.Context, req golden.AskRequest) (golden.AskResponse, error) {
			return golden.AskResponse{}, apperrors.Wrap("embedding_error", "embedding request failed", nil)
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/ask", `{"question":"q"}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusBadGateway, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "embedding_error", errBody["error"]["code"])
}

func TestRouter_ExecuteUnknownRecord(t *testing.T) {
	svc := &stubService{
		executeFn: func(ctx context.Context, recordID int64) (golden.TableResult, error) {
			require.Equal(t, int64(999), recordID)
			return golden.TableResult{}, apperrors.Wrap("not_found", "no golden record with the given id", nil)
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/sql/execute", `{"id":999}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusNotFound, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "not_found", errBody["error"]["code"])
}

func TestRouter_ExecuteSQLError(t *testing.T) {
	svc := &stubService{
		executeFn: func(ctx context.Context, recordID int64) (golden.TableResult, error) {
			return golden.TableResult{}, apperrors.Wrap("sql_error", `syntax error at or near "SELEC"`, nil)
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/sql/execute", `{"id":1}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "sql_error", errBody["error"]["code"])
	require.Contains(t, errBody["error"]["message"], "SELEC")
}

func TestRouter_Trending(t *testing.T) {
	svc := &stubService{
		trendingFn: func(ctx context.Context) ([]golden.TrendingQuery, error) {
			return []golden.TrendingQuery{{Query: "user count?", Count: 5}}, nil
		},
	}

	recorder := performRequest(http.MethodGet, "/api/v1/trending", "", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string][]golden.TrendingQuery
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body["recommendations"], 1)
	require.Equal(t, int64(5), body["recommendations"][0].Count)
}

func TestRouter_Health(t *testing.T) {
	recorder := performRequest(http.MethodGet, "/healthz", "", newRouterUnderTest(t, &stubService{}))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), `"status":"ok"`)
}

func performRequest(method, path, body string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, svc golden.Service) *http.Server {
	t.Helper()
	handler := NewHandler(svc, newTestLogger())
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return NewRouter(cfg, handler)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubService struct {
	createFn   func(ctx context.Context, req golden.CreateRequest) (golden.Record, error)
	askFn      func(ctx context.Context, req golden.AskRequest) (golden.AskResponse, error)
	executeFn  func(ctx context.Context, recordID int64) (golden.TableResult, error)
	trendingFn func(ctx context.Context) ([]golden.TrendingQuery, error)
	reindexFn  func(ctx context.Context) (golden.ReindexReport, error)
	exportFn   func(ctx context.Context) (golden.SnapshotInfo, error)
}

func (s *stubService) Create(ctx context.Context, req golden.CreateRequest) (golden.Record, error) {
	if s.createFn != nil {
		return s.createFn(ctx, req)
	}
	return golden.Record{}, nil
}

func (s *stubService) Ask(ctx context.Context, req golden.AskRequest) (golden.AskResponse, error) {
	if s.askFn != nil {
		return s.askFn(ctx, req)
	}
	return golden.AskResponse{}, nil
}

func (s *stubService) Execute(ctx context.Context, recordID int64) (golden.TableResult, error) {
	if s.executeFn != nil {
		return s.executeFn(ctx, recordID)
	}
	return golden.TableResult{}, nil
}

func (s *stubService) Trending(ctx context.Context) ([]golden.TrendingQuery, error) {
	if s.trendingFn != nil {
		return s.trendingFn(ctx)
	}
	return nil, nil
}

func (s *stubService) Reindex(ctx context.Context) (golden.ReindexReport, error) {
	if s.reindexFn != nil {
		return s.reindexFn(ctx)
	}
	return golden.ReindexReport{}, nil
}

func (s *stubService) Export(ctx context.Context) (golden.SnapshotInfo, error) {
	if s.exportFn != nil {
		return s.exportFn(ctx)
	}
	return golden.SnapshotInfo{}, nil
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
