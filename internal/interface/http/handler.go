package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goldensql/goldensql/internal/domain/golden"
	apperrors "github.com/goldensql/goldensql/pkg/errors"
)

// Handler wires the HTTP transport to the golden record service.
type Handler struct {
	svc    golden.Service
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc golden.Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With("component", "http.handler"),
	}
}

// CreateRecord registers a new golden record.
func (h *Handler) CreateRecord(c *gin.Context) {
	var req golden.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	rec, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, serviceError(err, "create_failed"))
		return
	}

	c.JSON(http.StatusCreated, rec)
}

type executeRequest struct {
	ID int64 `json:"id"`
}

// ExecuteSQL runs the SQL stored on a golden record and returns the table.
func (h *Handler) ExecuteSQL(c *gin.Context) {
	var req executeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	result, err := h.svc.Execute(c.Request.Context(), req.ID)
	if err != nil {
		abortWithError(c, serviceError(err, "execute_failed"))
		return
	}

	c.JSON(http.StatusOK, result)
}

// Ask returns the most similar verified questions for a free-text query.
func (h *Handler) Ask(c *gin.Context) {
	var req golden.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.svc.Ask(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, serviceError(err, "ask_failed"))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Trending returns the most asked questions.
func (h *Handler) Trending(c *gin.Context) {
	items, err := h.svc.Trending(c.Request.Context())
	if err != nil {
		abortWithError(c, serviceError(err, "trending_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": items})
}

// Reindex rebuilds the vector index from the record store.
func (h *Handler) Reindex(c *gin.Context) {
	report, err := h.svc.Reindex(c.Request.Context())
	if err != nil {
		abortWithError(c, serviceError(err, "reindex_failed"))
		return
	}
	c.JSON(http.StatusOK, report)
}

// Export writes a snapshot of all golden records to object storage.
func (h *Handler) Export(c *gin.Context) {
	info, err := h.svc.Export(c.Request.Context())
	if err != nil {
		abortWithError(c, serviceError(err, "export_failed"))
		return
	}
	c.JSON(http.StatusOK, info)
}

// Health is the liveness endpoint.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "text2sql golden record api is running"})
}

// serviceError maps domain error codes onto HTTP statuses.
func serviceError(err error, fallbackCode string) *HTTPError {
	status := http.StatusInternalServerError
	code := fallbackCode
	switch apperrors.Code(err) {
	case "invalid_input":
		status = http.StatusBadRequest
		code = "invalid_request"
	case "duplicate_question":
		status = http.StatusConflict
		code = "duplicate_question"
	case "not_found":
		status = http.StatusNotFound
		code = "not_found"
	case "sql_error":
		status = http.StatusBadRequest
		code = "sql_error"
	case "embedding_error", "index_error":
		status = http.StatusBadGateway
		code = apperrors.Code(err)
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
