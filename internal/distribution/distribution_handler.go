package distribution

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Muhannad-Khaled/Ailigent/internal/shared/apperror"
	"github.com/Muhannad-Khaled/Ailigent/internal/shared/response"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("distribution.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("distribution.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("distribution request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Bottlenecks(c *gin.Context) {
	report, err := h.service.AnalyzeBottlenecks(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, report, nil)
}

func (h *Handler) StageMetrics(c *gin.Context) {
	metrics, err := h.service.StageMetrics(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, metrics, nil)
}

func (h *Handler) WorkloadBalance(c *gin.Context) {
	report, err := h.service.WorkloadBalance(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, report, nil)
}

func (h *Handler) RebalanceSuggestions(c *gin.Context) {
	suggestions, err := h.service.RebalanceSuggestions(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, suggestions, nil)
}

func (h *Handler) SuggestAssignee(c *gin.Context) {
	var req SuggestAssigneeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http suggest assignee validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	suggestion, err := h.service.SuggestAssignee(c.Request.Context(), req.TaskID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, suggestion, nil)
}

func (h *Handler) Alerts(c *gin.Context) {
	page, pageSize := pagination(c)
	alerts, total, err := h.service.Alerts(c.Request.Context(), page, pageSize)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, alerts, &meta)
}

func (h *Handler) Snapshots(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "days must be a number", nil)
			return
		}
		days = parsed
	}

	page, pageSize := pagination(c)
	snapshots, total, err := h.service.Snapshots(c.Request.Context(), days, page, pageSize)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, snapshots, &meta)
}

func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}
	return page, pageSize
}
