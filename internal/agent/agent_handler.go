package agent

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Muhannad-Khaled/Ailigent/internal/shared/apperror"
	"github.com/Muhannad-Khaled/Ailigent/internal/shared/response"
)

// Inspector is the slice of the agent the HTTP layer exposes. Chat itself
// stays on Telegram; the API only inspects tools and extracts tasks.
type Inspector interface {
	Catalog() []ToolInfo
	ExtractTasks(ctx context.Context, text string) ([]ExtractedTask, error)
}

type Handler struct {
	agent  Inspector
	logger *zap.Logger
}

func NewHandler(agent Inspector, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("agent.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("agent.handler")
	}
	return &Handler{agent: agent, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("agent request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetTools(c *gin.Context) {
	response.Success(c, http.StatusOK, h.agent.Catalog(), nil)
}

func (h *Handler) ExtractTasks(c *gin.Context) {
	var req ExtractTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	tasks, err := h.agent.ExtractTasks(c.Request.Context(), req.Text)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if tasks == nil {
		tasks = []ExtractedTask{}
	}
	response.Success(c, http.StatusOK, tasks, nil)
}
