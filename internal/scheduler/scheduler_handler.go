package scheduler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Muhannad-Khaled/Ailigent/internal/shared/apperror"
	"github.com/Muhannad-Khaled/Ailigent/internal/shared/response"
)

type Handler struct {
	registry *Registry
	logger   *zap.Logger
}

func NewHandler(registry *Registry, logger ...*zap.Logger) *Handler {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Handler{registry: registry, logger: l.Named("scheduler.handler")}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// List handles GET /scheduler/jobs.
func (h *Handler) List(c *gin.Context) {
	response.Success(c, http.StatusOK, h.registry.Jobs(), nil)
}

// Trigger handles POST /scheduler/jobs/:id/trigger. The run itself is
// asynchronous; 202 means it was started.
func (h *Handler) Trigger(c *gin.Context) {
	id := c.Param("id")
	if err := h.registry.Trigger(id); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"id": id, "status": "triggered"}, nil)
}

// Pause handles POST /scheduler/jobs/:id/pause.
func (h *Handler) Pause(c *gin.Context) {
	id := c.Param("id")
	if err := h.registry.Pause(id); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "status": "paused"}, nil)
}

// Resume handles POST /scheduler/jobs/:id/resume.
func (h *Handler) Resume(c *gin.Context) {
	id := c.Param("id")
	if err := h.registry.Resume(id); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "status": "resumed"}, nil)
}
