package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler serves the liveness and readiness probes. These return plain
// JSON rather than the API envelope so probe tooling stays simple.
type Handler struct {
	checker *Checker
}

func NewHandler(checker *Checker) *Handler {
	return &Handler{checker: checker}
}

// Live handles GET /health.
func (h *Handler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusUp})
}

// Ready handles GET /health/ready.
func (h *Handler) Ready(c *gin.Context) {
	resp := h.checker.Run(c.Request.Context())

	status := http.StatusOK
	if resp.Status == statusDegraded {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
