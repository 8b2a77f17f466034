package health

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the probes on the engine root so they stay
// outside API key auth.
func RegisterRoutes(r *gin.Engine, handler *Handler) {
	r.GET("/health", handler.Live)
	r.GET("/health/ready", handler.Ready)
}
