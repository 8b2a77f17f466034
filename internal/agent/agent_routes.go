package agent

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	agent := r.Group("/agent")
	{
		agent.GET("/tools", handler.GetTools)
		agent.POST("/extract-tasks", handler.ExtractTasks)
	}
}
