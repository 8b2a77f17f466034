package task

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	tasks := r.Group("/tasks")
	{
		tasks.GET("", handler.List)
		tasks.POST("", handler.Create)
		tasks.GET("/overdue", handler.Overdue)
		tasks.GET("/statistics", handler.Statistics)
		tasks.GET("/stages", handler.Stages)
		tasks.GET("/:id", handler.GetById)
		tasks.PATCH("/:id", handler.Update)
		tasks.POST("/:id/assign", handler.Assign)
		tasks.POST("/:id/complete", handler.Complete)
	}
}
