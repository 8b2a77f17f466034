package scheduler

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	jobs := r.Group("/scheduler/jobs")
	{
		jobs.GET("", handler.List)
		jobs.POST("/:id/trigger", handler.Trigger)
		jobs.POST("/:id/pause", handler.Pause)
		jobs.POST("/:id/resume", handler.Resume)
	}
}
