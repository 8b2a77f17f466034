package report

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	reports := r.Group("/reports")
	{
		reports.GET("/daily", handler.Daily)
		reports.GET("/weekly", handler.Weekly)
		reports.POST("/send", handler.Send)
		reports.GET("/runs", handler.Runs)
		reports.GET("/runs/:id", handler.Run)
	}
}
