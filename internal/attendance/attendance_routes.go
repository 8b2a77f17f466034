package attendance

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	attendance := r.Group("/attendance")
	{
		attendance.GET("/summary", handler.Summary)
		attendance.GET("/employee/:id", handler.EmployeeMonth)
		attendance.GET("/department/:id", handler.DepartmentSummary)
	}
}
