package employee

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	employees := r.Group("/employees")
	{
		employees.GET("", handler.List)
		employees.GET("/workloads", handler.Workloads)
		employees.GET("/available", handler.Available)
		employees.GET("/:id", handler.GetById)
		employees.GET("/:id/workload", handler.Workload)
	}

	r.GET("/departments", handler.Departments)
}
