package payroll

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	payslips := r.Group("/payslips")
	{
		payslips.GET("", handler.GetAll)
		payslips.GET("/:id", handler.GetById)
	}
}
