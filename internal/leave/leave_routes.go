package leave

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	leaves := r.Group("/leaves")
	{
		leaves.GET("", handler.GetAll)
		leaves.POST("", handler.Create)
		leaves.GET("/types", handler.Types)
		leaves.GET("/balance/:employee_id", handler.Balance)
	}
}
