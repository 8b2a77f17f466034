package contract

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	contracts := r.Group("/contracts")
	{
		contracts.GET("/expiring", handler.Expiring)
	}
}
