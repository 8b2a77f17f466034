package recruitment

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	recruitment := r.Group("/recruitment")
	{
		recruitment.GET("/interviews", handler.Upcoming)
	}
}
