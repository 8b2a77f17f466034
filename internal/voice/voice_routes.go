package voice

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	voice := r.Group("/voice")
	{
		voice.POST("/token", handler.CreateToken)
	}
}
