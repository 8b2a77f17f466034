package distribution

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	distribution := r.Group("/distribution")
	{
		distribution.GET("/bottlenecks", handler.Bottlenecks)
		distribution.GET("/stage-metrics", handler.StageMetrics)
		distribution.GET("/workload-balance", handler.WorkloadBalance)
		distribution.GET("/rebalance-suggestions", handler.RebalanceSuggestions)
		distribution.POST("/suggest-assignee", handler.SuggestAssignee)
		distribution.GET("/alerts", handler.Alerts)
		distribution.GET("/snapshots", handler.Snapshots)
	}
}
