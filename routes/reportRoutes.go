package routes

import (
	"github.com/gin-gonic/gin"

	"smartroad-be/controllers"
	"smartroad-be/middlewares"
)

// ReportRoutes sets up report submission and the public map feed
func ReportRoutes(r *gin.Engine, d Deps, auth gin.HandlerFunc) {
	limiter := middlewares.ReportRateLimiter(d.RateCounter, d.LimitQueue, d.DailyLimit, d.Metrics)

	api := r.Group("/api")
	{
		api.GET("/hazard-types", controllers.HazardTypes)
		api.GET("/map/config", controllers.MapConfig)

		api.POST("/reports", auth, limiter, d.Reports.CreateReport)
		api.GET("/reports", d.Reports.ListVerified)
		api.GET("/reports/mine", auth, d.Reports.ListMine)
		api.GET("/reports/:id", d.Reports.GetReport)
	}
}
