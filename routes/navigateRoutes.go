package routes

import (
	"github.com/gin-gonic/gin"

	"smartroad-be/controllers"
)

// NavigateRoutes sets up place search and route comparison
func NavigateRoutes(r *gin.Engine, nc *controllers.NavigateController) {
	api := r.Group("/api")
	{
		api.GET("/geocode/search", nc.Search)
		api.GET("/geocode/reverse", nc.Reverse)
		api.POST("/routes/compare", nc.CompareRoutes)
	}
}
