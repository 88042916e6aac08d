package routes

import (
	"github.com/gin-gonic/gin"

	"smartroad-be/controllers"
	"smartroad-be/middlewares"
)

// AdminRoutes sets up the verification dashboard routes
func AdminRoutes(r *gin.Engine, ac *controllers.AuthController, admin *controllers.AdminController, auth gin.HandlerFunc) {
	r.POST("/api/admin/login", ac.AdminLogin)

	group := r.Group("/api/admin", auth, middlewares.AdminMiddleware())
	{
		group.GET("/reports", admin.ListReports)
		group.GET("/stats", admin.Stats)
		group.GET("/map", admin.MapReports)
		group.POST("/reports/:id/verify", admin.Verify)
		group.POST("/reports/:id/reject", admin.Reject)
	}
}
