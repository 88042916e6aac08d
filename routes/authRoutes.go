package routes

import (
	"github.com/gin-gonic/gin"

	"smartroad-be/controllers"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.Engine, ac *controllers.AuthController, auth gin.HandlerFunc) {
	group := r.Group("/api/auth")
	{
		group.POST("/signup", ac.Signup)
		group.POST("/login", ac.Login)
		group.POST("/logout", ac.Logout)
		group.GET("/me", auth, ac.GetMe)
	}
}
