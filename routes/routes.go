package routes

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"smartroad-be/controllers"
	"smartroad-be/middlewares"
	"smartroad-be/observability"
	authUtils "smartroad-be/utils"
)

// Deps is everything the route table hands to handlers and middleware.
type Deps struct {
	Auth     *controllers.AuthController
	Reports  *controllers.ReportController
	Admin    *controllers.AdminController
	Navigate *controllers.NavigateController
	Ready    controllers.Pinger

	Tokens      *authUtils.TokenIssuer
	RateCounter middlewares.RateCounter
	LimitQueue  string
	DailyLimit  int
	Metrics     *observability.Metrics

	CORSOrigins []string
	Logger      *slog.Logger
}

// NewRouter builds the gin engine with every API route registered.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(d.Logger))
	r.Use(cors.New(corsConfig(d.CORSOrigins)))

	r.GET("/ping", controllers.Ping)
	r.GET("/healthz", controllers.Healthz)
	r.GET("/readyz", controllers.Readyz(d.Ready))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middlewares.AuthMiddleware(d.Tokens)
	AuthRoutes(r, d.Auth, auth)
	ReportRoutes(r, d, auth)
	AdminRoutes(r, d.Auth, d.Admin, auth)
	NavigateRoutes(r, d.Navigate)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		// credentials cannot be combined with a wildcard origin
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
