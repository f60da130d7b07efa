package app

import (
	"healthassistant/internal/controllers"
	"healthassistant/internal/middleware"
	"healthassistant/routes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// Router builds the gin engine with every route registered.
func (a *App) Router() *gin.Engine {
	router := gin.Default()

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":  "Health Assistant API is running",
			"version":  "1.0.0",
			"status":   "healthy",
			"services": a.Status(),
		})
	})

	auth := middleware.AuthMiddleware(a.Config.JWTSecret)

	routes.RegisterMessageRoutes(router, auth, controllers.NewMessageController(a.Pipeline))
	routes.RegisterReportRoutes(router, auth, controllers.NewReportController(a.Pipeline, a.Config.Location))
	routes.RegisterUserProfileRoutes(router, auth, controllers.NewUserProfileController(a.Pipeline.Profiles()))
	routes.RegisterKnowledgeRoutes(router, controllers.NewKnowledgeController(a.Knowledge))
	routes.RegisterSwaggerRoutes(router)

	return router
}

// Handler wraps the router with CORS.
func (a *App) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   a.Config.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	})
	return c.Handler(a.Router())
}
