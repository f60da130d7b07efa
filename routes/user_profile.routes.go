package routes

import (
	"healthassistant/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterUserProfileRoutes(router *gin.Engine, auth gin.HandlerFunc, userProfileController *controllers.UserProfileController) {
	profileRoutes := router.Group("/profile")
	profileRoutes.Use(auth)
	{
		profileRoutes.GET("/:user_id", userProfileController.GetUserProfile)
		profileRoutes.PUT("/:user_id", userProfileController.UpdateUserProfile)
	}
}
