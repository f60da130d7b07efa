package routes

import (
	"healthassistant/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterMessageRoutes(router *gin.Engine, auth gin.HandlerFunc, messageController *controllers.MessageController) {
	messageRoutes := router.Group("/messages")
	messageRoutes.Use(auth)
	{
		messageRoutes.POST("", messageController.PostMessage)
	}
}
