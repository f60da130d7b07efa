package routes

import (
	"healthassistant/internal/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterKnowledgeRoutes exposes the reference tables without auth; they
// carry no user data.
func RegisterKnowledgeRoutes(router *gin.Engine, knowledgeController *controllers.KnowledgeController) {
	knowledgeRoutes := router.Group("/knowledge")
	{
		knowledgeRoutes.GET("", knowledgeController.ListKnowledge)
		knowledgeRoutes.GET("/:category", knowledgeController.GetKnowledge)
	}
}
