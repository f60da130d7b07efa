package routes

import (
	"healthassistant/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterReportRoutes(router *gin.Engine, auth gin.HandlerFunc, reportController *controllers.ReportController) {
	reportRoutes := router.Group("/reports")
	reportRoutes.Use(auth)
	{
		reportRoutes.GET("/weekly/:user_id", reportController.GetWeeklyReport)
	}
}
