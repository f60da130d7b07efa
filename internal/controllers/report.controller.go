package controllers

import (
	"context"
	"healthassistant/internal/models"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// WeeklyReporter builds the seven-day report ending on a given day.
type WeeklyReporter interface {
	WeeklyReport(ctx context.Context, userID string, to time.Time) (*models.WeeklyReport, error)
}

type ReportController struct {
	reporter WeeklyReporter
	location *time.Location
	now      func() time.Time
}

func NewReportController(reporter WeeklyReporter, location *time.Location) *ReportController {
	if location == nil {
		location = time.UTC
	}
	return &ReportController{reporter: reporter, location: location, now: time.Now}
}

// GetWeeklyReport godoc
// @Summary Get weekly report
// @Description Aggregate the seven days ending on the given date (default today)
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "Chat user ID"
// @Param to query string false "Last day of the window (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{} "Weekly report generated successfully"
// @Failure 400 {object} map[string]interface{} "Invalid date"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Failed to generate report"
// @Router /reports/weekly/{user_id} [get]
func (rc *ReportController) GetWeeklyReport(c *gin.Context) {
	userID := c.Param("user_id")

	to := rc.now().In(rc.location)
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.ParseInLocation(models.DateLayout, raw, rc.location)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Invalid date",
				"error":   "Use format YYYY-MM-DD for 'to'",
			})
			return
		}
		to = parsed
	}

	report, err := rc.reporter.WeeklyReport(c.Request.Context(), userID, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to generate report",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Weekly report generated successfully",
		"data":    report,
	})
}
