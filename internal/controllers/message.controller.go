package controllers

import (
	"context"
	"errors"
	"healthassistant/internal/models"
	"healthassistant/internal/services"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// MessageHandler runs one chat turn.
type MessageHandler interface {
	HandleMessage(ctx context.Context, userID, text string, ts time.Time) (*models.ReplyPayload, error)
}

type MessageRequest struct {
	UserID    string     `json:"user_id" binding:"required" example:"U4af4980629"`
	Text      string     `json:"text" binding:"required" example:"I had a bowl of beef noodles"`
	Timestamp *time.Time `json:"timestamp" example:"2024-05-01T12:30:00+08:00"`
}

type MessageController struct {
	handler MessageHandler
	now     func() time.Time
}

func NewMessageController(handler MessageHandler) *MessageController {
	return &MessageController{handler: handler, now: time.Now}
}

// PostMessage godoc
// @Summary Send a chat message
// @Description Run one conversational turn for a user and return the reply payload
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param message body MessageRequest true "Incoming chat message"
// @Success 200 {object} map[string]interface{} "Reply generated successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Failed to handle message"
// @Router /messages [post]
func (mc *MessageController) PostMessage(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	ts := mc.now()
	if req.Timestamp != nil {
		ts = *req.Timestamp
	}

	reply, err := mc.handler.HandleMessage(c.Request.Context(), req.UserID, req.Text, ts)
	if err != nil {
		if errors.Is(err, services.ErrMissingUser) {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Invalid request data",
				"error":   err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to handle message",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Reply generated successfully",
		"data":    reply,
	})
}
