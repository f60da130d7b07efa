package controllers

import (
	"context"
	"errors"
	"healthassistant/internal/generation"
	"healthassistant/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ProfileManager reads and patches biometric profiles.
type ProfileManager interface {
	Get(ctx context.Context, userID string) (*services.ProfileView, error)
	Update(ctx context.Context, userID string, patch *generation.ProfileOutput) (*services.ProfileView, error)
}

type UserProfileController struct {
	profiles ProfileManager
}

func NewUserProfileController(profiles ProfileManager) *UserProfileController {
	return &UserProfileController{profiles: profiles}
}

// GetUserProfile godoc
// @Summary Get user profile
// @Description Retrieve a user's profile together with BMR, TDEE, daily budget and BMI grade
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "Chat user ID"
// @Success 200 {object} map[string]interface{} "User profile retrieved successfully"
// @Failure 404 {object} map[string]interface{} "Profile not found"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Failed to retrieve profile"
// @Router /profile/{user_id} [get]
func (pc *UserProfileController) GetUserProfile(c *gin.Context) {
	view, err := pc.profiles.Get(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Profile not found",
				"error":   "No profile exists for this user",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve profile",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "User profile retrieved successfully",
		"data":    view,
	})
}

// UpdateUserProfile godoc
// @Summary Update user profile
// @Description Merge the given fields into a user's profile, creating it on first use
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "Chat user ID"
// @Param profile body generation.ProfileOutput true "Fields to update"
// @Success 200 {object} map[string]interface{} "Profile updated successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Failed to update profile"
// @Router /profile/{user_id} [put]
func (pc *UserProfileController) UpdateUserProfile(c *gin.Context) {
	var patch generation.ProfileOutput
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	view, err := pc.profiles.Update(c.Request.Context(), c.Param("user_id"), &patch)
	if err != nil {
		if errors.Is(err, services.ErrInvalidProfile) {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Invalid request data",
				"error":   err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to update profile",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Profile updated successfully",
		"data":    view,
	})
}
