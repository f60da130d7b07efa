package repository

import (
	"context"
	"errors"
	"fmt"
	"healthassistant/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.UserProfile, error)
	Save(ctx context.Context, profile *models.UserProfile) error
	DeleteByUserID(ctx context.Context, userID string) error
}

type userProfileRepository struct {
	db *gorm.DB
}

func NewUserProfileRepository(db *gorm.DB) UserProfileRepository {
	return &userProfileRepository{db: db}
}

// FindByUserID returns nil without an error when the user has no profile yet.
func (r *userProfileRepository) FindByUserID(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find profile for user %s: %w", userID, err)
	}
	return &profile, nil
}

// Save inserts the profile or overwrites the stored one for the same user.
func (r *userProfileRepository) Save(ctx context.Context, profile *models.UserProfile) error {
	if profile.UserID == "" {
		return fmt.Errorf("profile has no user id")
	}
	if profile.ActivityLevel == "" {
		profile.ActivityLevel = models.ActivitySedentary
	}

	row := *profile
	row.ID = 0
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"updated_at", "sex", "height_cm", "weight_kg", "age", "activity_level", "goal_offset_kcal",
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save profile for user %s: %w", profile.UserID, err)
	}
	if row.ID != 0 {
		profile.ID = row.ID
	}
	return nil
}

func (r *userProfileRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.UserProfile{}).Error
}
