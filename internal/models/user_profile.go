package models

import (
	"time"
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// UserProfile is the biometric baseline used for energy and BMI calculations.
// It only changes through a profile-update turn.
type UserProfile struct {
	ID             uint          `gorm:"primaryKey" json:"id" example:"1"`
	CreatedAt      time.Time     `json:"created_at" example:"2024-01-01T00:00:00Z"`
	UpdatedAt      time.Time     `json:"updated_at" example:"2024-01-01T00:00:00Z"`
	UserID         string        `gorm:"uniqueIndex;size:64;not null" json:"user_id" example:"U4af4980629"`
	Sex            *Sex          `gorm:"size:10" json:"sex" example:"female"`
	HeightCM       *float64      `json:"height_cm" example:"165"`
	WeightKG       *float64      `json:"weight_kg" example:"50"`
	Age            *int          `json:"age" example:"25"`
	ActivityLevel  ActivityLevel `gorm:"size:20;not null;default:sedentary" json:"activity_level" example:"sedentary"`
	GoalOffsetKcal float64       `json:"goal_offset_kcal" example:"0"`
}

// Complete reports whether every field needed for BMR/TDEE is present.
func (p *UserProfile) Complete() bool {
	if p == nil {
		return false
	}
	return p.Sex != nil && p.HeightCM != nil && p.WeightKG != nil && p.Age != nil && p.ActivityLevel != ""
}

func (p *UserProfile) AgeOrZero() int {
	if p == nil || p.Age == nil {
		return 0
	}
	return *p.Age
}
