package models

import (
	"time"
)

// DateLayout is the storage format of DailyLog.Date.
const DateLayout = "2006-01-02"

// DailyLog aggregates one user's events for one local calendar date.
// Rows are created on the first event of a date and only ever appended to.
type DailyLog struct {
	ID                     uint           `gorm:"primaryKey" json:"id"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
	UserID                 string         `gorm:"uniqueIndex:idx_daily_logs_user_date;size:64;not null" json:"user_id"`
	Date                   string         `gorm:"uniqueIndex:idx_daily_logs_user_date;size:10;not null" json:"date" example:"2024-05-01"`
	CaloriesConsumed       float64        `json:"calories_consumed"`
	CalorieBudget          float64        `json:"calorie_budget"`
	CalorieBudgetRemaining float64        `json:"calorie_budget_remaining"`
	BudgetKnown            bool           `json:"budget_known"`
	Version                int            `gorm:"not null;default:0" json:"-"`
	Meals                  []MealEntry    `gorm:"foreignKey:DailyLogID" json:"meals"`
	SleepSessions          []SleepSession `gorm:"foreignKey:DailyLogID" json:"sleep_sessions"`
	Vitals                 []VitalReading `gorm:"foreignKey:DailyLogID" json:"vitals"`
}

type FoodCategory string

const (
	FoodGrains     FoodCategory = "grains"
	FoodProtein    FoodCategory = "protein"
	FoodDairy      FoodCategory = "dairy"
	FoodVegetables FoodCategory = "vegetables"
	FoodFruits     FoodCategory = "fruits"
	FoodFatsNuts   FoodCategory = "fats_nuts"
	FoodSugary     FoodCategory = "sugary"
)

// FoodCategories lists the accepted meal categories in display order.
var FoodCategories = []FoodCategory{
	FoodGrains, FoodProtein, FoodDairy, FoodVegetables, FoodFruits, FoodFatsNuts, FoodSugary,
}

func IsFoodCategory(s string) bool {
	for _, c := range FoodCategories {
		if string(c) == s {
			return true
		}
	}
	return false
}

type MacroBreakdown struct {
	CarbsG   float64 `json:"carbs_g"`
	ProteinG float64 `json:"protein_g"`
	FatG     float64 `json:"fat_g"`
}

type MealEntry struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	DailyLogID      uint           `gorm:"index;not null" json:"daily_log_id"`
	Timestamp       time.Time      `gorm:"index" json:"timestamp"`
	FoodDescription string         `gorm:"type:text" json:"food_description" example:"bubble milk tea"`
	EstimatedKcal   float64        `json:"estimated_kcal" example:"650"`
	Macros          MacroBreakdown `gorm:"embedded;embeddedPrefix:macro_" json:"macro_breakdown"`
	SodiumMG        float64        `json:"sodium_mg"`
	FoodCategory    FoodCategory   `gorm:"size:20" json:"food_category" example:"sugary"`
	KcalSource      string         `gorm:"size:20" json:"kcal_source" example:"reference"`
}

type SleepSession struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	DailyLogID          uint      `gorm:"index;not null" json:"daily_log_id"`
	Start               time.Time `json:"start"`
	End                 time.Time `json:"end"`
	TotalDurationMin    float64   `json:"total_duration_min"`
	LatencyMin          float64   `json:"latency_min"`
	WasoMin             float64   `json:"waso_min"`
	EstimatedN3Minutes  float64   `json:"estimated_n3_minutes"`
	EstimatedREMMinutes float64   `json:"estimated_rem_minutes"`
	CaffeineFlag        bool      `json:"caffeine_flag"`
	SnoringFlag         bool      `json:"snoring_flag"`
	AlcoholFlag         bool      `json:"alcohol_flag"`
	Quality             string    `gorm:"size:10" json:"quality"`
	DurationStatus      string    `gorm:"size:20" json:"duration_status"`
	Score               int       `json:"score"`
}

// AsleepMinutes is time in bed minus sleep latency and wake-after-sleep-onset.
func (s SleepSession) AsleepMinutes() float64 {
	m := s.TotalDurationMin - s.LatencyMin - s.WasoMin
	if m < 0 {
		return 0
	}
	return m
}

type VitalType string

const (
	VitalBloodPressure VitalType = "blood_pressure"
	VitalGlucose       VitalType = "glucose"
	VitalBMI           VitalType = "bmi"
)

type GlucoseContext string

const (
	GlucoseFasting      GlucoseContext = "fasting"
	GlucosePostprandial GlucoseContext = "postprandial"
	GlucoseRandom       GlucoseContext = "random"
)

// VitalReading stores the measured values alongside the grade derived from the
// knowledge tables at the time of the reading.
type VitalReading struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	DailyLogID       uint           `gorm:"index;not null" json:"daily_log_id"`
	Timestamp        time.Time      `gorm:"index" json:"timestamp"`
	Type             VitalType      `gorm:"size:20;not null" json:"type" example:"blood_pressure"`
	Systolic         *int           `json:"systolic,omitempty" example:"135"`
	Diastolic        *int           `json:"diastolic,omitempty" example:"85"`
	Value            *float64       `json:"value,omitempty" example:"110"`
	GlucoseContext   GlucoseContext `gorm:"size:20" json:"glucose_context,omitempty"`
	RiskGrade        string         `gorm:"size:20;not null" json:"risk_grade" example:"stage1"`
	Severity         int            `json:"severity"`
	KnowledgeVersion string         `gorm:"size:20" json:"knowledge_version"`
}
