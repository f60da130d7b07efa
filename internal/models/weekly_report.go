package models

const (
	TrendRising       = "rising"
	TrendFalling      = "falling"
	TrendStable       = "stable"
	TrendInsufficient = "insufficient_data"
)

type DietWeekStats struct {
	DaysLogged   int     `json:"days_logged"`
	TotalKcal    float64 `json:"total_kcal"`
	MeanKcal     float64 `json:"mean_kcal"`
	Trend        string  `json:"trend"`
	EnergyStatus string  `json:"energy_status" example:"below_target"`
}

type SleepWeekStats struct {
	DaysLogged    int     `json:"days_logged"`
	MeanHours     float64 `json:"mean_hours"`
	MeanScore     float64 `json:"mean_score"`
	Trend         string  `json:"trend"`
	SnoringNights int     `json:"snoring_nights"`
	AlcoholNights int     `json:"alcohol_nights"`
}

type VitalWeekStats struct {
	Readings      int      `json:"readings"`
	AlertCount    int      `json:"alert_count"`
	BloodPressure []string `json:"blood_pressure"`
	Glucose       []string `json:"glucose"`
	SystolicTrend string   `json:"systolic_trend"`
	GlucoseTrend  string   `json:"glucose_trend"`
	MeanSystolic  float64  `json:"mean_systolic"`
	MeanDiastolic float64  `json:"mean_diastolic"`
	MeanGlucose   float64  `json:"mean_glucose"`
	LatestBMI     *float64 `json:"latest_bmi,omitempty"`
}

// WeeklyReport is pure statistics over already-classified daily logs.
type WeeklyReport struct {
	UserID      string         `json:"user_id"`
	From        string         `json:"from" example:"2024-04-25"`
	To          string         `json:"to" example:"2024-05-01"`
	DaysLogged  int            `json:"days_logged"`
	TDEE        *float64       `json:"tdee,omitempty"`
	Diet        DietWeekStats  `json:"diet"`
	Sleep       SleepWeekStats `json:"sleep"`
	Vitals      VitalWeekStats `json:"vitals"`
	FlaggedDays []string       `json:"flagged_days"`
}
