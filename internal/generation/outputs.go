package generation

// DietOutput is the contract for a meal report. One item per food.
type DietOutput struct {
	Items []DietItem `json:"items"`
	Note  string     `json:"note"`
}

type DietItem struct {
	Name          string   `json:"name"`
	EstimatedKcal *float64 `json:"estimated_kcal"`
	CarbsG        *float64 `json:"carbs_g"`
	ProteinG      *float64 `json:"protein_g"`
	FatG          *float64 `json:"fat_g"`
	SodiumMG      *float64 `json:"sodium_mg"`
	FoodCategory  string   `json:"food_category"`
}

// SleepOutput is the contract for a sleep report. Clock fields are "HH:MM".
type SleepOutput struct {
	SleepStart       string   `json:"sleep_start"`
	WakeTime         string   `json:"wake_time"`
	LatencyMin       *float64 `json:"latency_min"`
	WasoMin          *float64 `json:"waso_min"`
	CaffeineReported *bool    `json:"caffeine_reported"`
	CaffeineTimes    []string `json:"caffeine_times"`
	SnoringReported  bool     `json:"snoring_reported"`
	AlcoholReported  bool     `json:"alcohol_reported"`
	Note             string   `json:"note"`
}

type VitalsOutput struct {
	BloodPressure *BloodPressureOutput `json:"blood_pressure"`
	Glucose       *GlucoseOutput       `json:"glucose"`
	WeightKG      *float64             `json:"weight_kg"`
	Note          string               `json:"note"`
}

// BloodPressureOutput carries the model's own grade. It is validated against
// the grade vocabulary but the stored grade is always recomputed locally.
type BloodPressureOutput struct {
	Systolic  *int   `json:"systolic"`
	Diastolic *int   `json:"diastolic"`
	RiskGrade string `json:"risk_grade"`
}

type GlucoseOutput struct {
	Value   *float64 `json:"value"`
	Context string   `json:"context"`
}

// ProfileOutput holds only the fields the user mentioned.
type ProfileOutput struct {
	Sex            *string  `json:"sex"`
	HeightCM       *float64 `json:"height_cm"`
	WeightKG       *float64 `json:"weight_kg"`
	Age            *int     `json:"age"`
	ActivityLevel  *string  `json:"activity_level"`
	GoalOffsetKcal *float64 `json:"goal_offset_kcal"`
}

// IntentOutput is the classifier fallback contract.
type IntentOutput struct {
	Intent string `json:"intent"`
}
