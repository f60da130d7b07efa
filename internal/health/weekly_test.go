package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"healthassistant/internal/models"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestWeekRange(t *testing.T) {
	from, to := WeekRange(time.Date(2024, 5, 7, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-05-01", from)
	assert.Equal(t, "2024-05-07", to)
}

func TestBuildWeeklyReport(t *testing.T) {
	logs := []models.DailyLog{
		{
			Date:        "2024-05-03",
			Meals:       []models.MealEntry{{EstimatedKcal: 1800}},
			BudgetKnown: true, CalorieBudget: 2000,
			Vitals: []models.VitalReading{
				{Type: models.VitalBloodPressure, Systolic: intPtr(135), Diastolic: intPtr(85), RiskGrade: "stage1", Severity: 2},
			},
		},
		{
			Date:        "2024-05-01",
			Meals:       []models.MealEntry{{EstimatedKcal: 1000}, {EstimatedKcal: 600}},
			BudgetKnown: true, CalorieBudget: 2000,
			SleepSessions: []models.SleepSession{
				{TotalDurationMin: 490, LatencyMin: 10, Score: 100, DurationStatus: DurationAdequate},
			},
		},
		{
			Date:        "2024-05-02",
			Meals:       []models.MealEntry{{EstimatedKcal: 2300}},
			BudgetKnown: true, CalorieBudget: 2000,
			SleepSessions: []models.SleepSession{
				{TotalDurationMin: 360, Score: 60, DurationStatus: DurationInsufficient},
			},
			Vitals: []models.VitalReading{
				{Type: models.VitalGlucose, Value: floatPtr(95), GlucoseContext: models.GlucoseFasting, RiskGrade: "normal"},
			},
		},
		{Date: "2024-04-20", Meals: []models.MealEntry{{EstimatedKcal: 9999}}},
	}
	tdee := 2008.5

	r := BuildWeeklyReport("u1", "2024-05-01", "2024-05-07", logs, &tdee)

	assert.Equal(t, 3, r.DaysLogged)
	assert.Equal(t, 3, r.Diet.DaysLogged)
	assert.Equal(t, 5700.0, r.Diet.TotalKcal)
	assert.Equal(t, 1900.0, r.Diet.MeanKcal)
	assert.Equal(t, models.TrendRising, r.Diet.Trend)
	assert.Equal(t, EnergyBelowTarget, r.Diet.EnergyStatus)

	assert.Equal(t, 2, r.Sleep.DaysLogged)
	assert.Equal(t, 7.0, r.Sleep.MeanHours)
	assert.Equal(t, 80.0, r.Sleep.MeanScore)
	assert.Equal(t, models.TrendFalling, r.Sleep.Trend)

	assert.Equal(t, 2, r.Vitals.Readings)
	assert.Equal(t, 1, r.Vitals.AlertCount)
	assert.Equal(t, []string{"135/85"}, r.Vitals.BloodPressure)
	assert.Equal(t, []string{"95 (fasting)"}, r.Vitals.Glucose)
	assert.Equal(t, models.TrendInsufficient, r.Vitals.SystolicTrend)

	assert.Equal(t, []string{"2024-05-02", "2024-05-03"}, r.FlaggedDays)
}

func TestBuildWeeklyReport_SleepRiskNights(t *testing.T) {
	logs := []models.DailyLog{
		{Date: "2024-05-01", SleepSessions: []models.SleepSession{{TotalDurationMin: 480, Score: 90, DurationStatus: DurationAdequate, SnoringFlag: true}}},
		{Date: "2024-05-02", SleepSessions: []models.SleepSession{{TotalDurationMin: 480, Score: 90, DurationStatus: DurationAdequate, AlcoholFlag: true}}},
		{Date: "2024-05-03", SleepSessions: []models.SleepSession{{TotalDurationMin: 480, Score: 100, DurationStatus: DurationAdequate}}},
	}

	r := BuildWeeklyReport("u1", "2024-05-01", "2024-05-07", logs, nil)

	assert.Equal(t, 1, r.Sleep.SnoringNights)
	assert.Equal(t, 1, r.Sleep.AlcoholNights)
	assert.Equal(t, []string{"2024-05-01", "2024-05-02"}, r.FlaggedDays)
}

func TestBuildWeeklyReport_Empty(t *testing.T) {
	r := BuildWeeklyReport("u1", "2024-05-01", "2024-05-07", nil, nil)

	assert.Zero(t, r.DaysLogged)
	assert.Equal(t, EnergyUnknown, r.Diet.EnergyStatus)
	assert.Equal(t, models.TrendInsufficient, r.Diet.Trend)
	assert.Empty(t, r.FlaggedDays)
}

func TestTrend(t *testing.T) {
	assert.Equal(t, models.TrendRising, Trend([]float64{0, 1, 2}, []float64{100, 110, 120}))
	assert.Equal(t, models.TrendFalling, Trend([]float64{0, 1, 2}, []float64{120, 110, 100}))
	assert.Equal(t, models.TrendStable, Trend([]float64{0, 1, 2}, []float64{100, 100.5, 100}))
	assert.Equal(t, models.TrendInsufficient, Trend([]float64{0}, []float64{100}))
	assert.Equal(t, models.TrendInsufficient, Trend([]float64{2, 2}, []float64{100, 120}))
}

func TestEnergyStatus(t *testing.T) {
	tdee := 2000.0
	assert.Equal(t, EnergyBelowTarget, EnergyStatus(1800, 3, &tdee))
	assert.Equal(t, EnergyOnTarget, EnergyStatus(1950, 3, &tdee))
	assert.Equal(t, EnergyOnTarget, EnergyStatus(2100, 3, &tdee))
	assert.Equal(t, EnergyAboveTarget, EnergyStatus(2101, 3, &tdee))
	assert.Equal(t, EnergyUnknown, EnergyStatus(2101, 0, &tdee))
	assert.Equal(t, EnergyUnknown, EnergyStatus(2101, 3, nil))
}
