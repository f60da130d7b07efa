package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthassistant/internal/models"
)

func completeProfile(sex models.Sex, weight, height float64, age int, level models.ActivityLevel) *models.UserProfile {
	return &models.UserProfile{
		UserID:        "u1",
		Sex:           &sex,
		WeightKG:      &weight,
		HeightCM:      &height,
		Age:           &age,
		ActivityLevel: level,
	}
}

func TestBMR(t *testing.T) {
	tests := []struct {
		name    string
		sex     models.Sex
		weight  float64
		height  float64
		age     int
		want    float64
		wantErr error
	}{
		{"Male reference", models.SexMale, 70, 175, 30, 1673.75, nil},
		{"Female reference", models.SexFemale, 50, 165, 25, 1245.25, nil},
		{"Unknown sex", models.Sex("other"), 70, 175, 30, 0, ErrUnknownSex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BMR(tt.sex, tt.weight, tt.height, tt.age)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeEnergy(t *testing.T) {
	m := DefaultActivityMultipliers()

	for level, factor := range m {
		p := completeProfile(models.SexMale, 70, 175, 30, level)
		e, err := ComputeEnergy(p, m)
		require.NoError(t, err)
		assert.Equal(t, 1673.75, e.BMR)
		assert.Equal(t, 1673.75*factor, e.TDEE)
		assert.Equal(t, e.TDEE, e.Budget)
	}

	p := completeProfile(models.SexMale, 70, 175, 30, models.ActivitySedentary)
	p.GoalOffsetKcal = -500
	e, err := ComputeEnergy(p, m)
	require.NoError(t, err)
	assert.Equal(t, 1673.75*1.2-500, e.Budget)

	p.ActivityLevel = "couch"
	_, err = ComputeEnergy(p, m)
	assert.ErrorIs(t, err, ErrUnknownActivityLevel)

	p.Age = nil
	_, err = ComputeEnergy(p, m)
	assert.ErrorIs(t, err, ErrIncompleteProfile)

	_, err = ComputeEnergy(nil, m)
	assert.ErrorIs(t, err, ErrIncompleteProfile)
}

func TestRecomputeTotals_PerDateIsolation(t *testing.T) {
	day1 := &models.DailyLog{UserID: "u1", Date: "2024-05-01"}
	day1.Meals = append(day1.Meals, models.MealEntry{EstimatedKcal: 500})
	RecomputeTotals(day1, 2000, true)
	day1.Meals = append(day1.Meals, models.MealEntry{EstimatedKcal: 300})
	RecomputeTotals(day1, 2000, true)

	assert.Equal(t, 800.0, day1.CaloriesConsumed)
	assert.Equal(t, 1200.0, day1.CalorieBudgetRemaining)

	day2 := &models.DailyLog{UserID: "u1", Date: "2024-05-02"}
	day2.Meals = append(day2.Meals, models.MealEntry{EstimatedKcal: 700})
	RecomputeTotals(day2, 2000, true)

	assert.Equal(t, 1200.0, day1.CalorieBudgetRemaining)
	assert.Equal(t, 1300.0, day2.CalorieBudgetRemaining)
}

func TestRecomputeTotals_NegativeAndUnknown(t *testing.T) {
	day := &models.DailyLog{Meals: []models.MealEntry{{EstimatedKcal: 1500}, {EstimatedKcal: 900}}}
	RecomputeTotals(day, 2000, true)
	assert.Equal(t, -400.0, day.CalorieBudgetRemaining)

	RecomputeTotals(day, 2000, false)
	assert.Equal(t, 2400.0, day.CaloriesConsumed)
	assert.False(t, day.BudgetKnown)
	_, ok := Remaining(day)
	assert.False(t, ok)
}

func TestRemaining_Idempotent(t *testing.T) {
	day := &models.DailyLog{Meals: []models.MealEntry{{EstimatedKcal: 500}, {EstimatedKcal: 300}}}
	RecomputeTotals(day, 2000, true)
	stored := day.CalorieBudgetRemaining

	for i := 0; i < 3; i++ {
		got, ok := Remaining(day)
		require.True(t, ok)
		assert.Equal(t, stored, got)
	}
}
