package health

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthassistant/internal/knowledge"
	"healthassistant/internal/models"
)

func chronicSlice(t *testing.T) *knowledge.ChronicSlice {
	t.Helper()
	store, err := knowledge.Load()
	require.NoError(t, err)
	slice, err := knowledge.NewRetriever(store).FullChronic()
	require.NoError(t, err)
	return slice.Chronic
}

func TestGradeBloodPressure_Boundaries(t *testing.T) {
	bands := chronicSlice(t).BloodPressure

	tests := []struct {
		sys, dia int
		want     string
	}{
		{110, 70, "normal"},
		{119, 79, "normal"},
		{120, 79, "elevated"},
		{129, 79, "elevated"},
		{130, 80, "stage1"},
		{129, 80, "stage1"},
		{130, 70, "stage1"},
		{139, 89, "stage1"},
		{140, 89, "stage2"},
		{120, 90, "stage2"},
		{180, 120, "stage2"},
		{181, 100, "crisis"},
		{150, 121, "crisis"},
		{0, 0, "normal"},
		{-10, -10, "normal"},
		{400, 300, "crisis"},
	}

	for _, tt := range tests {
		band, err := GradeBloodPressure(bands, tt.sys, tt.dia)
		require.NoError(t, err)
		assert.Equal(t, tt.want, band.Grade, "%d/%d", tt.sys, tt.dia)
	}
}

func TestGradeBloodPressure_Total(t *testing.T) {
	bands := chronicSlice(t).BloodPressure
	grades := map[string]bool{}
	for _, b := range bands {
		grades[b.Grade] = true
	}

	for sys := 40; sys <= 260; sys += 3 {
		for dia := 20; dia <= 160; dia += 3 {
			band, err := GradeBloodPressure(bands, sys, dia)
			require.NoError(t, err)
			assert.True(t, grades[band.Grade])
		}
	}
}

func TestGradeValue(t *testing.T) {
	c := chronicSlice(t)

	tests := []struct {
		name  string
		bands []knowledge.Band
		value float64
		want  string
	}{
		{"Fasting low", c.GlucoseFasting, 69.9, "low"},
		{"Fasting normal lower bound", c.GlucoseFasting, 70, "normal"},
		{"Fasting prediabetes", c.GlucoseFasting, 100, "prediabetes"},
		{"Fasting diabetes", c.GlucoseFasting, 126, "diabetes"},
		{"Postprandial normal", c.GlucosePostprandial, 139, "normal"},
		{"Postprandial prediabetes", c.GlucosePostprandial, 140, "prediabetes"},
		{"BMI underweight", c.BMI, 18.4, "underweight"},
		{"BMI normal", c.BMI, 18.5, "normal"},
		{"BMI overweight", c.BMI, 24, "overweight"},
		{"BMI obese", c.BMI, 35, "obese"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			band, err := GradeValue(tt.bands, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, band.Grade)
		})
	}

	_, err := GradeValue(c.BMI, math.NaN())
	assert.ErrorIs(t, err, ErrClassificationUndefined)
	_, err = GradeValue(nil, 10)
	assert.ErrorIs(t, err, ErrClassificationUndefined)
}

func TestBMIValue(t *testing.T) {
	bmi, err := BMIValue(50, 165)
	require.NoError(t, err)
	assert.Equal(t, 18.4, bmi)

	bmi, err = BMIValue(70, 175)
	require.NoError(t, err)
	assert.Equal(t, 22.9, bmi)

	_, err = BMIValue(70, 0)
	assert.ErrorIs(t, err, ErrClassificationUndefined)
}

func TestGradeReading_Idempotent(t *testing.T) {
	c := chronicSlice(t)
	sys, dia := 135, 85
	glucose := 130.0
	readings := []models.VitalReading{
		{Type: models.VitalBloodPressure, Systolic: &sys, Diastolic: &dia},
		{Type: models.VitalGlucose, Value: &glucose, GlucoseContext: models.GlucoseFasting},
		{Type: models.VitalGlucose, Value: &glucose, GlucoseContext: models.GlucoseRandom},
	}
	want := []string{"stage1", "diabetes", "normal"}

	for i := range readings {
		_, err := ApplyGrade(c, "2024.1", &readings[i])
		require.NoError(t, err)
		assert.Equal(t, want[i], readings[i].RiskGrade)

		again, err := GradeReading(c, &readings[i])
		require.NoError(t, err)
		assert.Equal(t, readings[i].RiskGrade, again.Grade)
		assert.Equal(t, readings[i].Severity, again.Severity)
	}

	_, err := GradeReading(c, &models.VitalReading{Type: models.VitalBloodPressure})
	assert.ErrorIs(t, err, ErrClassificationUndefined)
}
