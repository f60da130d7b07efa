package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthassistant/internal/models"
)

func graded(t *testing.T, r models.VitalReading) GradedReading {
	t.Helper()
	band, err := GradeReading(chronicSlice(t), &r)
	require.NoError(t, err)
	return GradedReading{Reading: &r, Band: band}
}

func TestBuildChronicAdvice(t *testing.T) {
	c := chronicSlice(t)
	normalBP := graded(t, models.VitalReading{Type: models.VitalBloodPressure, Systolic: intPtr(115), Diastolic: intPtr(75)})
	highBP := graded(t, models.VitalReading{Type: models.VitalBloodPressure, Systolic: intPtr(145), Diastolic: intPtr(92)})
	highGlucose := graded(t, models.VitalReading{Type: models.VitalGlucose, Value: floatPtr(130), GlucoseContext: models.GlucoseFasting})
	heavy := graded(t, models.VitalReading{Type: models.VitalBMI, Value: floatPtr(28)})

	t.Run("All normal", func(t *testing.T) {
		a := BuildChronicAdvice(c, []GradedReading{normalBP}, nil)
		assert.Equal(t, AdviceAllNormal, a.Case)
		assert.Nil(t, a.DASH)
		assert.Equal(t, c.HealthyPlan, a.Text)
		assert.Empty(t, a.MetabolicAlert)
	})

	t.Run("Blood pressure triggers DASH", func(t *testing.T) {
		a := BuildChronicAdvice(c, []GradedReading{highBP, heavy}, nil)
		assert.Equal(t, AdviceDASH, a.Case)
		require.NotNil(t, a.DASH)
		require.NotNil(t, a.ActionPlans)
		assert.Equal(t, highBP.Band.DASH.Sodium, a.DASH.Sodium)
	})

	t.Run("BMI only gets action plans", func(t *testing.T) {
		a := BuildChronicAdvice(c, []GradedReading{normalBP, heavy}, nil)
		assert.Equal(t, AdviceActionPlans, a.Case)
		assert.Nil(t, a.DASH)
		require.NotNil(t, a.ActionPlans)
	})

	t.Run("Metabolic alert needs all three", func(t *testing.T) {
		day := map[models.VitalType]GradedReading{
			models.VitalBloodPressure: highBP,
			models.VitalGlucose:       highGlucose,
		}
		a := BuildChronicAdvice(c, []GradedReading{highGlucose}, day)
		assert.Empty(t, a.MetabolicAlert)

		day[models.VitalBMI] = heavy
		a = BuildChronicAdvice(c, []GradedReading{heavy}, day)
		assert.Equal(t, c.MetabolicAlert, a.MetabolicAlert)
	})
}
