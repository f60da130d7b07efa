package health

import (
	"healthassistant/internal/knowledge"
	"healthassistant/internal/models"
)

const (
	AdviceAllNormal   = "all_normal"
	AdviceDASH        = "dash"
	AdviceActionPlans = "action_plans"
)

// ChronicAdvice is the knowledge-backed advice attached to a vitals turn.
type ChronicAdvice struct {
	Case           string                 `json:"case"`
	DASH           *knowledge.DASHAdvice  `json:"dash,omitempty"`
	ActionPlans    *knowledge.ActionPlans `json:"action_plans,omitempty"`
	Text           string                 `json:"text,omitempty"`
	MetabolicAlert string                 `json:"metabolic_alert,omitempty"`
}

// GradedReading pairs a reading with the band it was graded into.
type GradedReading struct {
	Reading *models.VitalReading
	Band    knowledge.Band
}

// BuildChronicAdvice picks advice from the most severe abnormal band. DASH
// diet advice only applies when blood pressure or glucose is abnormal; a
// BMI-only finding gets action plans alone. day holds the latest reading
// per type for the date and drives the metabolic alert.
func BuildChronicAdvice(chronic *knowledge.ChronicSlice, turn []GradedReading, day map[models.VitalType]GradedReading) ChronicAdvice {
	var worstBPGlucose, worstBMI *GradedReading
	for i := range turn {
		g := &turn[i]
		if g.Band.Normal() {
			continue
		}
		switch g.Reading.Type {
		case models.VitalBloodPressure, models.VitalGlucose:
			if worstBPGlucose == nil || g.Band.Severity > worstBPGlucose.Band.Severity {
				worstBPGlucose = g
			}
		case models.VitalBMI:
			worstBMI = g
		}
	}

	advice := ChronicAdvice{Case: AdviceAllNormal, Text: chronic.HealthyPlan}
	switch {
	case worstBPGlucose != nil:
		advice.Case = AdviceDASH
		advice.DASH = worstBPGlucose.Band.DASH
		advice.ActionPlans = worstBPGlucose.Band.ActionPlans
		advice.Text = worstBPGlucose.Band.Advice
	case worstBMI != nil:
		advice.Case = AdviceActionPlans
		advice.ActionPlans = worstBMI.Band.ActionPlans
		advice.Text = worstBMI.Band.Advice
	}
	if advice.Case != AdviceAllNormal && advice.DASH == nil && advice.ActionPlans == nil && advice.Text == "" {
		advice.Text = chronic.FallbackAdvice
	}

	if MetabolicRisk(day) {
		advice.MetabolicAlert = chronic.MetabolicAlert
	}
	return advice
}

// MetabolicRisk requires blood pressure, glucose and BMI to all be present
// and abnormal.
func MetabolicRisk(day map[models.VitalType]GradedReading) bool {
	for _, t := range []models.VitalType{models.VitalBloodPressure, models.VitalGlucose, models.VitalBMI} {
		g, ok := day[t]
		if !ok || g.Band.Normal() {
			return false
		}
	}
	return true
}

// LatestByType regrades the newest reading of each type in a day.
func LatestByType(chronic *knowledge.ChronicSlice, readings []models.VitalReading) (map[models.VitalType]GradedReading, error) {
	out := make(map[models.VitalType]GradedReading)
	for i := range readings {
		r := &readings[i]
		prev, ok := out[r.Type]
		if ok && prev.Reading.Timestamp.After(r.Timestamp) {
			continue
		}
		band, err := GradeReading(chronic, r)
		if err != nil {
			return nil, err
		}
		out[r.Type] = GradedReading{Reading: r, Band: band}
	}
	return out, nil
}
