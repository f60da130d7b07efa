package health

import (
	"errors"
	"fmt"
	"math"

	"healthassistant/internal/knowledge"
	"healthassistant/internal/models"
)

// ErrClassificationUndefined means a value fell outside every band. It
// cannot happen for tables that pass knowledge validation.
var ErrClassificationUndefined = errors.New("classification undefined")

// GradeValue returns the last band whose lower bound is at or below v.
func GradeValue(bands []knowledge.Band, v float64) (knowledge.Band, error) {
	if len(bands) == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return knowledge.Band{}, fmt.Errorf("%w: value %v", ErrClassificationUndefined, v)
	}
	idx := 0
	for i, b := range bands {
		if b.Min != nil && v >= *b.Min {
			idx = i
		}
	}
	return bands[idx], nil
}

// GradeBloodPressure grades each axis separately and returns the more severe
// band. A band without a bound on an axis cannot be reached from that axis.
func GradeBloodPressure(bands []knowledge.Band, systolic, diastolic int) (knowledge.Band, error) {
	if len(bands) == 0 {
		return knowledge.Band{}, fmt.Errorf("%w: empty blood pressure table", ErrClassificationUndefined)
	}
	sys, dia := 0, 0
	for i, b := range bands {
		if b.MinSystolic != nil && float64(systolic) >= *b.MinSystolic {
			sys = i
		}
		if b.MinDiastolic != nil && float64(diastolic) >= *b.MinDiastolic {
			dia = i
		}
	}
	if dia > sys {
		return bands[dia], nil
	}
	return bands[sys], nil
}

// GlucoseTable picks the table for a measurement context. Random readings
// use the postprandial table.
func GlucoseTable(chronic *knowledge.ChronicSlice, ctx models.GlucoseContext) []knowledge.Band {
	if ctx == models.GlucoseFasting {
		return chronic.GlucoseFasting
	}
	return chronic.GlucosePostprandial
}

// BMIValue is kg/m² rounded to one decimal.
func BMIValue(weightKG, heightCM float64) (float64, error) {
	if weightKG <= 0 || heightCM <= 0 {
		return 0, fmt.Errorf("%w: weight %v height %v", ErrClassificationUndefined, weightKG, heightCM)
	}
	heightM := heightCM / 100
	bmi := weightKG / (heightM * heightM)
	return math.Round(bmi*10) / 10, nil
}

// GradeReading derives the band of a stored reading. It never looks at the
// stored RiskGrade, so it can be used to verify it.
func GradeReading(chronic *knowledge.ChronicSlice, r *models.VitalReading) (knowledge.Band, error) {
	if chronic == nil {
		return knowledge.Band{}, fmt.Errorf("%w: chronic slice", knowledge.ErrKnowledgeMissing)
	}
	switch r.Type {
	case models.VitalBloodPressure:
		if r.Systolic == nil || r.Diastolic == nil {
			return knowledge.Band{}, fmt.Errorf("%w: blood pressure without values", ErrClassificationUndefined)
		}
		return GradeBloodPressure(chronic.BloodPressure, *r.Systolic, *r.Diastolic)
	case models.VitalGlucose:
		if r.Value == nil {
			return knowledge.Band{}, fmt.Errorf("%w: glucose without value", ErrClassificationUndefined)
		}
		return GradeValue(GlucoseTable(chronic, r.GlucoseContext), *r.Value)
	case models.VitalBMI:
		if r.Value == nil {
			return knowledge.Band{}, fmt.Errorf("%w: bmi without value", ErrClassificationUndefined)
		}
		return GradeValue(chronic.BMI, *r.Value)
	default:
		return knowledge.Band{}, fmt.Errorf("%w: reading type %q", ErrClassificationUndefined, r.Type)
	}
}

// ApplyGrade grades a reading and stores the result on it.
func ApplyGrade(chronic *knowledge.ChronicSlice, version string, r *models.VitalReading) (knowledge.Band, error) {
	band, err := GradeReading(chronic, r)
	if err != nil {
		return knowledge.Band{}, err
	}
	r.RiskGrade = band.Grade
	r.Severity = band.Severity
	r.KnowledgeVersion = version
	return band, nil
}

// DisplayValue renders the measured value of a reading.
func DisplayValue(r *models.VitalReading) string {
	switch r.Type {
	case models.VitalBloodPressure:
		if r.Systolic != nil && r.Diastolic != nil {
			return fmt.Sprintf("%d/%d", *r.Systolic, *r.Diastolic)
		}
	case models.VitalGlucose:
		if r.Value != nil {
			return fmt.Sprintf("%g (%s)", *r.Value, r.GlucoseContext)
		}
	case models.VitalBMI:
		if r.Value != nil {
			return fmt.Sprintf("%.1f", *r.Value)
		}
	}
	return "-"
}

func GradeResult(r *models.VitalReading, band knowledge.Band) models.GradeResult {
	return models.GradeResult{
		Type:     r.Type,
		Display:  DisplayValue(r),
		Grade:    band.Grade,
		Label:    band.Label,
		Severity: band.Severity,
		Emoji:    band.Emoji,
	}
}
