package generation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"healthassistant/internal/health"
	"healthassistant/internal/knowledge"
	"healthassistant/internal/models"
)

// Contract is the output schema the model must follow for one intent.
type Contract struct {
	Intent       models.Intent
	Name         string
	Schema       string
	Instructions string
}

// Contracts renders and enforces the per-intent output schemas. Enumerated
// vocabularies come from the knowledge base so grades never drift from the
// grading tables.
type Contracts struct {
	ranges     Ranges
	riskGrades []string
	glucoseCtx []string
	categories []string
	sexes      []string
	activity   []string
}

func NewContracts(store *knowledge.Store, ranges Ranges) *Contracts {
	c := &Contracts{
		ranges:     ranges,
		glucoseCtx: []string{string(models.GlucoseFasting), string(models.GlucosePostprandial), string(models.GlucoseRandom)},
		sexes:      []string{string(models.SexMale), string(models.SexFemale)},
	}
	for _, b := range store.Chronic().BloodPressure {
		c.riskGrades = append(c.riskGrades, b.Grade)
	}
	for _, fc := range models.FoodCategories {
		c.categories = append(c.categories, string(fc))
	}
	for level := range health.DefaultActivityMultipliers() {
		c.activity = append(c.activity, string(level))
	}
	sort.Strings(c.activity)
	return c
}

func (c *Contracts) Ranges() Ranges { return c.ranges }

// For returns the contract of a recording or profile intent.
func (c *Contracts) For(intent models.Intent) (Contract, bool) {
	switch intent {
	case models.IntentDiet:
		return Contract{
			Intent: intent,
			Name:   "diet_record",
			Schema: fmt.Sprintf(`{
  "items": [{
    "name": string, one food or drink,
    "estimated_kcal": number %s,
    "carbs_g": number %s,
    "protein_g": number %s,
    "fat_g": number %s,
    "sodium_mg": number %s,
    "food_category": one of %s
  }],
  "note": string, one short sentence of feedback
}`, c.ranges.Kcal.describe(), c.ranges.MacroG.describe(), c.ranges.MacroG.describe(), c.ranges.MacroG.describe(), c.ranges.SodiumMG.describe(), quoteAll(c.categories)),
			Instructions: "List every food or drink the user ate as its own item. If an item matches a common item in the reference, use its kcal.",
		}, true
	case models.IntentSleep:
		return Contract{
			Intent: intent,
			Name:   "sleep_record",
			Schema: fmt.Sprintf(`{
  "sleep_start": "HH:MM" 24-hour time the user went to bed,
  "wake_time": "HH:MM" 24-hour time the user woke up,
  "latency_min": number %s, minutes to fall asleep, 0 if not mentioned,
  "waso_min": number %s, minutes awake during the night, 0 if not mentioned,
  "caffeine_reported": boolean,
  "caffeine_times": ["HH:MM"], empty when no time was given,
  "snoring_reported": boolean, true when the user or a partner mentioned snoring or gasping,
  "alcohol_reported": boolean, true when the user drank alcohol in the evening,
  "note": string, one short sentence of feedback
}`, c.ranges.LatencyMin.describe(), c.ranges.WasoMin.describe()),
			Instructions: fmt.Sprintf("Extract the night the user described. Do not guess times the user did not give except bed and wake time. The night from bed time to wake time lasts %s minutes.", c.ranges.SleepDurationMin.describe()),
		}, true
	case models.IntentVitals:
		return Contract{
			Intent: intent,
			Name:   "vitals_record",
			Schema: fmt.Sprintf(`{
  "blood_pressure": null or {"systolic": integer %s, "diastolic": integer %s, "risk_grade": one of %s},
  "glucose": null or {"value": number %s mg/dL, "context": one of %s},
  "weight_kg": null or number %s,
  "note": string, one short sentence of feedback
}`, c.ranges.Systolic.describe(), c.ranges.Diastolic.describe(), quoteAll(c.riskGrades), c.ranges.Glucose.describe(), quoteAll(c.glucoseCtx), c.ranges.WeightKG.describe()),
			Instructions: "Only fill readings the user reported. Grade blood pressure with the reference table.",
		}, true
	case models.IntentProfileUpdate:
		return Contract{
			Intent: intent,
			Name:   "profile_update",
			Schema: fmt.Sprintf(`{
  "sex": null or one of %s,
  "height_cm": null or number %s,
  "weight_kg": null or number %s,
  "age": null or integer %s,
  "activity_level": null or one of %s,
  "goal_offset_kcal": null or number %s
}`, quoteAll(c.sexes), c.ranges.HeightCM.describe(), c.ranges.WeightKG.describe(), c.ranges.Age.describe(), quoteAll(c.activity), c.ranges.GoalOffset.describe()),
			Instructions: "Fill only what the user stated. Leave everything else null.",
		}, true
	}
	return Contract{}, false
}

func (c *Contracts) ValidateDiet(o *DietOutput) error {
	if len(o.Items) == 0 {
		return errors.New("items must contain at least one food")
	}
	r := c.ranges
	for i, item := range o.Items {
		prefix := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("%s.name is required", prefix)
		}
		fields := []struct {
			name  string
			value *float64
			rng   Range
		}{
			{"estimated_kcal", item.EstimatedKcal, r.Kcal},
			{"carbs_g", item.CarbsG, r.MacroG},
			{"protein_g", item.ProteinG, r.MacroG},
			{"fat_g", item.FatG, r.MacroG},
			{"sodium_mg", item.SodiumMG, r.SodiumMG},
		}
		for _, f := range fields {
			if f.value == nil {
				return fmt.Errorf("%s.%s is required", prefix, f.name)
			}
			if err := f.rng.check(prefix+"."+f.name, *f.value); err != nil {
				return err
			}
		}
		if !contains(c.categories, item.FoodCategory) {
			return fmt.Errorf("%s.food_category %q is not one of %s", prefix, item.FoodCategory, quoteAll(c.categories))
		}
	}
	return nil
}

func (c *Contracts) ValidateSleep(o *SleepOutput) error {
	if _, _, err := health.ParseClock(o.SleepStart); err != nil {
		return fmt.Errorf("sleep_start: %v", err)
	}
	if _, _, err := health.ParseClock(o.WakeTime); err != nil {
		return fmt.Errorf("wake_time: %v", err)
	}
	if o.CaffeineReported == nil {
		return errors.New("caffeine_reported is required")
	}
	if o.LatencyMin != nil {
		if err := c.ranges.LatencyMin.check("latency_min", *o.LatencyMin); err != nil {
			return err
		}
	}
	if o.WasoMin != nil {
		if err := c.ranges.WasoMin.check("waso_min", *o.WasoMin); err != nil {
			return err
		}
	}
	for i, t := range o.CaffeineTimes {
		if _, _, err := health.ParseClock(t); err != nil {
			return fmt.Errorf("caffeine_times[%d]: %v", i, err)
		}
	}
	return nil
}

func (c *Contracts) ValidateVitals(o *VitalsOutput) error {
	if o.BloodPressure == nil && o.Glucose == nil && o.WeightKG == nil {
		return errors.New("at least one of blood_pressure, glucose, weight_kg is required")
	}
	r := c.ranges
	if bp := o.BloodPressure; bp != nil {
		if bp.Systolic == nil || bp.Diastolic == nil {
			return errors.New("blood_pressure.systolic and blood_pressure.diastolic are required")
		}
		if err := r.Systolic.check("blood_pressure.systolic", float64(*bp.Systolic)); err != nil {
			return err
		}
		if err := r.Diastolic.check("blood_pressure.diastolic", float64(*bp.Diastolic)); err != nil {
			return err
		}
		if *bp.Systolic <= *bp.Diastolic {
			return fmt.Errorf("blood_pressure.systolic %d must exceed diastolic %d", *bp.Systolic, *bp.Diastolic)
		}
		if !contains(c.riskGrades, bp.RiskGrade) {
			return fmt.Errorf("blood_pressure.risk_grade %q is not one of %s", bp.RiskGrade, quoteAll(c.riskGrades))
		}
	}
	if g := o.Glucose; g != nil {
		if g.Value == nil {
			return errors.New("glucose.value is required")
		}
		if err := r.Glucose.check("glucose.value", *g.Value); err != nil {
			return err
		}
		if !contains(c.glucoseCtx, g.Context) {
			return fmt.Errorf("glucose.context %q is not one of %s", g.Context, quoteAll(c.glucoseCtx))
		}
	}
	if o.WeightKG != nil {
		if err := r.WeightKG.check("weight_kg", *o.WeightKG); err != nil {
			return err
		}
	}
	return nil
}

func (c *Contracts) ValidateProfile(o *ProfileOutput) error {
	if o.Sex == nil && o.HeightCM == nil && o.WeightKG == nil && o.Age == nil && o.ActivityLevel == nil && o.GoalOffsetKcal == nil {
		return errors.New("at least one profile field is required")
	}
	r := c.ranges
	if o.Sex != nil && !contains(c.sexes, *o.Sex) {
		return fmt.Errorf("sex %q is not one of %s", *o.Sex, quoteAll(c.sexes))
	}
	if o.ActivityLevel != nil && !contains(c.activity, *o.ActivityLevel) {
		return fmt.Errorf("activity_level %q is not one of %s", *o.ActivityLevel, quoteAll(c.activity))
	}
	if o.HeightCM != nil {
		if err := r.HeightCM.check("height_cm", *o.HeightCM); err != nil {
			return err
		}
	}
	if o.WeightKG != nil {
		if err := r.WeightKG.check("weight_kg", *o.WeightKG); err != nil {
			return err
		}
	}
	if o.Age != nil {
		if err := r.Age.check("age", float64(*o.Age)); err != nil {
			return err
		}
	}
	if o.GoalOffsetKcal != nil {
		if err := r.GoalOffset.check("goal_offset_kcal", *o.GoalOffsetKcal); err != nil {
			return err
		}
	}
	return nil
}

func (r Range) describe() string {
	return fmt.Sprintf("between %v and %v", r.Min, r.Max)
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
