package health

import (
	"errors"
	"fmt"

	"healthassistant/internal/models"
)

var (
	ErrIncompleteProfile    = errors.New("profile incomplete")
	ErrUnknownActivityLevel = errors.New("unknown activity level")
	ErrUnknownSex           = errors.New("unknown sex")
)

// ActivityMultipliers maps an activity level to its TDEE factor.
type ActivityMultipliers map[models.ActivityLevel]float64

func DefaultActivityMultipliers() ActivityMultipliers {
	return ActivityMultipliers{
		models.ActivitySedentary:  1.2,
		models.ActivityLight:      1.375,
		models.ActivityModerate:   1.55,
		models.ActivityActive:     1.725,
		models.ActivityVeryActive: 1.9,
	}
}

// BMR uses the Mifflin-St Jeor equation.
func BMR(sex models.Sex, weightKG, heightCM float64, age int) (float64, error) {
	base := 10*weightKG + 6.25*heightCM - 5*float64(age)
	switch sex {
	case models.SexMale:
		return base + 5, nil
	case models.SexFemale:
		return base - 161, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSex, sex)
	}
}

func TDEE(bmr float64, level models.ActivityLevel, multipliers ActivityMultipliers) (float64, error) {
	m, ok := multipliers[level]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownActivityLevel, level)
	}
	return bmr * m, nil
}

type Energy struct {
	BMR    float64 `json:"bmr"`
	TDEE   float64 `json:"tdee"`
	Budget float64 `json:"budget"`
}

// ComputeEnergy returns BMR, TDEE and the daily budget (TDEE plus goal offset).
func ComputeEnergy(p *models.UserProfile, multipliers ActivityMultipliers) (Energy, error) {
	if !p.Complete() {
		return Energy{}, ErrIncompleteProfile
	}
	bmr, err := BMR(*p.Sex, *p.WeightKG, *p.HeightCM, *p.Age)
	if err != nil {
		return Energy{}, err
	}
	tdee, err := TDEE(bmr, p.ActivityLevel, multipliers)
	if err != nil {
		return Energy{}, err
	}
	return Energy{BMR: bmr, TDEE: tdee, Budget: tdee + p.GoalOffsetKcal}, nil
}

// ConsumedKcal sums the meal entries of one day.
func ConsumedKcal(day *models.DailyLog) float64 {
	total := 0.0
	for _, m := range day.Meals {
		total += m.EstimatedKcal
	}
	return total
}

// RecomputeTotals refreshes the cached totals of a DailyLog from its meals.
// Remaining is never clamped and goes negative when over budget.
func RecomputeTotals(day *models.DailyLog, budget float64, known bool) {
	day.CaloriesConsumed = ConsumedKcal(day)
	day.BudgetKnown = known
	if !known {
		day.CalorieBudget = 0
		day.CalorieBudgetRemaining = 0
		return
	}
	day.CalorieBudget = budget
	day.CalorieBudgetRemaining = budget - day.CaloriesConsumed
}

// Remaining recomputes the remaining budget from stored values only.
func Remaining(day *models.DailyLog) (float64, bool) {
	if !day.BudgetKnown {
		return 0, false
	}
	return day.CalorieBudget - ConsumedKcal(day), true
}

func Totals(day *models.DailyLog) *models.DailyTotals {
	return &models.DailyTotals{
		Date:                   day.Date,
		CaloriesConsumed:       day.CaloriesConsumed,
		CalorieBudget:          day.CalorieBudget,
		CalorieBudgetRemaining: day.CalorieBudgetRemaining,
		BudgetKnown:            day.BudgetKnown,
	}
}
