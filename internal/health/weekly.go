package health

import (
	"fmt"
	"math"
	"sort"
	"time"

	"healthassistant/internal/models"
)

const (
	WeekDays = 7

	EnergyBelowTarget = "below_target"
	EnergyOnTarget    = "on_target"
	EnergyAboveTarget = "above_target"
	EnergyUnknown     = "unknown"
)

// energyTolerance is the relative band around TDEE treated as on target.
const energyTolerance = 0.05

// WeekRange returns the first and last date of the seven days ending at to.
func WeekRange(to time.Time) (string, string) {
	return to.AddDate(0, 0, -(WeekDays - 1)).Format(models.DateLayout), to.Format(models.DateLayout)
}

// BuildWeeklyReport summarizes already-classified logs between from and to.
// Logs outside the range are ignored. tdee may be nil when the profile is
// incomplete.
func BuildWeeklyReport(userID, from, to string, logs []models.DailyLog, tdee *float64) *models.WeeklyReport {
	days := make([]models.DailyLog, 0, len(logs))
	for _, l := range logs {
		if l.Date >= from && l.Date <= to {
			days = append(days, l)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	report := &models.WeeklyReport{
		UserID:      userID,
		From:        from,
		To:          to,
		TDEE:        tdee,
		FlaggedDays: []string{},
	}
	fromDate, _ := time.Parse(models.DateLayout, from)

	var kcalX, kcalY, sleepX, sleepY, sleepScores, sysX, sysY, diaY, gluX, gluY []float64
	for _, day := range days {
		x := dayIndex(fromDate, day.Date)
		logged := false
		flagged := false

		if len(day.Meals) > 0 {
			logged = true
			kcal := ConsumedKcal(&day)
			report.Diet.DaysLogged++
			report.Diet.TotalKcal += kcal
			kcalX = append(kcalX, x)
			kcalY = append(kcalY, kcal)
			if remaining, ok := Remaining(&day); ok && remaining < 0 {
				flagged = true
			}
		}

		if len(day.SleepSessions) > 0 {
			logged = true
			asleep, score := 0.0, 0.0
			for _, s := range day.SleepSessions {
				asleep += s.AsleepMinutes()
				score += float64(s.Score)
				if s.DurationStatus == DurationInsufficient || s.CaffeineFlag || s.SnoringFlag || s.AlcoholFlag {
					flagged = true
				}
				if s.SnoringFlag {
					report.Sleep.SnoringNights++
				}
				if s.AlcoholFlag {
					report.Sleep.AlcoholNights++
				}
			}
			report.Sleep.DaysLogged++
			sleepX = append(sleepX, x)
			sleepY = append(sleepY, asleep/60)
			sleepScores = append(sleepScores, score/float64(len(day.SleepSessions)))
		}

		for i := range day.Vitals {
			v := &day.Vitals[i]
			logged = true
			report.Vitals.Readings++
			if v.Severity > 0 {
				report.Vitals.AlertCount++
				flagged = true
			}
			switch v.Type {
			case models.VitalBloodPressure:
				if v.Systolic != nil && v.Diastolic != nil {
					report.Vitals.BloodPressure = append(report.Vitals.BloodPressure, DisplayValue(v))
					sysX = append(sysX, x)
					sysY = append(sysY, float64(*v.Systolic))
					diaY = append(diaY, float64(*v.Diastolic))
				}
			case models.VitalGlucose:
				if v.Value != nil {
					report.Vitals.Glucose = append(report.Vitals.Glucose, DisplayValue(v))
					gluX = append(gluX, x)
					gluY = append(gluY, *v.Value)
				}
			case models.VitalBMI:
				if v.Value != nil {
					bmi := *v.Value
					report.Vitals.LatestBMI = &bmi
				}
			}
		}

		if logged {
			report.DaysLogged++
		}
		if flagged {
			report.FlaggedDays = append(report.FlaggedDays, day.Date)
		}
	}

	if report.Diet.DaysLogged > 0 {
		report.Diet.TotalKcal = round1(report.Diet.TotalKcal)
		report.Diet.MeanKcal = round1(report.Diet.TotalKcal / float64(report.Diet.DaysLogged))
	}
	report.Diet.Trend = Trend(kcalX, kcalY)
	report.Diet.EnergyStatus = EnergyStatus(report.Diet.MeanKcal, report.Diet.DaysLogged, tdee)

	report.Sleep.MeanHours = round1(mean(sleepY))
	report.Sleep.MeanScore = round1(mean(sleepScores))
	report.Sleep.Trend = Trend(sleepX, sleepY)

	report.Vitals.MeanSystolic = round1(mean(sysY))
	report.Vitals.MeanDiastolic = round1(mean(diaY))
	report.Vitals.MeanGlucose = round1(mean(gluY))
	report.Vitals.SystolicTrend = Trend(sysX, sysY)
	report.Vitals.GlucoseTrend = Trend(gluX, gluY)

	return report
}

// EnergyStatus compares mean intake with TDEE.
func EnergyStatus(meanKcal float64, daysLogged int, tdee *float64) string {
	if tdee == nil || *tdee <= 0 || daysLogged == 0 {
		return EnergyUnknown
	}
	switch {
	case meanKcal < *tdee*(1-energyTolerance):
		return EnergyBelowTarget
	case meanKcal > *tdee*(1+energyTolerance):
		return EnergyAboveTarget
	default:
		return EnergyOnTarget
	}
}

// Trend classifies the least-squares slope of y over x. A slope smaller than
// one percent of the mean per day counts as stable.
func Trend(x, y []float64) string {
	if len(x) < 2 || len(x) != len(y) {
		return models.TrendInsufficient
	}
	mx, my := mean(x), mean(y)
	var num, den float64
	for i := range x {
		num += (x[i] - mx) * (y[i] - my)
		den += (x[i] - mx) * (x[i] - mx)
	}
	if den == 0 {
		return models.TrendInsufficient
	}
	slope := num / den
	threshold := math.Abs(my) * 0.01
	switch {
	case slope > threshold:
		return models.TrendRising
	case slope < -threshold:
		return models.TrendFalling
	default:
		return models.TrendStable
	}
}

// FormatEnergyStatus renders a status for reply text.
func FormatEnergyStatus(status string, meanKcal float64, tdee *float64) string {
	if tdee == nil || status == EnergyUnknown {
		return fmt.Sprintf("average %.0f kcal/day", meanKcal)
	}
	return fmt.Sprintf("average %.0f kcal/day vs TDEE %.0f kcal (%s)", meanKcal, *tdee, status)
}

func dayIndex(from time.Time, date string) float64 {
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return 0
	}
	return math.Round(d.Sub(from).Hours() / 24)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
