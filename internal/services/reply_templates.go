package services

import (
	"fmt"
	"healthassistant/internal/generation"
	"healthassistant/internal/health"
	"healthassistant/internal/knowledge"
	"healthassistant/internal/models"
	"strings"
)

const (
	divider = "━━━━━━━━━━━━━━"

	clarificationText = "Sorry, I could not tell what you want to record. Send \"record\" to pick a category, " +
		"or describe a meal, last night's sleep, or a blood pressure / glucose reading."
	genericFailureText = "The assistant is busy right now. Please try again later."

	profileHelpText = "[Your body baseline]\n\n" +
		"A few basic measurements make the advice more accurate:\n\n" +
		"🛌 Sleep: age decides how many hours and what sleep structure you need.\n\n" +
		"🥗 Diet: height and weight give your basal metabolic rate (BMR) and daily calorie budget.\n\n" +
		"🩺 Chronic care: your baseline helps tell real changes from individual differences.\n\n" +
		"Please send your height, weight, age and sex\n(example: 165 cm, 50 kg, 25 years old, female)"
)

// Menu commands accepted verbatim, in English and Traditional Chinese.
var (
	profileHelpCommands = map[string]bool{"update profile": true, "更新個人檔案": true}
	recordMenuCommands  = map[string]bool{"record": true, "我要紀錄": true}
	reportCommands      = map[string]bool{"weekly report": true, "查看健康報告": true}
	recordModeCommands  = map[string]models.Intent{
		"[record] diet":   models.IntentDiet,
		"[record] sleep":  models.IntentSleep,
		"[record] vitals": models.IntentVitals,
		"【紀錄】飲食":          models.IntentDiet,
		"【紀錄】睡眠":          models.IntentSleep,
		"【紀錄】慢性病":         models.IntentVitals,
	}
)

func recordMenuReplies(chinese bool) []models.QuickReply {
	if chinese {
		return []models.QuickReply{
			{Label: "睡眠追蹤", Text: "【紀錄】睡眠"},
			{Label: "飲食與營養", Text: "【紀錄】飲食"},
			{Label: "慢性病紀錄", Text: "【紀錄】慢性病"},
		}
	}
	return []models.QuickReply{
		{Label: "Sleep", Text: "[record] sleep"},
		{Label: "Diet", Text: "[record] diet"},
		{Label: "Vitals", Text: "[record] vitals"},
	}
}

func recordModePrompt(intent models.Intent) string {
	switch intent {
	case models.IntentSleep:
		return "Sleep recording is on.\n\n" +
			"Tell me when you went to bed and woke up, and how it felt " +
			"(for example: in bed at 00:00, fell asleep after 30 minutes, up at 08:00, feeling fresh).\n\n" +
			"💡 Mention coffee or tea and when you had it, so I can check its effect on your sleep."
	case models.IntentDiet:
		return "Diet recording is on.\n\nTell me what you ate (for example: a burger and a bubble milk tea for lunch)."
	case models.IntentVitals:
		return "Vitals recording is on.\n\nSend your measurements, for example:\n" +
			"\"blood pressure 135/85, glucose 110 after meal\".\n\n" +
			"💡 If your weight changed, tell me too and I will update your BMI."
	}
	return "Please describe your health log:"
}

func recordedHeader(intent models.Intent) string {
	names := map[models.Intent]string{
		models.IntentDiet:          "Diet",
		models.IntentSleep:         "Sleep",
		models.IntentVitals:        "Vitals",
		models.IntentProfileUpdate: "Profile",
	}
	return fmt.Sprintf("%s record saved!\n%s", names[intent], divider)
}

func budgetLine(t *models.DailyTotals) string {
	if t == nil {
		return ""
	}
	if !t.BudgetKnown {
		return fmt.Sprintf("Today: %.0f kcal. Complete your profile (height, weight, age, sex) to get a daily budget.", t.CaloriesConsumed)
	}
	if t.CalorieBudgetRemaining < 0 {
		return fmt.Sprintf("Today: %.0f / %.0f kcal, %.0f kcal over budget.", t.CaloriesConsumed, t.CalorieBudget, -t.CalorieBudgetRemaining)
	}
	return fmt.Sprintf("Today: %.0f / %.0f kcal, %.0f kcal remaining.", t.CaloriesConsumed, t.CalorieBudget, t.CalorieBudgetRemaining)
}

func dietText(meals []models.MealEntry, day *models.DailyLog, diet *knowledge.DietSlice, note string) string {
	var sb strings.Builder
	sb.WriteString(recordedHeader(models.IntentDiet))
	sb.WriteString("\n")
	for _, m := range meals {
		fmt.Fprintf(&sb, "🍽 %s: %.0f kcal (%s)\n", m.FoodDescription, m.EstimatedKcal, m.FoodCategory)
	}
	sb.WriteString(budgetLine(health.Totals(day)))

	if diet != nil {
		if day.BudgetKnown && day.CalorieBudgetRemaining < 0 && diet.Advice["over_budget"] != "" {
			sb.WriteString("\n💡 " + diet.Advice["over_budget"])
		}
		sodium := 0.0
		for _, m := range day.Meals {
			sodium += m.SodiumMG
		}
		if diet.SodiumLimitMG > 0 && sodium > diet.SodiumLimitMG && diet.Advice["high_sodium"] != "" {
			fmt.Fprintf(&sb, "\n🧂 Sodium today %.0f mg is above %.0f mg. %s", sodium, diet.SodiumLimitMG, diet.Advice["high_sodium"])
		}
		for _, m := range meals {
			if m.FoodCategory == models.FoodSugary && diet.Advice["sugary"] != "" {
				sb.WriteString("\n🥤 " + diet.Advice["sugary"])
				break
			}
		}
	}
	if note = strings.TrimSpace(note); note != "" {
		sb.WriteString("\n" + note)
	}
	return sb.String()
}

func dietFallbackText(today *models.DailyLog) string {
	text := "I could not read the meal details this time, so nothing was saved. Please list the foods again, one per line."
	if today != nil {
		text += "\n" + budgetLine(health.Totals(today))
	}
	return text
}

func sleepText(a health.SleepAssessment, s *knowledge.SleepSlice, note string) string {
	var sb strings.Builder
	sb.WriteString(recordedHeader(models.IntentSleep))
	fmt.Fprintf(&sb, "\n%s Sleep score %d (%s)\n", a.Quality.Emoji, a.Score, a.Quality.Label)
	fmt.Fprintf(&sb, "Asleep %.1f h of %.1f h in bed, %s for %s (%g-%g h)\n",
		a.AsleepMin/60, a.TotalDurationMin/60, a.DurationStatus, s.Bracket.Label, s.Bracket.MinHours, s.Bracket.MaxHours)
	fmt.Fprintf(&sb, "Estimated deep sleep (N3) %.0f min (%.1f%%), REM %.0f min (%.1f%%)",
		a.N3Min, a.N3Pct, a.REMMin, a.REMPct)

	var tips []string
	if a.DurationStatus != health.DurationAdequate {
		tips = append(tips, s.Advice[a.DurationStatus])
	}
	if !a.N3InRange && s.StageReference.N3Hint != "" {
		tips = append(tips, s.StageReference.N3Hint)
	}
	if !a.REMInRange && s.StageReference.REMHint != "" {
		tips = append(tips, s.StageReference.REMHint)
	}
	if a.CaffeineFlag {
		tips = append(tips, s.Advice["caffeine"])
	}
	if a.SnoringFlag {
		tips = append(tips, s.Advice["snoring"])
	}
	if a.AlcoholFlag {
		tips = append(tips, s.Advice["alcohol"])
	}
	if !a.LatencyOK {
		tips = append(tips, s.Advice["latency"])
	}
	if !a.WasoOK {
		tips = append(tips, s.Advice["waso"])
	}
	if len(tips) == 0 {
		tips = append(tips, s.Advice[health.DurationAdequate])
	}
	for _, tip := range tips {
		if tip != "" {
			sb.WriteString("\n💡 " + tip)
		}
	}
	if note = strings.TrimSpace(note); note != "" {
		sb.WriteString("\n" + note)
	}
	return sb.String()
}

const sleepFallbackText = "I could not read your bed and wake times, so nothing was saved. " +
	"Please send them like \"bed 23:30, up 07:00\"."

func gradeLines(sb *strings.Builder, grades []models.GradeResult) {
	for _, g := range grades {
		fmt.Fprintf(sb, "\n%s %s %s: %s", g.Emoji, vitalName(g.Type), g.Display, g.Label)
	}
}

func vitalName(t models.VitalType) string {
	switch t {
	case models.VitalBloodPressure:
		return "Blood pressure"
	case models.VitalGlucose:
		return "Glucose"
	case models.VitalBMI:
		return "BMI"
	}
	return string(t)
}

func vitalsText(grades []models.GradeResult, advice health.ChronicAdvice, notes []string) string {
	var sb strings.Builder
	sb.WriteString(recordedHeader(models.IntentVitals))
	gradeLines(&sb, grades)

	if advice.Text != "" {
		sb.WriteString("\n\n" + advice.Text)
	}
	if d := advice.DASH; d != nil {
		fmt.Fprintf(&sb, "\n\n🥗 DASH diet\nSodium: %s\nEat more: %s\nAvoid: %s\nSample menu: %s",
			d.Sodium, d.FoodsEat, d.FoodsAvoid, d.SampleMenu)
	}
	if a := advice.ActionPlans; a != nil {
		fmt.Fprintf(&sb, "\n\n📋 Action plan\nNow: %s\nThis week: %s\nThis month: %s", a.Immediate, a.Weekly, a.Monthly)
	}
	if advice.MetabolicAlert != "" {
		sb.WriteString("\n\n" + advice.MetabolicAlert)
	}
	for _, n := range notes {
		if n = strings.TrimSpace(n); n != "" {
			sb.WriteString("\n" + n)
		}
	}
	return sb.String()
}

func vitalsFallbackText(grades []models.GradeResult) string {
	var sb strings.Builder
	sb.WriteString("I could not read all of your measurements, so nothing was saved.")
	if len(grades) > 0 {
		sb.WriteString("\nFrom the numbers I recognized:")
		gradeLines(&sb, grades)
	}
	sb.WriteString("\nPlease send them again, for example \"blood pressure 135/85, glucose 110 fasting\".")
	return sb.String()
}

func profileText(p *models.UserProfile, energy *health.Energy, bmi *models.GradeResult) string {
	var sb strings.Builder
	sb.WriteString("✅ Profile updated:")
	if p.HeightCM != nil {
		fmt.Fprintf(&sb, "\nHeight: %gcm", *p.HeightCM)
	}
	if p.WeightKG != nil {
		fmt.Fprintf(&sb, "\nWeight: %gkg", *p.WeightKG)
	}
	if p.Age != nil {
		fmt.Fprintf(&sb, "\nAge: %d", *p.Age)
	}
	if p.Sex != nil {
		fmt.Fprintf(&sb, "\nSex: %s", *p.Sex)
	}
	fmt.Fprintf(&sb, "\nActivity: %s", p.ActivityLevel)
	if p.GoalOffsetKcal != 0 {
		fmt.Fprintf(&sb, "\nGoal offset: %+.0f kcal", p.GoalOffsetKcal)
	}
	if bmi != nil {
		fmt.Fprintf(&sb, "\n%s BMI %s: %s", bmi.Emoji, bmi.Display, bmi.Label)
	}
	if energy != nil {
		fmt.Fprintf(&sb, "\n\nBMR %.0f kcal, TDEE %.0f kcal, daily budget %.0f kcal.", energy.BMR, energy.TDEE, energy.Budget)
	} else {
		sb.WriteString("\n\nAdd the missing fields to get your daily calorie budget.")
	}
	return sb.String()
}

const profileFallbackText = "I could not read your profile details, so nothing was changed. " +
	"Please send them like \"165 cm, 50 kg, 25 years old, female\"."

func weeklyText(r *models.WeeklyReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Health report %s to %s\n%s", r.From, r.To, divider)
	if r.DaysLogged == 0 {
		sb.WriteString("\nNo records in the last 7 days yet. Send \"record\" to start.")
		return sb.String()
	}
	fmt.Fprintf(&sb, "\nDays with records: %d/7", r.DaysLogged)

	if r.Diet.DaysLogged > 0 {
		fmt.Fprintf(&sb, "\n\n🥗 Diet (%d days): %s, trend %s",
			r.Diet.DaysLogged, health.FormatEnergyStatus(r.Diet.EnergyStatus, r.Diet.MeanKcal, r.TDEE), r.Diet.Trend)
	}
	if r.Sleep.DaysLogged > 0 {
		fmt.Fprintf(&sb, "\n\n🛌 Sleep (%d days): average %.1f h, score %.0f, trend %s",
			r.Sleep.DaysLogged, r.Sleep.MeanHours, r.Sleep.MeanScore, r.Sleep.Trend)
		if r.Sleep.SnoringNights > 0 {
			fmt.Fprintf(&sb, "\nSnoring reported on %d nights", r.Sleep.SnoringNights)
		}
		if r.Sleep.AlcoholNights > 0 {
			fmt.Fprintf(&sb, "\nAlcohol before bed on %d nights", r.Sleep.AlcoholNights)
		}
	}
	if r.Vitals.Readings > 0 {
		fmt.Fprintf(&sb, "\n\n🩺 Vitals: %d readings, %d alerts", r.Vitals.Readings, r.Vitals.AlertCount)
		if len(r.Vitals.BloodPressure) > 0 {
			fmt.Fprintf(&sb, "\nBlood pressure: %s (trend %s)", strings.Join(r.Vitals.BloodPressure, " → "), r.Vitals.SystolicTrend)
		}
		if len(r.Vitals.Glucose) > 0 {
			fmt.Fprintf(&sb, "\nGlucose: %s (trend %s)", strings.Join(r.Vitals.Glucose, " → "), r.Vitals.GlucoseTrend)
		}
		if r.Vitals.LatestBMI != nil {
			fmt.Fprintf(&sb, "\nLatest BMI: %.1f", *r.Vitals.LatestBMI)
		}
	}
	if len(r.FlaggedDays) > 0 {
		fmt.Fprintf(&sb, "\n\n⚠️ Days to review: %s", strings.Join(r.FlaggedDays, ", "))
	}
	return sb.String()
}

func narrativeText(n *generation.WeeklyNarrativeOutput) string {
	var sb strings.Builder
	sb.WriteString("📝 " + strings.TrimSpace(n.Summary))
	sb.WriteString("\n\nNext week:")
	for i, a := range n.Actions {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, strings.TrimSpace(a))
	}
	return sb.String()
}
