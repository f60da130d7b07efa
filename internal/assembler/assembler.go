package assembler

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"healthassistant/internal/generation"
	"healthassistant/internal/health"
	"healthassistant/internal/knowledge"
	"healthassistant/internal/models"
)

const DefaultWindowDays = 6

// Turn is the current message as the pipeline sees it.
type Turn struct {
	UserID    string
	Text      string
	Timestamp time.Time
	Intent    models.Intent
}

type ProfileSummary struct {
	Known         bool     `json:"known"`
	Sex           string   `json:"sex,omitempty"`
	Age           *int     `json:"age,omitempty"`
	HeightCM      *float64 `json:"height_cm,omitempty"`
	WeightKG      *float64 `json:"weight_kg,omitempty"`
	ActivityLevel string   `json:"activity_level,omitempty"`
	BMR           *float64 `json:"bmr_kcal,omitempty"`
	TDEE          *float64 `json:"tdee_kcal,omitempty"`
	Budget        *float64 `json:"daily_budget_kcal,omitempty"`
}

// DaySummary is the compact form of a DailyLog given to the model.
type DaySummary struct {
	Date             string   `json:"date"`
	CaloriesConsumed float64  `json:"calories_consumed"`
	BudgetRemaining  *float64 `json:"budget_remaining,omitempty"`
	Meals            []string `json:"meals,omitempty"`
	SleepHours       *float64 `json:"sleep_hours,omitempty"`
	SleepScore       *int     `json:"sleep_score,omitempty"`
	Vitals           []string `json:"vitals,omitempty"`
}

// ContextBundle is everything one generation call may see. Rendering it is
// deterministic: identical inputs give byte-identical prompts.
type ContextBundle struct {
	Turn      Turn
	Profile   ProfileSummary
	Today     DaySummary
	History   []DaySummary
	Knowledge knowledge.Slice
	Contract  generation.Contract
}

type Assembler struct {
	windowDays  int
	multipliers health.ActivityMultipliers
}

func New(windowDays int, multipliers health.ActivityMultipliers) *Assembler {
	if windowDays < 0 {
		windowDays = 0
	}
	return &Assembler{windowDays: windowDays, multipliers: multipliers}
}

func (a *Assembler) WindowDays() int { return a.windowDays }

// Assemble merges the turn, the bounded history and the knowledge slice.
// History outside the window before the turn's date is dropped.
func (a *Assembler) Assemble(turn Turn, profile *models.UserProfile, today *models.DailyLog, history []models.DailyLog, slice knowledge.Slice, contract generation.Contract) ContextBundle {
	date := turn.Timestamp.Format(models.DateLayout)
	from := turn.Timestamp.AddDate(0, 0, -a.windowDays).Format(models.DateLayout)

	bundle := ContextBundle{
		Turn:      turn,
		Profile:   a.summarizeProfile(profile),
		Today:     DaySummary{Date: date},
		Knowledge: slice,
		Contract:  contract,
	}
	if today != nil {
		bundle.Today = Summarize(today)
	}

	days := make([]models.DailyLog, 0, len(history))
	for _, d := range history {
		if d.Date >= from && d.Date < date {
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	for i := range days {
		bundle.History = append(bundle.History, Summarize(&days[i]))
	}
	return bundle
}

func (a *Assembler) summarizeProfile(p *models.UserProfile) ProfileSummary {
	if p == nil {
		return ProfileSummary{}
	}
	s := ProfileSummary{
		Known:         true,
		Age:           p.Age,
		HeightCM:      p.HeightCM,
		WeightKG:      p.WeightKG,
		ActivityLevel: string(p.ActivityLevel),
	}
	if p.Sex != nil {
		s.Sex = string(*p.Sex)
	}
	if e, err := health.ComputeEnergy(p, a.multipliers); err == nil {
		bmr, tdee, budget := round0(e.BMR), round0(e.TDEE), round0(e.Budget)
		s.BMR, s.TDEE, s.Budget = &bmr, &tdee, &budget
	}
	return s
}

// Summarize reduces a DailyLog to what the model needs.
func Summarize(d *models.DailyLog) DaySummary {
	s := DaySummary{Date: d.Date, CaloriesConsumed: d.CaloriesConsumed}
	if remaining, ok := health.Remaining(d); ok {
		s.BudgetRemaining = &remaining
	}

	meals := append([]models.MealEntry(nil), d.Meals...)
	sort.SliceStable(meals, func(i, j int) bool { return meals[i].Timestamp.Before(meals[j].Timestamp) })
	for _, m := range meals {
		s.Meals = append(s.Meals, fmt.Sprintf("%s %.0f kcal", m.FoodDescription, m.EstimatedKcal))
	}

	if len(d.SleepSessions) > 0 {
		asleep, score := 0.0, 0
		for _, ss := range d.SleepSessions {
			asleep += ss.AsleepMinutes()
			score += ss.Score
		}
		hours := round1(asleep / 60)
		avg := score / len(d.SleepSessions)
		s.SleepHours, s.SleepScore = &hours, &avg
	}

	vitals := append([]models.VitalReading(nil), d.Vitals...)
	sort.SliceStable(vitals, func(i, j int) bool { return vitals[i].Timestamp.Before(vitals[j].Timestamp) })
	for i := range vitals {
		s.Vitals = append(s.Vitals, fmt.Sprintf("%s %s (%s)", vitals[i].Type, health.DisplayValue(&vitals[i]), vitals[i].RiskGrade))
	}
	return s
}

// Render builds the system prompt.
func (b ContextBundle) Render() string {
	var sb strings.Builder
	sb.WriteString("You are a health-tracking assistant with a verified reference knowledge base.\n")
	sb.WriteString("Base every judgement on the reference knowledge below, not on memory.\n")
	sb.WriteString("Profile numbers (BMR, TDEE, budget) are computed by the system. Quote them, never recompute them.\n")
	sb.WriteString("Count only what the user reports in this message. The system adds it to today's totals.\n\n")

	fmt.Fprintf(&sb, "### Current Time:\n%s\n\n", b.Turn.Timestamp.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&sb, "### Record Type:\n%s\n\n", b.Turn.Intent)
	writeJSON(&sb, "User Profile", b.Profile)
	writeJSON(&sb, "Today So Far", b.Today)
	if len(b.History) > 0 {
		writeJSON(&sb, "Recent Days", b.History)
	} else {
		sb.WriteString("### Recent Days:\nnone\n\n")
	}
	if !b.Knowledge.Empty() {
		writeJSON(&sb, "Reference Knowledge", b.Knowledge)
	}
	if b.Contract.Instructions != "" {
		fmt.Fprintf(&sb, "### Task:\n%s\n", b.Contract.Instructions)
	}
	return sb.String()
}

// Request turns the bundle into one model call.
func (b ContextBundle) Request() generation.GenerateRequest {
	return generation.GenerateRequest{
		SystemPrompt: b.Render(),
		UserPrompt:   b.Turn.Text,
		Schema:       b.Contract.Schema,
	}
}

func writeJSON(sb *strings.Builder, title string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		data = []byte(fmt.Sprintf("%q", err.Error()))
	}
	fmt.Fprintf(sb, "### %s:\n%s\n\n", title, data)
}

func round0(v float64) float64 {
	return math.Round(v)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// WeeklyNarrativeRequest asks for commentary on a computed weekly report. The
// report is the only data the model sees.
func WeeklyNarrativeRequest(report *models.WeeklyReport, contract generation.Contract) generation.GenerateRequest {
	var sb strings.Builder
	sb.WriteString("You are a health-tracking assistant writing a weekly review.\n")
	sb.WriteString("All statistics are computed by the system. Quote them, never recompute them.\n\n")
	writeJSON(&sb, "Weekly Statistics", report)
	fmt.Fprintf(&sb, "### Task:\n%s\n", contract.Instructions)
	return generation.GenerateRequest{
		SystemPrompt: sb.String(),
		UserPrompt:   fmt.Sprintf("Review my week from %s to %s.", report.From, report.To),
		Schema:       contract.Schema,
	}
}
