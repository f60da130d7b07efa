package models

import "time"

type QuickReply struct {
	Label string `json:"label" example:"Sleep"`
	Text  string `json:"text" example:"[record] sleep"`
}

type DailyTotals struct {
	Date                   string  `json:"date" example:"2024-05-01"`
	CaloriesConsumed       float64 `json:"calories_consumed" example:"800"`
	CalorieBudget          float64 `json:"calorie_budget" example:"2000"`
	CalorieBudgetRemaining float64 `json:"calorie_budget_remaining" example:"1200"`
	BudgetKnown            bool    `json:"budget_known" example:"true"`
}

type GradeResult struct {
	Type     VitalType `json:"type" example:"blood_pressure"`
	Display  string    `json:"display" example:"135/85"`
	Grade    string    `json:"grade" example:"stage1"`
	Label    string    `json:"label" example:"Stage 1 hypertension"`
	Severity int       `json:"severity" example:"2"`
	Emoji    string    `json:"emoji" example:"🟠"`
}

// ReplyPayload is what the chat connector receives for every turn.
type ReplyPayload struct {
	TurnID       string        `json:"turn_id" example:"5f0c8a7e-8f2b-4d43-9a55-3e1f5b8e2c11"`
	UserID       string        `json:"user_id" example:"U4af4980629"`
	Intent       Intent        `json:"intent" example:"diet"`
	Text         string        `json:"text"`
	QuickReplies []QuickReply  `json:"quick_replies,omitempty"`
	Fallback     bool          `json:"fallback"`
	Totals       *DailyTotals  `json:"totals,omitempty"`
	Grades       []GradeResult `json:"grades,omitempty"`
	Sleep        *SleepSession `json:"sleep,omitempty"`
	Report       *WeeklyReport `json:"report,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}
