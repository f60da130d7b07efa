package generation

import (
	"errors"
	"fmt"
	"strings"

	"healthassistant/internal/models"
)

const maxNarrativeActions = 3

// WeeklyNarrativeOutput is the contract for the weekly report commentary. The
// numbers it discusses come from the computed report only.
type WeeklyNarrativeOutput struct {
	Summary string   `json:"summary"`
	Actions []string `json:"actions"`
}

func (c *Contracts) WeeklyNarrative() Contract {
	return Contract{
		Intent: models.IntentQuery,
		Name:   "weekly_narrative",
		Schema: fmt.Sprintf(`{
  "summary": string, 2 to 4 sentences on intake against TDEE, sleep and vitals trends,
  "actions": [string], 1 to %d concrete actions for next week
}`, maxNarrativeActions),
		Instructions: "Write a short weekly review from the statistics below. Use only these numbers and do not compute new ones. End with actions for next week.",
	}
}

func (c *Contracts) ValidateWeeklyNarrative(o *WeeklyNarrativeOutput) error {
	if strings.TrimSpace(o.Summary) == "" {
		return errors.New("summary is required")
	}
	if len(o.Actions) == 0 || len(o.Actions) > maxNarrativeActions {
		return fmt.Errorf("actions must hold 1 to %d items, got %d", maxNarrativeActions, len(o.Actions))
	}
	for i, a := range o.Actions {
		if strings.TrimSpace(a) == "" {
			return fmt.Errorf("actions[%d] is empty", i)
		}
	}
	return nil
}
