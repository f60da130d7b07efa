package models

import "strings"

type Intent string

const (
	IntentDiet          Intent = "diet"
	IntentSleep         Intent = "sleep"
	IntentVitals        Intent = "vitals"
	IntentProfileUpdate Intent = "profile_update"
	IntentQuery         Intent = "query"
	IntentUnknown       Intent = "unknown"
)

// Intents is the closed vocabulary offered to the model fallback.
var Intents = []Intent{
	IntentDiet, IntentSleep, IntentVitals, IntentProfileUpdate, IntentQuery, IntentUnknown,
}

func ParseIntent(s string) (Intent, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, i := range Intents {
		if string(i) == s {
			return i, true
		}
	}
	return IntentUnknown, false
}

// Records reports whether the intent appends an event to a DailyLog.
func (i Intent) Records() bool {
	return i == IntentDiet || i == IntentSleep || i == IntentVitals
}
