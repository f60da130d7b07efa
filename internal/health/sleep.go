package health

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"healthassistant/internal/knowledge"
	"healthassistant/internal/models"
)

const (
	DurationInsufficient = "insufficient"
	DurationAdequate     = "adequate"
	DurationExcessive    = "excessive"
)

var ErrInvalidClock = errors.New("invalid clock time")

// SleepInput is one reported night, already resolved to absolute times.
type SleepInput struct {
	Start            time.Time
	End              time.Time
	LatencyMin       float64
	WasoMin          float64
	CaffeineReported bool
	CaffeineTimes    []time.Time
	Snoring          bool
	Alcohol          bool
}

type SleepAssessment struct {
	TotalDurationMin float64
	AsleepMin        float64
	N3Min            float64
	REMMin           float64
	N3Pct            float64
	REMPct           float64
	DurationStatus   string
	N3InRange        bool
	REMInRange       bool
	CaffeineFlag     bool
	SnoringFlag      bool
	AlcoholFlag      bool
	LatencyOK        bool
	WasoOK           bool
	Score            int
	Quality          knowledge.Band
}

// EstimateStages walks the cycle model across the asleep minutes. A partial
// final cycle contributes proportionally.
func EstimateStages(asleepMin float64, model knowledge.CycleModel) (n3, rem float64) {
	if asleepMin <= 0 || model.CycleMinutes <= 0 {
		return 0, 0
	}
	at := func(values []float64, i int) float64 {
		if len(values) == 0 {
			return 0
		}
		if i >= len(values) {
			return values[len(values)-1]
		}
		return values[i]
	}
	full := int(asleepMin / model.CycleMinutes)
	for i := 0; i < full; i++ {
		n3 += at(model.N3Minutes, i)
		rem += at(model.REMMinutes, i)
	}
	frac := (asleepMin - float64(full)*model.CycleMinutes) / model.CycleMinutes
	n3 += frac * at(model.N3Minutes, full)
	rem += frac * at(model.REMMinutes, full)
	return n3, rem
}

// CaffeineFlag reports caffeine within the window before sleep start. Caffeine
// reported without a time is flagged.
func CaffeineFlag(in SleepInput, windowHours float64) bool {
	if in.CaffeineReported && len(in.CaffeineTimes) == 0 {
		return true
	}
	window := time.Duration(windowHours * float64(time.Hour))
	for _, t := range in.CaffeineTimes {
		before := in.Start.Sub(t)
		if before >= 0 && before <= window {
			return true
		}
	}
	return false
}

func AssessSleep(in SleepInput, s *knowledge.SleepSlice) (SleepAssessment, error) {
	if s == nil {
		return SleepAssessment{}, fmt.Errorf("%w: sleep slice", knowledge.ErrKnowledgeMissing)
	}
	if !in.End.After(in.Start) {
		return SleepAssessment{}, fmt.Errorf("sleep end %s is not after start %s", in.End.Format(time.RFC3339), in.Start.Format(time.RFC3339))
	}

	a := SleepAssessment{TotalDurationMin: in.End.Sub(in.Start).Minutes()}
	a.AsleepMin = math.Max(0, a.TotalDurationMin-in.LatencyMin-in.WasoMin)
	a.N3Min, a.REMMin = EstimateStages(a.AsleepMin, s.CycleModel)
	if a.AsleepMin > 0 {
		a.N3Pct = round1(a.N3Min / a.AsleepMin * 100)
		a.REMPct = round1(a.REMMin / a.AsleepMin * 100)
	}
	a.N3Min = round1(a.N3Min)
	a.REMMin = round1(a.REMMin)

	hours := a.AsleepMin / 60
	switch {
	case hours < s.Bracket.MinHours:
		a.DurationStatus = DurationInsufficient
	case hours > s.Bracket.MaxHours:
		a.DurationStatus = DurationExcessive
	default:
		a.DurationStatus = DurationAdequate
	}
	a.N3InRange = s.StageReference.N3Pct.Contains(a.N3Pct)
	a.REMInRange = s.StageReference.REMPct.Contains(a.REMPct)
	a.CaffeineFlag = CaffeineFlag(in, s.CaffeineWindowHours)
	a.SnoringFlag = in.Snoring
	a.AlcoholFlag = in.Alcohol
	a.LatencyOK = in.LatencyMin <= s.LatencyMaxMin
	a.WasoOK = in.WasoMin <= s.WasoMaxMin

	p := s.ScorePenalties
	score := 100
	if a.DurationStatus != DurationAdequate {
		score -= p.Duration
	}
	if !a.N3InRange {
		score -= p.N3
	}
	if !a.REMInRange {
		score -= p.REM
	}
	if a.CaffeineFlag {
		score -= p.Caffeine
	}
	if a.SnoringFlag {
		score -= p.Snoring
	}
	if a.AlcoholFlag {
		score -= p.Alcohol
	}
	if !a.LatencyOK {
		score -= p.Latency
	}
	if !a.WasoOK {
		score -= p.Waso
	}
	if score < 0 {
		score = 0
	}
	a.Score = score

	quality, err := GradeValue(s.QualityBands, float64(score))
	if err != nil {
		return SleepAssessment{}, err
	}
	a.Quality = quality
	return a, nil
}

// Session converts an assessment into the stored form.
func (a SleepAssessment) Session(in SleepInput) models.SleepSession {
	return models.SleepSession{
		Start:               in.Start,
		End:                 in.End,
		TotalDurationMin:    a.TotalDurationMin,
		LatencyMin:          in.LatencyMin,
		WasoMin:             in.WasoMin,
		EstimatedN3Minutes:  a.N3Min,
		EstimatedREMMinutes: a.REMMin,
		CaffeineFlag:        a.CaffeineFlag,
		SnoringFlag:         a.SnoringFlag,
		AlcoholFlag:         a.AlcoholFlag,
		Quality:             a.Quality.Grade,
		DurationStatus:      a.DurationStatus,
		Score:               a.Score,
	}
}

// ParseClock parses "HH:MM" in 24-hour form.
func ParseClock(clock string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	return hour, minute, nil
}

// ResolveClockBefore returns the latest instant at the given wall-clock time
// that is not after anchor, in anchor's location.
func ResolveClockBefore(anchor time.Time, clock string) (time.Time, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	t := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), hour, minute, 0, 0, anchor.Location())
	if t.After(anchor) {
		t = t.AddDate(0, 0, -1)
	}
	return t, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
