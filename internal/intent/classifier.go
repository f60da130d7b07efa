package intent

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"healthassistant/internal/generation"
	"healthassistant/internal/models"
)

type Source string

const (
	SourceRule    Source = "rule"
	SourceState   Source = "state"
	SourceKeyword Source = "keyword"
	SourceModel   Source = "model"
	SourceNone    Source = "none"
)

// Entities are the values the pattern rules could read directly from text.
type Entities struct {
	Systolic     *int               `json:"systolic,omitempty"`
	Diastolic    *int               `json:"diastolic,omitempty"`
	Glucose      *float64           `json:"glucose,omitempty"`
	HeightCM     *float64           `json:"height_cm,omitempty"`
	WeightKG     *float64           `json:"weight_kg,omitempty"`
	Age          *int               `json:"age,omitempty"`
	ReadingTypes []models.VitalType `json:"reading_types,omitempty"`
}

type Classification struct {
	Intent   models.Intent `json:"intent"`
	Entities Entities      `json:"entities"`
	Source   Source        `json:"source"`
}

var (
	bpPattern       = regexp.MustCompile(`(\d{2,3})\s*/\s*(\d{2,3})`)
	glucosePattern  = regexp.MustCompile(`(?i)(?:glucose|blood sugar|血糖)\D{0,12}?(\d{2,3}(?:\.\d+)?)`)
	heightPattern   = regexp.MustCompile(`(?i)(\d{2,3}(?:\.\d+)?)\s*(?:cm|公分)`)
	weightPattern   = regexp.MustCompile(`(?i)(\d{2,3}(?:\.\d+)?)\s*(?:kg|公斤)`)
	agePattern      = regexp.MustCompile(`(?i)(\d{1,3})\s*(?:歲|years?\s*old|y/o|yo\b)|(?:age|年齡)\s*:?\s*(\d{1,3})`)
	bpKeywords      = []string{"blood pressure", "bp", "mmhg", "血壓"}
	glucoseKeywords = []string{"glucose", "blood sugar", "血糖"}
	bmiKeywords     = []string{"bmi", "體重"}
	vitalsKeywords  = []string{"vitals", "慢性病", "測量"}
)

// keyword tables in tie-break order.
var keywordRules = []struct {
	intent   models.Intent
	keywords []string
}{
	{models.IntentDiet, []string{"ate", "eat", "eaten", "breakfast", "lunch", "dinner", "snack", "meal", "drank", "drink", "calorie", "kcal", "飲食", "吃", "喝", "餐", "熱量", "飯", "麵"}},
	{models.IntentSleep, []string{"sleep", "slept", "asleep", "woke", "wake", "bed", "nap", "insomnia", "睡眠", "睡", "醒", "夢"}},
	{models.IntentQuery, []string{"report", "summary", "weekly", "trend", "how am i", "報告", "週報", "統計", "查詢"}},
}

// Classifier maps free text to an intent. Rules are tried before the model.
type Classifier struct {
	gen     generation.Generator
	timeout time.Duration
}

// NewClassifier builds a classifier. gen may be nil, in which case text no
// rule recognizes is Unknown.
func NewClassifier(gen generation.Generator, timeout time.Duration) *Classifier {
	return &Classifier{gen: gen, timeout: timeout}
}

// Classify never fails: any model error yields Unknown.
func (c *Classifier) Classify(ctx context.Context, text string, state *models.ConversationState) Classification {
	lower := strings.ToLower(text)
	entities := ExtractEntities(text)

	// Pattern rules. Body weight alone is a BMI reading, but two or more of
	// height, weight and age read as a profile.
	if entities.has(models.VitalBloodPressure) || entities.has(models.VitalGlucose) {
		return Classification{Intent: models.IntentVitals, Entities: entities, Source: SourceRule}
	}
	if profileFields(entities) >= 2 {
		return Classification{Intent: models.IntentProfileUpdate, Entities: entities, Source: SourceRule}
	}
	if entities.has(models.VitalBMI) || containsAny(lower, vitalsKeywords) {
		return Classification{Intent: models.IntentVitals, Entities: entities, Source: SourceRule}
	}

	if pending, ok := state.Pending(); ok {
		return Classification{Intent: pending, Entities: entities, Source: SourceState}
	}

	best, bestScore := models.IntentUnknown, 0
	for _, rule := range keywordRules {
		score := 0
		for _, k := range rule.keywords {
			if containsKeyword(lower, k) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = rule.intent, score
		}
	}
	if bestScore > 0 {
		return Classification{Intent: best, Entities: entities, Source: SourceKeyword}
	}

	if c.gen == nil {
		return Classification{Intent: models.IntentUnknown, Entities: entities, Source: SourceNone}
	}
	return Classification{Intent: c.classifyWithModel(ctx, text), Entities: entities, Source: SourceModel}
}

func (c *Classifier) classifyWithModel(ctx context.Context, text string) models.Intent {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	vocab := make([]string, len(models.Intents))
	for i, in := range models.Intents {
		vocab[i] = string(in)
	}
	raw, err := c.gen.Generate(ctx, generation.GenerateRequest{
		SystemPrompt: "You label health-tracking chat messages. diet is food or drink eaten, sleep is a night of sleep, vitals is blood pressure, glucose or body weight, profile_update is height, weight, age or sex, query asks for a summary, unknown is anything else.",
		UserPrompt:   text,
		Schema:       fmt.Sprintf(`{"intent": one of ["%s"]}`, strings.Join(vocab, `", "`)),
	})
	if err != nil {
		log.Printf("Intent model fallback failed: %v", err)
		return models.IntentUnknown
	}

	out, err := generation.ExtractJSON[generation.IntentOutput](raw, nil)
	if err != nil {
		log.Printf("Intent model fallback returned invalid output: %v", err)
		return models.IntentUnknown
	}
	in, ok := models.ParseIntent(out.Intent)
	if !ok {
		return models.IntentUnknown
	}
	return in
}

// ExtractEntities reads blood pressure, glucose and profile numbers from text.
func ExtractEntities(text string) Entities {
	lower := strings.ToLower(text)
	var e Entities

	hasBPKeyword := containsAny(lower, bpKeywords)
	if m := bpPattern.FindStringSubmatch(text); m != nil {
		sys, _ := strconv.Atoi(m[1])
		dia, _ := strconv.Atoi(m[2])
		if hasBPKeyword || plausiblePressure(sys, dia) {
			e.Systolic, e.Diastolic = &sys, &dia
		}
	}
	if e.Systolic != nil || hasBPKeyword {
		e.ReadingTypes = append(e.ReadingTypes, models.VitalBloodPressure)
	}

	if m := glucosePattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			e.Glucose = &v
		}
	}
	if e.Glucose != nil || containsAny(lower, glucoseKeywords) {
		e.ReadingTypes = append(e.ReadingTypes, models.VitalGlucose)
	}
	if m := heightPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			e.HeightCM = &v
		}
	}
	if m := weightPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			e.WeightKG = &v
		}
	}
	if m := agePattern.FindStringSubmatch(text); m != nil {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		if v, err := strconv.Atoi(raw); err == nil {
			e.Age = &v
		}
	}

	if containsAny(lower, bmiKeywords) || (e.WeightKG != nil && profileFields(e) == 1) {
		e.ReadingTypes = append(e.ReadingTypes, models.VitalBMI)
	}
	return e
}

func (e Entities) has(t models.VitalType) bool {
	for _, x := range e.ReadingTypes {
		if x == t {
			return true
		}
	}
	return false
}

func plausiblePressure(sys, dia int) bool {
	return sys >= 70 && sys <= 300 && dia >= 40 && dia <= 200 && sys > dia
}

func profileFields(e Entities) int {
	n := 0
	if e.HeightCM != nil {
		n++
	}
	if e.WeightKG != nil {
		n++
	}
	if e.Age != nil {
		n++
	}
	return n
}

func containsAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if containsKeyword(lower, k) {
			return true
		}
	}
	return false
}

// containsKeyword matches ASCII keywords on word boundaries and CJK keywords
// as substrings.
func containsKeyword(lower, keyword string) bool {
	if !isASCII(keyword) {
		return strings.Contains(lower, keyword)
	}
	for from := 0; ; {
		idx := strings.Index(lower[from:], keyword)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(keyword)
		if (start == 0 || !isWordByte(lower[start-1])) && (end == len(lower) || !isWordByte(lower[end])) {
			return true
		}
		from = start + 1
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
