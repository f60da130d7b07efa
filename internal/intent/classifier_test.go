package intent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthassistant/internal/generation"
	"healthassistant/internal/models"
)

func modelReturning(raw string, err error, calls *int) generation.Generator {
	return generation.GeneratorFunc(func(ctx context.Context, req generation.GenerateRequest) (string, error) {
		*calls++
		return raw, err
	})
}

func TestClassify_Rules(t *testing.T) {
	calls := 0
	c := NewClassifier(modelReturning(`{"intent":"diet"}`, nil, &calls), time.Second)

	tests := []struct {
		name       string
		text       string
		state      *models.ConversationState
		want       models.Intent
		wantSource Source
	}{
		{"Pressure pattern", "135/85 this morning", nil, models.IntentVitals, SourceRule},
		{"Pressure keyword low numbers", "BP 100/65", nil, models.IntentVitals, SourceRule},
		{"Chinese pressure", "血壓 135/85，血糖 110 (飯後)", nil, models.IntentVitals, SourceRule},
		{"Glucose", "fasting glucose was 98", nil, models.IntentVitals, SourceRule},
		{"Weight alone", "I weigh 72kg today", nil, models.IntentVitals, SourceRule},
		{"Profile", "165cm, 50kg, 25 years old, female", nil, models.IntentProfileUpdate, SourceRule},
		{"Chinese profile", "165公分、50公斤、25歲、女", nil, models.IntentProfileUpdate, SourceRule},
		{"Pattern beats record mode", "120/80", &models.ConversationState{PendingIntent: models.IntentDiet}, models.IntentVitals, SourceRule},
		{"Record mode", "a hamburger and a bubble tea", &models.ConversationState{PendingIntent: models.IntentSleep}, models.IntentSleep, SourceState},
		{"Diet keyword", "I ate a hamburger for lunch", nil, models.IntentDiet, SourceKeyword},
		{"Chinese diet", "午餐吃了一個漢堡", nil, models.IntentDiet, SourceKeyword},
		{"Sleep keyword", "slept at midnight and woke at 7", nil, models.IntentSleep, SourceKeyword},
		{"Query keyword", "show my weekly report", nil, models.IntentQuery, SourceKeyword},
		{"Diet wins ties", "drink before bed", nil, models.IntentDiet, SourceKeyword},
		{"Date is not pressure", "on 12/25 I felt fine", nil, models.IntentDiet, SourceModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(context.Background(), tt.text, tt.state)
			assert.Equal(t, tt.want, got.Intent)
			assert.Equal(t, tt.wantSource, got.Source)
		})
	}
	assert.Equal(t, 1, calls)
}

func TestClassify_Entities(t *testing.T) {
	e := ExtractEntities("血壓 135/85，血糖 110 (飯後)")
	require.NotNil(t, e.Systolic)
	require.NotNil(t, e.Diastolic)
	require.NotNil(t, e.Glucose)
	assert.Equal(t, 135, *e.Systolic)
	assert.Equal(t, 85, *e.Diastolic)
	assert.Equal(t, 110.0, *e.Glucose)
	assert.Equal(t, []models.VitalType{models.VitalBloodPressure, models.VitalGlucose}, e.ReadingTypes)

	p := ExtractEntities("165cm 50kg 25 years old")
	require.NotNil(t, p.HeightCM)
	require.NotNil(t, p.WeightKG)
	require.NotNil(t, p.Age)
	assert.Equal(t, 165.0, *p.HeightCM)
	assert.Equal(t, 50.0, *p.WeightKG)
	assert.Equal(t, 25, *p.Age)
	assert.Empty(t, p.ReadingTypes)
}

func TestClassify_ModelFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		err  error
		want models.Intent
	}{
		{"In vocabulary", `{"intent":"sleep"}`, nil, models.IntentSleep},
		{"Out of vocabulary", `{"intent":"exercise"}`, nil, models.IntentUnknown},
		{"Malformed", `maybe diet?`, nil, models.IntentUnknown},
		{"Model error", "", errors.New("connection refused"), models.IntentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			c := NewClassifier(modelReturning(tt.raw, tt.err, &calls), time.Second)

			got := c.Classify(context.Background(), "hello there", nil)

			assert.Equal(t, tt.want, got.Intent)
			assert.Equal(t, SourceModel, got.Source)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestClassify_NoModel(t *testing.T) {
	got := NewClassifier(nil, 0).Classify(context.Background(), "hello there", nil)
	assert.Equal(t, models.IntentUnknown, got.Intent)
	assert.Equal(t, SourceNone, got.Source)
}
