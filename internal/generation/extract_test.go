package generation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "Clean", raw: `{"intent":"diet"}`, want: "diet"},
		{name: "Fenced", raw: "```json\n{\"intent\":\"sleep\"}\n```", want: "sleep"},
		{name: "Surrounding prose", raw: "Sure! {\"intent\":\"vitals\"} Hope this helps", want: "vitals"},
		{name: "Comments", raw: "{\n// chosen\n\"intent\": \"query\" /* done */\n}", want: "query"},
		{name: "Braces in string", raw: `{"intent":"a{b}c"}`, want: "a{b}c"},
		{name: "No object", raw: "I cannot help with that.", wantErr: true},
		{name: "Broken", raw: `{"intent": diet}`, wantErr: true},
		{name: "Unknown field", raw: `{"intent":"diet","confidence":0.9}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ExtractJSON[IntentOutput](tt.raw, nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrGenerationMalformed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Intent)
		})
	}
}

func TestExtractJSON_LeadingDecimal(t *testing.T) {
	type payload struct {
		Value float64 `json:"value"`
		Label string  `json:"label"`
	}
	out, err := ExtractJSON[payload](`{"value": .5, "label": "keep .5"}`, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.5, out.Value)
	assert.Equal(t, "keep .5", out.Label)
}

func TestExtractJSON_Validator(t *testing.T) {
	reject := func(o *IntentOutput) error {
		if o.Intent != "diet" {
			return errors.New("intent must be diet")
		}
		return nil
	}

	_, err := ExtractJSON(`{"intent":"sleep"}`, Validator[IntentOutput](reject))
	assert.ErrorIs(t, err, ErrGenerationMalformed)
	assert.Contains(t, err.Error(), "intent must be diet")

	out, err := ExtractJSON(`{"intent":"diet"}`, Validator[IntentOutput](reject))
	require.NoError(t, err)
	assert.Equal(t, "diet", out.Intent)
}
