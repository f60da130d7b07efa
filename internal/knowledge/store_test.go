package knowledge

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func embeddedFiles(t *testing.T) fstest.MapFS {
	t.Helper()
	files := fstest.MapFS{}
	for _, c := range Categories {
		data, err := embedded.ReadFile("data/" + string(c) + ".json")
		require.NoError(t, err)
		files[string(c)+".json"] = &fstest.MapFile{Data: data}
	}
	return files
}

func TestLoadEmbedded(t *testing.T) {
	store, err := Load()
	require.NoError(t, err)

	for _, c := range Categories {
		v, err := store.Version(c)
		require.NoError(t, err)
		assert.NotEmpty(t, v)
	}
	assert.Len(t, store.Diet().FoodCategories, 7)
	assert.Equal(t, 6.0, store.Sleep().CaffeineWindowHours)
	assert.Equal(t, "normal", store.Chronic().BloodPressure[0].Grade)
}

func TestLoadFS_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(files fstest.MapFS)
		want   string
	}{
		{
			name: "Incompatible schema",
			mutate: func(files fstest.MapFS) {
				data := strings.Replace(string(files["chronic.json"].Data), "healthassistant.knowledge/v1", "healthassistant.knowledge/v2", 1)
				files["chronic.json"] = &fstest.MapFile{Data: []byte(data)}
			},
			want: "schema",
		},
		{
			name: "Missing category",
			mutate: func(files fstest.MapFS) {
				delete(files, "sleep.json")
			},
			want: "sleep.json",
		},
		{
			name: "Wrong category",
			mutate: func(files fstest.MapFS) {
				data := strings.Replace(string(files["diet.json"].Data), `"category": "diet"`, `"category": "sleep"`, 1)
				files["diet.json"] = &fstest.MapFile{Data: []byte(data)}
			},
			want: "category",
		},
		{
			name: "Unknown field",
			mutate: func(files fstest.MapFS) {
				data := strings.Replace(string(files["diet.json"].Data), `"sodium_limit_mg"`, `"sodium_cap_mg"`, 1)
				files["diet.json"] = &fstest.MapFile{Data: []byte(data)}
			},
			want: "diet.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := embeddedFiles(t)
			tt.mutate(files)

			store, err := LoadFS(files)

			assert.Nil(t, store)
			require.ErrorIs(t, err, ErrKnowledgeMissing)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateBands(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	assert.NoError(t, validateBands("t", []Band{{Grade: "a"}, {Grade: "b", Min: f(1)}, {Grade: "c", Min: f(2)}}))
	assert.ErrorIs(t, validateBands("t", nil), ErrKnowledgeMissing)
	assert.ErrorIs(t, validateBands("t", []Band{{Grade: "a", Min: f(0)}}), ErrKnowledgeMissing)
	assert.ErrorIs(t, validateBands("t", []Band{{Grade: "a"}, {Grade: "b", Min: f(2)}, {Grade: "c", Min: f(2)}}), ErrKnowledgeMissing)
	assert.ErrorIs(t, validateBands("t", []Band{{Grade: "a"}, {Grade: "b"}}), ErrKnowledgeMissing)
}
