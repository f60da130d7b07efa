package utils

import (
	"context"
	"healthassistant/internal/knowledge"
	"healthassistant/internal/models"
	"healthassistant/internal/repository"
	"healthassistant/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoSeeder_SeedAndCleanup(t *testing.T) {
	db := testutil.NewTestDB(t)
	store, err := knowledge.Load()
	require.NoError(t, err)

	profiles := repository.NewUserProfileRepository(db)
	logs := repository.NewDailyLogRepository(db)
	seeder := NewDemoSeeder(profiles, logs, store, nil, 42)

	ctx := context.Background()
	end := time.Date(2024, 5, 7, 12, 0, 0, 0, time.UTC)
	require.NoError(t, seeder.Seed(ctx, "demo", 7, end))

	profile, err := profiles.FindByUserID(ctx, "demo")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.True(t, profile.Complete())

	days, err := logs.FindRange(ctx, "demo", "2024-05-01", "2024-05-07")
	require.NoError(t, err)
	require.Len(t, days, 7)
	assert.Equal(t, "2024-05-01", days[0].Date)
	for _, day := range days {
		assert.Len(t, day.Meals, 3)
		assert.Len(t, day.SleepSessions, 1)
		assert.Len(t, day.Vitals, 2)
		assert.True(t, day.BudgetKnown)
		assert.InDelta(t, day.CalorieBudget-day.CaloriesConsumed, day.CalorieBudgetRemaining, 0.001)
		for _, v := range day.Vitals {
			assert.NotEmpty(t, v.RiskGrade)
		}
		assert.Equal(t, day.Date, day.SleepSessions[0].End.Format(models.DateLayout))
	}

	require.NoError(t, CleanupDemoUser(ctx, profiles, logs, "demo"))
	days, err = logs.FindRange(ctx, "demo", "2024-05-01", "2024-05-07")
	require.NoError(t, err)
	assert.Empty(t, days)
	profile, err = profiles.FindByUserID(ctx, "demo")
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestDemoSeeder_RequiresUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	store, err := knowledge.Load()
	require.NoError(t, err)

	seeder := NewDemoSeeder(repository.NewUserProfileRepository(db), repository.NewDailyLogRepository(db), store, nil, 1)
	assert.Error(t, seeder.Seed(context.Background(), "", 3, time.Now()))
}
