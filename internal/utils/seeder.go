package utils

import (
	"context"
	"fmt"
	"healthassistant/internal/health"
	"healthassistant/internal/knowledge"
	"healthassistant/internal/models"
	"healthassistant/internal/repository"
	"healthassistant/internal/services"
	"log"
	mathrand "math/rand"
	"time"
)

const DefaultDemoDays = 7

// DemoSeeder fills a user's history with plausible meals, nights and
// readings so reports and trends have something to show.
type DemoSeeder struct {
	profiles    repository.UserProfileRepository
	logs        repository.DailyLogRepository
	retriever   *knowledge.Retriever
	multipliers health.ActivityMultipliers
	rng         *mathrand.Rand
}

func NewDemoSeeder(
	profiles repository.UserProfileRepository,
	logs repository.DailyLogRepository,
	store *knowledge.Store,
	multipliers health.ActivityMultipliers,
	seed int64,
) *DemoSeeder {
	if multipliers == nil {
		multipliers = health.DefaultActivityMultipliers()
	}
	return &DemoSeeder{
		profiles:    profiles,
		logs:        logs,
		retriever:   knowledge.NewRetriever(store),
		multipliers: multipliers,
		rng:         mathrand.New(mathrand.NewSource(seed)),
	}
}

func demoProfile(userID string) *models.UserProfile {
	sex := models.SexFemale
	height := 165.0
	weight := 58.0
	age := 34
	return &models.UserProfile{
		UserID:        userID,
		Sex:           &sex,
		HeightCM:      &height,
		WeightKG:      &weight,
		Age:           &age,
		ActivityLevel: models.ActivityLight,
	}
}

// Seed writes a demo profile and one day of records for each of the `days`
// dates ending on `end`.
func (s *DemoSeeder) Seed(ctx context.Context, userID string, days int, end time.Time) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if days <= 0 {
		days = DefaultDemoDays
	}

	profile := demoProfile(userID)
	if err := s.profiles.Save(ctx, profile); err != nil {
		return fmt.Errorf("failed to save demo profile: %w", err)
	}
	energy, err := health.ComputeEnergy(profile, s.multipliers)
	if err != nil {
		return fmt.Errorf("failed to compute demo budget: %w", err)
	}

	diet, err := s.retriever.Retrieve(models.IntentDiet, knowledge.Query{})
	if err != nil {
		return err
	}
	sleep, err := s.retriever.Retrieve(models.IntentSleep, knowledge.Query{Age: profile.Age})
	if err != nil {
		return err
	}
	chronic, err := s.retriever.FullChronic()
	if err != nil {
		return err
	}

	startTime := time.Now()
	for i := days - 1; i >= 0; i-- {
		day := end.AddDate(0, 0, -i)
		date := day.Format(models.DateLayout)

		meals := s.meals(day, diet.Diet)
		night, err := s.night(day, sleep.Sleep)
		if err != nil {
			return fmt.Errorf("failed to build night for %s: %w", date, err)
		}
		readings, err := s.readings(day, chronic)
		if err != nil {
			return fmt.Errorf("failed to build readings for %s: %w", date, err)
		}

		_, err = s.logs.Append(ctx, userID, date, func(d *models.DailyLog) error {
			d.Meals = append(d.Meals, meals...)
			d.SleepSessions = append(d.SleepSessions, night)
			d.Vitals = append(d.Vitals, readings...)
			health.RecomputeTotals(d, energy.Budget, true)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to seed %s: %w", date, err)
		}
	}

	log.Printf("Seeded %d demo days for user %s in %v", days, userID, time.Since(startTime))
	return nil
}

func (s *DemoSeeder) meals(day time.Time, diet *knowledge.DietSlice) []models.MealEntry {
	hours := []int{8, 12, 19}
	meals := make([]models.MealEntry, 0, len(hours))
	for _, h := range hours {
		entry := models.MealEntry{
			Timestamp:       time.Date(day.Year(), day.Month(), day.Day(), h, s.rng.Intn(60), 0, 0, day.Location()),
			FoodDescription: "home-cooked meal",
			EstimatedKcal:   float64(400 + s.rng.Intn(300)),
			FoodCategory:    models.FoodGrains,
			KcalSource:      services.KcalSourceReference,
		}
		if diet != nil && len(diet.CommonItems) > 0 {
			item := diet.CommonItems[s.rng.Intn(len(diet.CommonItems))]
			entry.FoodDescription = item.Name
			entry.EstimatedKcal = item.Kcal
			if models.IsFoodCategory(item.Category) {
				entry.FoodCategory = models.FoodCategory(item.Category)
			}
		}
		meals = append(meals, entry)
	}
	return meals
}

// night ends on the morning of `day`.
func (s *DemoSeeder) night(day time.Time, slice *knowledge.SleepSlice) (models.SleepSession, error) {
	wake := time.Date(day.Year(), day.Month(), day.Day(), 6, 30+s.rng.Intn(60), 0, 0, day.Location())
	in := health.SleepInput{
		Start:      wake.Add(-time.Duration(360+s.rng.Intn(150)) * time.Minute),
		End:        wake,
		LatencyMin: float64(5 + s.rng.Intn(30)),
		WasoMin:    float64(s.rng.Intn(40)),
	}
	assessment, err := health.AssessSleep(in, slice)
	if err != nil {
		return models.SleepSession{}, err
	}
	return assessment.Session(in), nil
}

func (s *DemoSeeder) readings(day time.Time, chronic knowledge.Slice) ([]models.VitalReading, error) {
	systolic := 115 + s.rng.Intn(35)
	diastolic := 72 + s.rng.Intn(20)
	glucose := float64(85 + s.rng.Intn(40))

	readings := []models.VitalReading{
		{
			Timestamp: time.Date(day.Year(), day.Month(), day.Day(), 7, 45, 0, 0, day.Location()),
			Type:      models.VitalBloodPressure,
			Systolic:  &systolic,
			Diastolic: &diastolic,
		},
		{
			Timestamp:      time.Date(day.Year(), day.Month(), day.Day(), 7, 50, 0, 0, day.Location()),
			Type:           models.VitalGlucose,
			Value:          &glucose,
			GlucoseContext: models.GlucoseFasting,
		},
	}
	for i := range readings {
		if _, err := health.ApplyGrade(chronic.Chronic, chronic.Version, &readings[i]); err != nil {
			return nil, err
		}
	}
	return readings, nil
}

// CleanupDemoUser removes every stored record of a user.
func CleanupDemoUser(ctx context.Context, profiles repository.UserProfileRepository, logs repository.DailyLogRepository, userID string) error {
	if err := logs.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete logs: %w", err)
	}
	if err := profiles.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	log.Printf("Removed demo data for user %s", userID)
	return nil
}
